/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/suparena/dynamoentity/datastore"
	"github.com/suparena/dynamoentity/datastore/mock"
	"github.com/suparena/dynamoentity/storagemodels"
)

type TestEntity struct {
	Owner string
	Slot  string
	Name  string
}

type TestKey struct {
	Owner string
	Slot  string
}

func newStore() *mock.DataStore[TestEntity, TestKey] {
	return mock.New[TestEntity, TestKey](func(e *TestEntity) TestKey {
		return TestKey{Owner: e.Owner, Slot: e.Slot}
	}).WithHashFunc(func(e *TestEntity) any { return e.Owner })
}

func TestMockDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		store := newStore()

		entity := TestEntity{Owner: "u1", Slot: "a", Name: "Test"}
		if err := store.Save(ctx, &entity); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := store.Load(ctx, TestKey{Owner: "u1", Slot: "a"})
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if retrieved == nil || retrieved.Name != "Test" {
			t.Fatalf("Retrieved entity mismatch: %+v", retrieved)
		}

		if err := store.DeleteItem(ctx, &entity); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		retrieved, err = store.Load(ctx, TestKey{Owner: "u1", Slot: "a"})
		if err != nil || retrieved != nil {
			t.Fatalf("Expected nil, nil after delete, got %+v, %v", retrieved, err)
		}

		if err := store.Delete(ctx, TestKey{Owner: "u1", Slot: "a"}); err != nil {
			t.Fatalf("Delete of absent key failed: %v", err)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		saveErr := errors.New("save failed")
		deleteErr := errors.New("delete failed")
		store := newStore().WithSaveError(saveErr).WithDeleteError(deleteErr)

		entity := TestEntity{Owner: "u1", Slot: "a"}
		if err := store.Save(ctx, &entity); err != saveErr {
			t.Fatalf("Expected save error, got: %v", err)
		}
		if err := store.Delete(ctx, TestKey{Owner: "u1"}); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}
	})

	t.Run("QueryPagination", func(t *testing.T) {
		store := newStore().WithPageSize(2)
		for _, e := range []TestEntity{
			{Owner: "u1", Slot: "a"},
			{Owner: "u1", Slot: "b"},
			{Owner: "u1", Slot: "c"},
			{Owner: "u2", Slot: "a"},
		} {
			e := e
			if err := store.Save(ctx, &e); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}

		first, err := store.Query(ctx, "u1", nil)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(first.Items) != 2 || !first.HasMore() {
			t.Fatalf("Expected a full first page with continuation, got %+v", first)
		}

		second, err := store.Query(ctx, "u1", first.Continuation)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(second.Items) != 1 || second.Items[0].Slot != "c" || second.HasMore() {
			t.Fatalf("Unexpected second page: %+v", second)
		}
	})

	t.Run("CustomQueryIndexFunction", func(t *testing.T) {
		store := newStore().WithQueryIndexFunc(func(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[TestEntity, storagemodels.IndexKey], error) {
			return &storagemodels.ResultPage[TestEntity, storagemodels.IndexKey]{
				Items: []TestEntity{{Owner: "u1", Name: indexName}},
			}, nil
		})

		page, err := store.QueryIndex(ctx, "GSI1", "PK1", "x", nil)
		if err != nil {
			t.Fatalf("QueryIndex failed: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].Name != "GSI1" {
			t.Fatalf("Unexpected page: %+v", page)
		}
	})

	t.Run("HelperMethods", func(t *testing.T) {
		store := newStore()
		for _, slot := range []string{"b", "a"} {
			e := TestEntity{Owner: "u1", Slot: slot}
			_ = store.Save(ctx, &e)
		}

		if store.Count() != 2 {
			t.Fatalf("Expected count 2, got %d", store.Count())
		}
		if got := store.Entities(); len(got) != 2 || got[0].Slot != "a" {
			t.Fatalf("Expected entities ordered by key, got %+v", got)
		}

		store.Clear()
		if store.Count() != 0 {
			t.Fatalf("Expected count 0 after clear, got %d", store.Count())
		}
	})
}

func TestMockDataStoreWithService(t *testing.T) {
	type ProfileService struct {
		store datastore.DataStore[TestEntity, TestKey]
	}

	ctx := context.Background()
	service := ProfileService{store: newStore()}

	user := TestEntity{Owner: "123", Slot: "profile", Name: "John"}
	if err := service.store.Save(ctx, &user); err != nil {
		t.Fatalf("Service save failed: %v", err)
	}

	retrieved, err := service.store.Load(ctx, TestKey{Owner: "123", Slot: "profile"})
	if err != nil {
		t.Fatalf("Service load failed: %v", err)
	}
	if retrieved.Name != "John" {
		t.Fatalf("Expected name John, got %s", retrieved.Name)
	}
}
