//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamoentity_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/suparena/dynamoentity"
	"github.com/suparena/dynamoentity/datastore/ddb"
	"github.com/suparena/dynamoentity/datastore/testmodels"
	"github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/registry"
	"github.com/suparena/dynamoentity/storagemodels"
)

// setupIntegration connects to DynamoDB Local and creates a fresh table for
// each entity schema passed in. Tables are dropped when the test ends.
func setupIntegration(t *testing.T) (*dynamoentity.Session, ddb.TableClient) {
	t.Helper()
	endpoint := os.Getenv(ddb.EnvEndpoint)
	if endpoint == "" {
		t.Skipf("%s not set, skipping integration test", ddb.EnvEndpoint)
	}

	cfg := ddb.Config{
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "local",
		SecretKey: "local",
	}
	s, err := dynamoentity.NewSessionFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewSessionFromConfig failed: %v", err)
	}
	client, ok := s.Client().(ddb.TableClient)
	if !ok {
		t.Fatal("Session client does not support table management")
	}
	return s, client
}

func createTable(t *testing.T, client ddb.TableClient, prefix string, s any, indexes ...ddb.IndexConfig) string {
	t.Helper()
	ctx := context.Background()
	name := fmt.Sprintf("%s-%s", prefix, uuid.NewString())

	var err error
	switch v := s.(type) {
	case *testmodels.Profile:
		err = ddb.CreateTable(ctx, client, name, registry.MustRegister[testmodels.Profile](), indexes...)
	case *testmodels.Order:
		err = ddb.CreateTable(ctx, client, name, registry.MustRegister[testmodels.Order](), indexes...)
	default:
		t.Fatalf("No table layout for %T", v)
	}
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	t.Cleanup(func() {
		if err := ddb.DeleteTable(context.Background(), client, name); err != nil {
			t.Logf("DeleteTable failed: %v", err)
		}
	})
	return name
}

func TestIntegrationProfileLifecycle(t *testing.T) {
	s, client := setupIntegration(t)
	ctx := context.Background()
	table := createTable(t, client, "profiles", &testmodels.Profile{})

	profiles, err := dynamoentity.OpenDao[testmodels.Profile, testmodels.ProfileKey](s, table)
	if err != nil {
		t.Fatalf("OpenDao failed: %v", err)
	}

	profile := testmodels.NewProfile(uuid.NewString(), "Integration", "it@example.com")
	profile.SK = "WRONG"
	if err := profiles.Save(ctx, &profile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := profiles.Load(ctx, profile.BuildKey())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || loaded.SK != "PROFILE" || loaded.DisplayName != "Integration" {
		t.Fatalf("Unexpected profile: %+v", loaded)
	}

	for i := 0; i < 2; i++ {
		if err := profiles.Delete(ctx, profile.BuildKey()); err != nil {
			t.Fatalf("Delete %d failed: %v", i+1, err)
		}
	}
	if loaded, err := profiles.Load(ctx, profile.BuildKey()); err != nil || loaded != nil {
		t.Fatalf("Expected nil, nil after delete, got %+v, %v", loaded, err)
	}
}

func TestIntegrationOrders(t *testing.T) {
	s, client := setupIntegration(t)
	ctx := context.Background()
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]
	table := createTable(t, client, "orders", &testmodels.Order{}, gsi1)

	orders, err := dynamoentity.OpenDao[testmodels.Order, testmodels.OrderKey](s, table)
	if err != nil {
		t.Fatalf("OpenDao failed: %v", err)
	}

	customer := uuid.NewString()
	for i := 0; i < 25; i++ {
		order := testmodels.NewOrder(customer, fmt.Sprintf("%03d", i), "OPEN", fmt.Sprintf("2025-01-%02d", i+1), float64(i))
		if err := orders.Save(ctx, &order); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	other := testmodels.Order{CustomerID: customer, OrderID: "OTHER#1"}
	if err := orders.Save(ctx, &other); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("QueryFiltersPrefix", func(t *testing.T) {
		var total int
		var token *testmodels.OrderKey
		for {
			page, err := orders.Query(ctx, customer, token)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			total += len(page.Items)
			if !page.HasMore() {
				break
			}
			token = page.Continuation
		}
		if total != 25 {
			t.Errorf("Expected 25 orders, got %d", total)
		}
	})

	t.Run("Stream", func(t *testing.T) {
		var count int
		for r := range orders.Stream(ctx, customer, storagemodels.WithPageSize(10)) {
			if r.Error != nil {
				t.Fatalf("Stream error: %v", r.Error)
			}
			count++
		}
		if count != 25 {
			t.Errorf("Expected 25 streamed orders, got %d", count)
		}
	})

	t.Run("Index", func(t *testing.T) {
		items, err := orders.Index(gsi1).WithSortKeyBetween("2025-01-05", "2025-01-09").All(ctx, "OPEN")
		if err != nil {
			t.Fatalf("Index query failed: %v", err)
		}
		if len(items) != 5 {
			t.Errorf("Expected 5 orders, got %d", len(items))
		}
	})

	t.Run("MissingTable", func(t *testing.T) {
		missing, err := dynamoentity.OpenDao[testmodels.Order, testmodels.OrderKey](s, "missing-"+uuid.NewString())
		if err != nil {
			t.Fatalf("OpenDao failed: %v", err)
		}
		_, err = missing.Query(ctx, customer, nil)
		if !errors.IsBackendFailure(err) {
			t.Fatalf("Expected backend failure, got %v", err)
		}
	})
}
