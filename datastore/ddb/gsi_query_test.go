/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynamoentity/datastore/ddb"
	"github.com/suparena/dynamoentity/datastore/testmodels"
	derrors "github.com/suparena/dynamoentity/errors"
)

func seedOrders(t *testing.T, dao *ddb.Dao[testmodels.Order, testmodels.OrderKey]) {
	t.Helper()
	orders := []testmodels.Order{
		testmodels.NewOrder("alice", "001", "OPEN", "2025-01-03", 10),
		testmodels.NewOrder("alice", "002", "SHIPPED", "2025-01-05", 20),
		testmodels.NewOrder("bob", "003", "OPEN", "2025-01-01", 30),
		testmodels.NewOrder("bob", "004", "OPEN", "2025-02-10", 40),
		testmodels.NewOrder("carol", "005", "", "", 50),
	}
	for i := range orders {
		if err := dao.Save(context.Background(), &orders[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
}

func TestIndexQueryBuild(t *testing.T) {
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, newClient(), "orders")
	gsi1, ok := ddb.GetIndexConfig("GSI1")
	if !ok {
		t.Fatal("GSI1 config not found")
	}

	t.Run("HashOnly", func(t *testing.T) {
		input, err := dao.Index(gsi1).Build("OPEN", nil)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if aws.ToString(input.IndexName) != "GSI1" || aws.ToString(input.TableName) != "orders" {
			t.Errorf("Unexpected target %s/%s", aws.ToString(input.TableName), aws.ToString(input.IndexName))
		}
		if input.Limit != nil || input.ScanIndexForward != nil || input.ExclusiveStartKey != nil {
			t.Errorf("Expected no paging options, got %+v", input)
		}
		if !hasName(input.ExpressionAttributeNames, "PK1") {
			t.Errorf("Expected PK1 in attribute names, got %v", input.ExpressionAttributeNames)
		}
	})

	t.Run("SortConditionAndOptions", func(t *testing.T) {
		token := map[string]types.AttributeValue{"PK1": &types.AttributeValueMemberS{Value: "OPEN"}}
		input, err := dao.Index(gsi1).
			WithSortKeyBetween("2025-01-01", "2025-01-31").
			WithLimit(5).
			Descending().
			Build("OPEN", token)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if !hasName(input.ExpressionAttributeNames, "SK1") {
			t.Errorf("Expected SK1 in attribute names, got %v", input.ExpressionAttributeNames)
		}
		if aws.ToInt32(input.Limit) != 5 {
			t.Errorf("Expected limit 5, got %v", input.Limit)
		}
		if input.ScanIndexForward == nil || *input.ScanIndexForward {
			t.Errorf("Expected descending traversal")
		}
		if len(input.ExclusiveStartKey) != 1 {
			t.Errorf("Expected the page token as start key")
		}
	})

	t.Run("MissingSortKeyName", func(t *testing.T) {
		_, err := dao.Index(ddb.IndexConfig{IndexName: "GSI2", HashKeyName: "PK2"}).
			WithSortKeyPrefix("2025").
			Build("x", nil)
		if !derrors.IsMissingConfiguration(err) {
			t.Fatalf("Expected missing configuration for a sort condition without sort key name, got %v", err)
		}
	})

	t.Run("MissingIndexName", func(t *testing.T) {
		if _, err := dao.Index(ddb.IndexConfig{}).Build("x", nil); !derrors.IsMissingConfiguration(err) {
			t.Fatalf("Expected missing configuration for an empty index config, got %v", err)
		}
	})

	t.Run("QueryIndexMissingHashKeyName", func(t *testing.T) {
		_, err := dao.QueryIndex(context.Background(), "GSI1", "", "OPEN", nil)
		var se *derrors.StorageError
		if !errors.As(err, &se) || se.Op != "Query" || se.Table != "orders" {
			t.Fatalf("Expected a Query StorageError on orders, got %v", err)
		}
		if !derrors.IsMissingConfiguration(err) {
			t.Errorf("Expected missing configuration kind, got %v", se.Kind)
		}
	})
}

func TestIndexQuery(t *testing.T) {
	ctx := context.Background()
	client := newClient()
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, client, "orders")
	seedOrders(t, dao)
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]

	tests := []struct {
		name  string
		query *ddb.IndexQuery[testmodels.Order, testmodels.OrderKey]
		want  []string
	}{
		{"HashOnly", dao.Index(gsi1), []string{"ORD#003", "ORD#001", "ORD#004"}},
		{"Equal", dao.Index(gsi1).WithSortKey("2025-01-03"), []string{"ORD#001"}},
		{"Prefix", dao.Index(gsi1).WithSortKeyPrefix("2025-01"), []string{"ORD#003", "ORD#001"}},
		{"GreaterThan", dao.Index(gsi1).WithSortKeyGreaterThan("2025-01-03"), []string{"ORD#004"}},
		{"LessThan", dao.Index(gsi1).WithSortKeyLessThan("2025-01-03"), []string{"ORD#003"}},
		{"Between", dao.Index(gsi1).WithSortKeyBetween("2025-01-02", "2025-12-31"), []string{"ORD#001", "ORD#004"}},
		{"Descending", dao.Index(gsi1).Descending(), []string{"ORD#004", "ORD#001", "ORD#003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := tt.query.Page(ctx, "OPEN", nil)
			if err != nil {
				t.Fatalf("Page failed: %v", err)
			}
			if got := orderIDs(page.Items); !equalStrings(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIndexQueryPagination(t *testing.T) {
	ctx := context.Background()
	client := newClient()
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, client, "orders")
	seedOrders(t, dao)
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]

	first, err := dao.Index(gsi1).WithLimit(2).Page(ctx, "OPEN", nil)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(first.Items) != 2 || !first.HasMore() {
		t.Fatalf("Expected a full first page with continuation, got %d items", len(first.Items))
	}
	for _, attr := range []string{"customerId", "sk", "PK1", "SK1"} {
		if _, ok := (*first.Continuation)[attr]; !ok {
			t.Errorf("Expected continuation to carry %s", attr)
		}
	}

	second, err := dao.QueryIndex(ctx, "GSI1", "PK1", "OPEN", *first.Continuation)
	if err != nil {
		t.Fatalf("QueryIndex failed: %v", err)
	}
	if got := orderIDs(second.Items); !equalStrings(got, []string{"ORD#004"}) {
		t.Errorf("Expected the remaining order, got %v", got)
	}

	client.WithMaxPageSize(1)
	all, err := dao.Index(gsi1).All(ctx, "OPEN")
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 orders across pages, got %d", len(all))
	}
	if n := countCalls(client.Calls(), "Query"); n < 3 {
		t.Errorf("Expected at least 3 Query calls, got %d", n)
	}
}

func hasName(names map[string]string, attr string) bool {
	for _, v := range names {
		if v == attr {
			return true
		}
	}
	return false
}

func orderIDs(orders []testmodels.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countCalls(calls []string, op string) int {
	n := 0
	for _, c := range calls {
		if c == op {
			n++
		}
	}
	return n
}
