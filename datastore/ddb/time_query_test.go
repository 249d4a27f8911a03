/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/suparena/dynamoentity/datastore/ddb"
	"github.com/suparena/dynamoentity/datastore/testmodels"
)

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

// seedHourly stores one OPEN order per hour starting at base.
func seedHourly(t *testing.T, dao *ddb.Dao[testmodels.Order, testmodels.OrderKey], hours int) {
	t.Helper()
	for i := 0; i < hours; i++ {
		placed := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		order := testmodels.NewOrder("timed", fmt.Sprintf("%03d", i), "OPEN", placed, 0)
		if err := dao.Save(context.Background(), &order); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
}

func TestTimeRangeQuery(t *testing.T) {
	ctx := context.Background()
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, newClient(), "orders")
	seedHourly(t, dao, 6)
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]

	tests := []struct {
		name  string
		query *ddb.TimeRangeQuery[testmodels.Order, testmodels.OrderKey]
		want  []string
	}{
		{"Between", dao.QueryByTimeRange(gsi1).Between(base.Add(time.Hour), base.Add(3*time.Hour)), []string{"ORD#001", "ORD#002", "ORD#003"}},
		{"After", dao.QueryByTimeRange(gsi1).After(base.Add(3 * time.Hour)), []string{"ORD#004", "ORD#005"}},
		{"Before", dao.QueryByTimeRange(gsi1).Before(base.Add(2 * time.Hour)), []string{"ORD#000", "ORD#001"}},
		{"LocalTimeZone", dao.QueryByTimeRange(gsi1).Before(base.Add(time.Hour).In(time.FixedZone("CET", 3600))), []string{"ORD#000"}},
		{"Latest", dao.QueryByTimeRange(gsi1).After(base.Add(3 * time.Hour)).Latest(), []string{"ORD#005", "ORD#004"}},
		{"DateLayout", dao.QueryByTimeRange(gsi1).WithLayout("2006-01-02").Before(base), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.query.All(ctx, "OPEN")
			if err != nil {
				t.Fatalf("All failed: %v", err)
			}
			if got := orderIDs(items); !equalStrings(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTimeRangeQueryRelative(t *testing.T) {
	ctx := context.Background()
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, newClient(), "orders")
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]

	now := time.Now().UTC()
	stamps := map[string]time.Time{
		"recent": now,
		"old":    now.AddDate(0, 0, -40),
	}
	for id, stamp := range stamps {
		order := testmodels.NewOrder("rel", id, "OPEN", stamp.Format(time.RFC3339), 0)
		if err := dao.Save(ctx, &order); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		query *ddb.TimeRangeQuery[testmodels.Order, testmodels.OrderKey]
		want  int
	}{
		{"InLast", dao.QueryByTimeRange(gsi1).InLast(time.Hour), 1},
		{"InLastDays", dao.QueryByTimeRange(gsi1).InLastDays(60), 2},
		{"Today", dao.QueryByTimeRange(gsi1).Today(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.query.All(ctx, "OPEN")
			if err != nil {
				t.Fatalf("All failed: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("Expected %d orders, got %v", tt.want, orderIDs(items))
			}
		})
	}
}

func TestQueryTimeWindows(t *testing.T) {
	ctx := context.Background()
	dao := mustDao[testmodels.Order, testmodels.OrderKey](t, newClient(), "orders")
	seedHourly(t, dao, 6)
	gsi1 := ddb.DefaultIndexConfigs["GSI1"]

	it := dao.QueryTimeWindows(gsi1, "OPEN", base, base.Add(5*time.Hour), 2*time.Hour)

	var windows [][]string
	for {
		items, more, err := it.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		windows = append(windows, orderIDs(items))
		if !more {
			break
		}
	}

	want := [][]string{
		{"ORD#000", "ORD#001"},
		{"ORD#002", "ORD#003"},
		{"ORD#004", "ORD#005"},
	}
	if len(windows) != len(want) {
		t.Fatalf("Expected %d windows, got %v", len(want), windows)
	}
	for i := range want {
		if !equalStrings(windows[i], want[i]) {
			t.Errorf("Window %d: expected %v, got %v", i, want[i], windows[i])
		}
	}

	items, more, err := it.Next(ctx)
	if items != nil || more || err != nil {
		t.Errorf("Expected an exhausted iterator, got %v, %v, %v", items, more, err)
	}
}
