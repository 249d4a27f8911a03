/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"
)

// TimeRangeQuery narrows an index query whose sort key holds formatted
// timestamps. Timestamps are formatted with RFC 3339 unless WithLayout
// selects another layout; the layout must sort lexically in time order.
type TimeRangeQuery[T any, K any] struct {
	*IndexQuery[T, K]
	layout string
	now    func() time.Time
}

// QueryByTimeRange creates a time range query on the index described by config
func (d *Dao[T, K]) QueryByTimeRange(config IndexConfig) *TimeRangeQuery[T, K] {
	return &TimeRangeQuery[T, K]{
		IndexQuery: d.Index(config),
		layout:     time.RFC3339,
		now:        time.Now,
	}
}

// WithLayout sets the layout the sort key timestamps are stored in
func (q *TimeRangeQuery[T, K]) WithLayout(layout string) *TimeRangeQuery[T, K] {
	q.layout = layout
	return q
}

// Between selects timestamps from start to end, both included
func (q *TimeRangeQuery[T, K]) Between(start, end time.Time) *TimeRangeQuery[T, K] {
	q.WithSortKeyBetween(q.format(start), q.format(end))
	return q
}

// After selects timestamps later than t
func (q *TimeRangeQuery[T, K]) After(t time.Time) *TimeRangeQuery[T, K] {
	q.WithSortKeyGreaterThan(q.format(t))
	return q
}

// Before selects timestamps earlier than t
func (q *TimeRangeQuery[T, K]) Before(t time.Time) *TimeRangeQuery[T, K] {
	q.WithSortKeyLessThan(q.format(t))
	return q
}

// InLast selects timestamps within the last d
func (q *TimeRangeQuery[T, K]) InLast(d time.Duration) *TimeRangeQuery[T, K] {
	return q.After(q.now().Add(-d))
}

// InLastDays selects timestamps within the last n calendar days
func (q *TimeRangeQuery[T, K]) InLastDays(n int) *TimeRangeQuery[T, K] {
	return q.After(q.now().AddDate(0, 0, -n))
}

// Today selects timestamps of the current day in the local time zone
func (q *TimeRangeQuery[T, K]) Today() *TimeRangeQuery[T, K] {
	now := q.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return q.Between(start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// ThisMonth selects timestamps from the start of the current month
func (q *TimeRangeQuery[T, K]) ThisMonth() *TimeRangeQuery[T, K] {
	now := q.now()
	return q.After(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond))
}

// Latest returns the newest timestamps first
func (q *TimeRangeQuery[T, K]) Latest() *TimeRangeQuery[T, K] {
	q.Descending()
	return q
}

// WithLimit sets the maximum number of items DynamoDB evaluates per page
func (q *TimeRangeQuery[T, K]) WithLimit(limit int32) *TimeRangeQuery[T, K] {
	q.IndexQuery.WithLimit(limit)
	return q
}

func (q *TimeRangeQuery[T, K]) format(t time.Time) string {
	return t.UTC().Format(q.layout)
}

// TimeWindowIterator walks a time range in consecutive windows. Windows
// include their start and exclude their end, except the last one which
// includes the end of the range.
type TimeWindowIterator[T any, K any] struct {
	dao     *Dao[T, K]
	config  IndexConfig
	hashKey any
	layout  string
	window  time.Duration
	end     time.Time
	current time.Time
}

// QueryTimeWindows creates an iterator over [start, end] in steps of window
func (d *Dao[T, K]) QueryTimeWindows(config IndexConfig, hashKey any, start, end time.Time, window time.Duration) *TimeWindowIterator[T, K] {
	return &TimeWindowIterator[T, K]{
		dao:     d,
		config:  config,
		hashKey: hashKey,
		layout:  time.RFC3339,
		window:  window,
		end:     end,
		current: start,
	}
}

// WithLayout sets the layout the sort key timestamps are stored in
func (it *TimeWindowIterator[T, K]) WithLayout(layout string) *TimeWindowIterator[T, K] {
	it.layout = layout
	return it
}

// Next returns the items of the next window and whether more windows follow.
// It returns nil, false, nil once the range is exhausted.
func (it *TimeWindowIterator[T, K]) Next(ctx context.Context) ([]T, bool, error) {
	if it.window <= 0 || !it.current.Before(it.end) {
		return nil, false, nil
	}

	windowEnd := it.current.Add(it.window)
	last := !windowEnd.Before(it.end)
	upper := windowEnd.Add(-time.Nanosecond)
	if last {
		windowEnd, upper = it.end, it.end
	}

	items, err := it.dao.QueryByTimeRange(it.config).
		WithLayout(it.layout).
		Between(it.current, upper).
		All(ctx, it.hashKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query time window starting %s: %w", it.current.Format(it.layout), err)
	}

	it.current = windowEnd
	return items, !last, nil
}
