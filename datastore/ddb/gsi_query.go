/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	derrors "github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/storagemodels"
)

// IndexQuery provides a fluent interface for building secondary index queries
type IndexQuery[T any, K any] struct {
	dao        *Dao[T, K]
	config     IndexConfig
	sortCond   func(expression.KeyBuilder) expression.KeyConditionBuilder
	limit      *int32
	descending bool
}

// Index creates a query builder for the secondary index described by config
func (d *Dao[T, K]) Index(config IndexConfig) *IndexQuery[T, K] {
	return &IndexQuery[T, K]{dao: d, config: config}
}

// WithSortKey restricts the index sort key to value
func (q *IndexQuery[T, K]) WithSortKey(value any) *IndexQuery[T, K] {
	q.sortCond = func(k expression.KeyBuilder) expression.KeyConditionBuilder {
		return k.Equal(expression.Value(value))
	}
	return q
}

// WithSortKeyPrefix restricts the index sort key with begins_with
func (q *IndexQuery[T, K]) WithSortKeyPrefix(prefix string) *IndexQuery[T, K] {
	q.sortCond = func(k expression.KeyBuilder) expression.KeyConditionBuilder {
		return k.BeginsWith(prefix)
	}
	return q
}

// WithSortKeyGreaterThan restricts the index sort key with >
func (q *IndexQuery[T, K]) WithSortKeyGreaterThan(value any) *IndexQuery[T, K] {
	q.sortCond = func(k expression.KeyBuilder) expression.KeyConditionBuilder {
		return k.GreaterThan(expression.Value(value))
	}
	return q
}

// WithSortKeyLessThan restricts the index sort key with <
func (q *IndexQuery[T, K]) WithSortKeyLessThan(value any) *IndexQuery[T, K] {
	q.sortCond = func(k expression.KeyBuilder) expression.KeyConditionBuilder {
		return k.LessThan(expression.Value(value))
	}
	return q
}

// WithSortKeyBetween restricts the index sort key with BETWEEN
func (q *IndexQuery[T, K]) WithSortKeyBetween(start, end any) *IndexQuery[T, K] {
	q.sortCond = func(k expression.KeyBuilder) expression.KeyConditionBuilder {
		return k.Between(expression.Value(start), expression.Value(end))
	}
	return q
}

// WithLimit sets the maximum number of items DynamoDB evaluates per page
func (q *IndexQuery[T, K]) WithLimit(limit int32) *IndexQuery[T, K] {
	q.limit = aws.Int32(limit)
	return q
}

// Descending reverses the index traversal order
func (q *IndexQuery[T, K]) Descending() *IndexQuery[T, K] {
	q.descending = true
	return q
}

// Build constructs the query input for hashKey, starting after pageToken when set
func (q *IndexQuery[T, K]) Build(hashKey any, pageToken storagemodels.IndexKey) (*sdk.QueryInput, error) {
	if q.config.IndexName == "" || q.config.HashKeyName == "" {
		return nil, derrors.NewConfigurationError("Query", q.dao.tableName, errors.New("index name and hash key name are required"))
	}

	cond := expression.Key(q.config.HashKeyName).Equal(expression.Value(hashKey))
	if q.sortCond != nil {
		if q.config.SortKeyName == "" {
			return nil, derrors.NewConfigurationError("Query", q.dao.tableName, fmt.Errorf("index %s has no sort key configured", q.config.IndexName))
		}
		cond = expression.KeyAnd(cond, q.sortCond(expression.Key(q.config.SortKeyName)))
	}

	input, err := q.dao.keyQuery(cond)
	if err != nil {
		return nil, derrors.NewSerializationError("Query", q.dao.tableName, err)
	}

	input.IndexName = aws.String(q.config.IndexName)
	input.Limit = q.limit
	if q.descending {
		input.ScanIndexForward = aws.Bool(false)
	}
	if len(pageToken) > 0 {
		input.ExclusiveStartKey = pageToken
	}
	return input, nil
}

// Page runs the query and returns one page of results with its continuation key
func (q *IndexQuery[T, K]) Page(ctx context.Context, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error) {
	d := q.dao
	input, err := q.Build(hashKey, pageToken)
	if err != nil {
		return nil, err
	}

	out, err := d.execute(ctx, d.contract.handleQueryIndex(q.config.IndexName, hashKey, input))
	if err != nil {
		return nil, err
	}

	items, err := d.decodeItems(out.Items)
	if err != nil {
		return nil, err
	}

	page := &storagemodels.ResultPage[T, storagemodels.IndexKey]{Items: items}
	if len(out.LastEvaluatedKey) > 0 {
		next := storagemodels.IndexKey(out.LastEvaluatedKey)
		page.Continuation = &next
	}
	return page, nil
}

// All follows continuation keys until the index is exhausted
func (q *IndexQuery[T, K]) All(ctx context.Context, hashKey any) ([]T, error) {
	var results []T
	var token storagemodels.IndexKey
	for {
		page, err := q.Page(ctx, hashKey, token)
		if err != nil {
			return nil, err
		}
		results = append(results, page.Items...)
		if !page.HasMore() {
			return results, nil
		}
		token = *page.Continuation
	}
}
