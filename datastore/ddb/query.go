/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	derrors "github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/storagemodels"
)

// Query returns one page of the entities stored under hashKey. Pass the
// Continuation of the previous page as pageToken to fetch the next one.
func (d *Dao[T, K]) Query(ctx context.Context, hashKey any, pageToken *K) (*storagemodels.ResultPage[T, K], error) {
	return d.query(ctx, hashKey, pageToken, 0)
}

func (d *Dao[T, K]) query(ctx context.Context, hashKey any, pageToken *K, limit int32) (*storagemodels.ResultPage[T, K], error) {
	input, err := d.keyQuery(expression.Key(d.contract.hashKeyName).Equal(expression.Value(hashKey)))
	if err != nil {
		return nil, derrors.NewSerializationError("Query", d.tableName, err)
	}
	if pageToken != nil {
		start, err := attributevalue.MarshalMap(*pageToken)
		if err != nil {
			return nil, derrors.NewSerializationError("Query", d.tableName, err)
		}
		input.ExclusiveStartKey = start
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	out, err := d.execute(ctx, d.contract.handleQuery(hashKey, input))
	if err != nil {
		return nil, err
	}

	items, err := d.decodeItems(out.Items)
	if err != nil {
		return nil, err
	}

	page := &storagemodels.ResultPage[T, K]{Items: items}
	if len(out.LastEvaluatedKey) > 0 {
		var next K
		if err := attributevalue.UnmarshalMap(out.LastEvaluatedKey, &next); err != nil {
			return nil, derrors.NewSerializationError("Query", d.tableName, err)
		}
		page.Continuation = &next
	}
	return page, nil
}

// QueryIndex returns one page of the entities stored under hashKey in a
// secondary index. The index hash key attribute is given explicitly since
// index schemas are not part of the entity declaration.
func (d *Dao[T, K]) QueryIndex(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error) {
	return d.Index(IndexConfig{IndexName: indexName, HashKeyName: hashKeyName}).Page(ctx, hashKey, pageToken)
}

func (d *Dao[T, K]) keyQuery(cond expression.KeyConditionBuilder) (*sdk.QueryInput, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(cond).Build()
	if err != nil {
		return nil, err
	}

	return &sdk.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

func (d *Dao[T, K]) execute(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	d.trace(ctx, "Query")
	out, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, derrors.NewBackendError("Query", d.tableName, err)
	}
	return out, nil
}

func (d *Dao[T, K]) decodeItems(items []map[string]types.AttributeValue) ([]T, error) {
	results := make([]T, 0, len(items))
	for _, item := range items {
		entity, err := d.contract.fromItem(item)
		if err != nil {
			return nil, derrors.NewSerializationError("Query", d.tableName, err)
		}
		results = append(results, entity)
	}
	return results, nil
}
