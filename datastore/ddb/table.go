/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynamoentity/schema"
)

// CreateTableInput derives a pay-per-request table definition from the key
// schema of an entity. Each index in indexes becomes a global secondary index
// projecting all attributes.
func CreateTableInput(tableName string, s *schema.EntitySchema, indexes ...IndexConfig) *sdk.CreateTableInput {
	input := &sdk.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
	}

	defined := map[string]bool{}
	define := func(name string, kind types.ScalarAttributeType) {
		if defined[name] {
			return
		}
		defined[name] = true
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: kind,
		})
	}

	input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
		AttributeName: aws.String(s.Hash.AttributeName),
		KeyType:       types.KeyTypeHash,
	})
	define(s.Hash.AttributeName, scalarTypeOf(s.Hash))
	if s.Sort != nil {
		input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(s.Sort.AttributeName),
			KeyType:       types.KeyTypeRange,
		})
		define(s.Sort.AttributeName, scalarTypeOf(*s.Sort))
	}

	for _, idx := range indexes {
		gsi := types.GlobalSecondaryIndex{
			IndexName: aws.String(idx.IndexName),
			KeySchema: []types.KeySchemaElement{{
				AttributeName: aws.String(idx.HashKeyName),
				KeyType:       types.KeyTypeHash,
			}},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}
		define(idx.HashKeyName, types.ScalarAttributeTypeS)
		if idx.SortKeyName != "" {
			gsi.KeySchema = append(gsi.KeySchema, types.KeySchemaElement{
				AttributeName: aws.String(idx.SortKeyName),
				KeyType:       types.KeyTypeRange,
			})
			define(idx.SortKeyName, types.ScalarAttributeTypeS)
		}
		input.GlobalSecondaryIndexes = append(input.GlobalSecondaryIndexes, gsi)
	}

	return input
}

// CreateTable creates the table described by CreateTableInput and waits for
// it to become active.
func CreateTable(ctx context.Context, client TableClient, tableName string, s *schema.EntitySchema, indexes ...IndexConfig) error {
	if _, err := client.CreateTable(ctx, CreateTableInput(tableName, s, indexes...)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return WaitForTableActive(ctx, client, tableName, 30*time.Second)
}

// WaitForTableActive polls DescribeTable until the table is active.
func WaitForTableActive(ctx context.Context, client TableClient, tableName string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		output, err := client.DescribeTable(ctx, &sdk.DescribeTableInput{
			TableName: aws.String(tableName),
		})
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", tableName, err)
		}
		if output.Table != nil && output.Table.TableStatus == types.TableStatusActive {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	return fmt.Errorf("table %s did not become active within %v", tableName, timeout)
}

// DeleteTable drops a table.
func DeleteTable(ctx context.Context, client TableClient, tableName string) error {
	_, err := client.DeleteTable(ctx, &sdk.DeleteTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", tableName, err)
	}
	return nil
}

// scalarTypeOf maps the Go type of a key field to its DynamoDB scalar type.
func scalarTypeOf(k schema.KeyField) types.ScalarAttributeType {
	if k.Field.StringKind || k.Const != nil || k.Prefix != nil {
		return types.ScalarAttributeTypeS
	}
	t := strings.TrimPrefix(k.Field.Type, "*")
	switch {
	case t == "[]byte" || t == "[]uint8":
		return types.ScalarAttributeTypeB
	case strings.HasPrefix(t, "int"), strings.HasPrefix(t, "uint"), strings.HasPrefix(t, "float"):
		return types.ScalarAttributeTypeN
	default:
		return types.ScalarAttributeTypeS
	}
}
