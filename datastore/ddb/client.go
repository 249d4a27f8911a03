/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the subset of the DynamoDB API used by Dao. *dynamodb.Client
// satisfies it, and a single client may back any number of Dao values.
type Client interface {
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// TableClient adds the table management calls used by CreateTable.
type TableClient interface {
	Client
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *sdk.DeleteTableInput, optFns ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

var (
	_ Client      = (*sdk.Client)(nil)
	_ TableClient = (*sdk.Client)(nil)
)

// regionOf returns the region a client is configured for, when it exposes one.
func regionOf(client Client) string {
	if c, ok := client.(interface{ Options() sdk.Options }); ok {
		return c.Options().Region
	}
	return ""
}
