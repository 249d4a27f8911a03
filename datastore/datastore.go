/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/dynamoentity/storagemodels"
)

// DataStore executes typed operations for entity type T with key type K.
type DataStore[T any, K any] interface {
	Save(ctx context.Context, entity *T) error

	// Load returns nil without error when no item matches key.
	Load(ctx context.Context, key K) (*T, error)

	// Delete succeeds whether or not the item existed.
	Delete(ctx context.Context, key K) error

	DeleteItem(ctx context.Context, entity *T) error

	Query(ctx context.Context, hashKey any, pageToken *K) (*storagemodels.ResultPage[T, K], error)

	QueryIndex(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error)
}
