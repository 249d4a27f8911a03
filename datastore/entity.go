/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Entity is implemented by record types mapped to a DynamoDB item.
// HashKeyName must not depend on the receiver; it is called on the zero value.
type Entity[K any] interface {
	HashKeyName() string
	BuildKey() K
}

// The handler interfaces below are optional. Each is checked by type
// assertion and a missing implementation leaves the request unchanged.

// SaveHandler may rewrite PutItem requests. It is called on the entity being
// saved, after the item is marshaled.
type SaveHandler interface {
	HandleSave(input *dynamodb.PutItemInput) *dynamodb.PutItemInput
}

// LoadHandler may rewrite GetItem requests.
type LoadHandler[K any] interface {
	HandleLoad(key K, input *dynamodb.GetItemInput) *dynamodb.GetItemInput
}

// DeleteHandler may rewrite DeleteItem requests.
type DeleteHandler[K any] interface {
	HandleDelete(key K, input *dynamodb.DeleteItemInput) *dynamodb.DeleteItemInput
}

// QueryHandler may rewrite table queries, e.g. to narrow the sort key range.
type QueryHandler interface {
	HandleQuery(hashKey any, input *dynamodb.QueryInput) *dynamodb.QueryInput
}

// IndexQueryHandler may rewrite secondary index queries.
type IndexQueryHandler interface {
	HandleQueryIndex(indexName string, hashKey any, input *dynamodb.QueryInput) *dynamodb.QueryInput
}
