/*
Package datastore defines the entity contract and the data access interface of dynamoentity.

Entity types implement Entity[K], usually through code written by entitygen:

	type Entity[K any] interface {
	    HashKeyName() string
	    BuildKey() K
	}

Optional hooks (SaveHandler, LoadHandler, DeleteHandler, QueryHandler,
IndexQueryHandler) let an entity rewrite the outgoing DynamoDB request.

DataStore[T, K] is the generic data access interface:

	type DataStore[T any, K any] interface {
	    Save(ctx context.Context, entity *T) error
	    Load(ctx context.Context, key K) (*T, error)
	    Delete(ctx context.Context, key K) error
	    DeleteItem(ctx context.Context, entity *T) error
	    Query(ctx context.Context, hashKey any, pageToken *K) (*storagemodels.ResultPage[T, K], error)
	    QueryIndex(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error)
	}

Implementations:
  - ddb: DynamoDB implementation
  - mock: In-memory mock implementation for testing
*/
package datastore
