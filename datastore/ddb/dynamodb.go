/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/dynamoentity/datastore"
	derrors "github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/schema"
)

// Dao implements datastore.DataStore[T, K] on top of one DynamoDB table.
// It holds no mutable state and is safe for concurrent use.
type Dao[T any, K any] struct {
	client    Client
	tableName string
	region    string
	logger    *slog.Logger
	contract  *contract[T, K]
}

var _ datastore.DataStore[struct{ ID string }, struct{ ID string }] = (*Dao[struct{ ID string }, struct{ ID string }])(nil)

// Option configures a Dao.
type Option func(*daoOptions)

type daoOptions struct {
	logger *slog.Logger
	naming *schema.NamingPolicy
}

// WithLogger sets the logger used for request tracing. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *daoOptions) {
		o.logger = logger
	}
}

// WithNamingPolicy resolves the schema of T under policy instead of schema.DefaultNaming.
func WithNamingPolicy(policy schema.NamingPolicy) Option {
	return func(o *daoOptions) {
		o.naming = &policy
	}
}

// NewDao constructs a Dao for entity type T stored in tableName.
//
// When *T implements datastore.Entity[K] its methods define the key. Otherwise
// the key schema is resolved from the struct tags of T, and a definition
// error is returned if T can't be mapped.
func NewDao[T any, K any](client Client, tableName string, opts ...Option) (*Dao[T, K], error) {
	if client == nil {
		return nil, errors.New("ddb: client is required")
	}
	if tableName == "" {
		return nil, errors.New("ddb: table name is required")
	}

	o := daoOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := newContract[T, K](o)
	if err != nil {
		return nil, err
	}

	return &Dao[T, K]{
		client:    client,
		tableName: tableName,
		region:    regionOf(client),
		logger:    o.logger,
		contract:  c,
	}, nil
}

// TableName returns the table the Dao operates on.
func (d *Dao[T, K]) TableName() string {
	return d.tableName
}

// HashKeyName returns the attribute name of the hash key.
func (d *Dao[T, K]) HashKeyName() string {
	return d.contract.hashKeyName
}

// Schema returns the resolved key schema, or nil for hand-written entities without key tags.
func (d *Dao[T, K]) Schema() *schema.EntitySchema {
	return d.contract.schema
}

// Save stores entity. The save hook may modify both the entity and the request.
func (d *Dao[T, K]) Save(ctx context.Context, entity *T) error {
	item, err := d.contract.toItem(entity)
	if err != nil {
		return derrors.NewSerializationError("PutItem", d.tableName, err)
	}

	input := d.contract.handleSave(entity, &sdk.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})

	d.trace(ctx, "PutItem")
	if _, err := d.client.PutItem(ctx, input); err != nil {
		return derrors.NewBackendError("PutItem", d.tableName, err)
	}
	return nil
}

// Load retrieves the entity stored under key. It returns nil, nil if no item matches.
func (d *Dao[T, K]) Load(ctx context.Context, key K) (*T, error) {
	keyItem, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, derrors.NewSerializationError("GetItem", d.tableName, err)
	}

	input := d.contract.handleLoad(key, &sdk.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyItem,
	})

	d.trace(ctx, "GetItem")
	out, err := d.client.GetItem(ctx, input)
	if err != nil {
		return nil, derrors.NewBackendError("GetItem", d.tableName, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	entity, err := d.contract.fromItem(out.Item)
	if err != nil {
		return nil, derrors.NewSerializationError("GetItem", d.tableName, err)
	}
	return &entity, nil
}

// Delete removes the item stored under key. Deleting an absent item succeeds.
func (d *Dao[T, K]) Delete(ctx context.Context, key K) error {
	keyItem, err := attributevalue.MarshalMap(key)
	if err != nil {
		return derrors.NewSerializationError("DeleteItem", d.tableName, err)
	}

	input := d.contract.handleDelete(key, &sdk.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyItem,
	})

	d.trace(ctx, "DeleteItem")
	if _, err := d.client.DeleteItem(ctx, input); err != nil {
		return derrors.NewBackendError("DeleteItem", d.tableName, err)
	}
	return nil
}

// DeleteItem removes the item identified by the key of entity.
func (d *Dao[T, K]) DeleteItem(ctx context.Context, entity *T) error {
	key, err := d.BuildKey(entity)
	if err != nil {
		return err
	}
	return d.Delete(ctx, key)
}

// BuildKey returns the key of entity.
func (d *Dao[T, K]) BuildKey(entity *T) (K, error) {
	key, err := d.contract.buildKey(entity)
	if err != nil {
		return key, derrors.NewSerializationError("BuildKey", d.tableName, err)
	}
	return key, nil
}

// Key builds a key from a hash and sort value, applying the declared prefix
// and const options. It requires a resolved key schema.
func (d *Dao[T, K]) Key(hash, sort any) (K, error) {
	return d.makeKey(hash, &sort)
}

// KeyFromHash builds a key from a hash value alone. The entity must have no
// sort key or a constant one.
func (d *Dao[T, K]) KeyFromHash(hash any) (K, error) {
	return d.makeKey(hash, nil)
}

func (d *Dao[T, K]) makeKey(hash any, sort *any) (K, error) {
	return d.contract.makeKey(hash, sort)
}

func (d *Dao[T, K]) trace(ctx context.Context, op string) {
	d.logger.DebugContext(ctx, "dynamodb request",
		slog.String("op", op),
		slog.String("table", d.tableName),
		slog.String("region", d.region),
	)
}
