/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynamoentity/datastore"
	derrors "github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/registry"
	"github.com/suparena/dynamoentity/schema"
)

// contract binds the key behaviour of T. Types implementing
// datastore.Entity[K] provide it through methods; other types get it from
// their registered schema.
type contract[T any, K any] struct {
	hashKeyName string
	schema      *schema.EntitySchema
	explicit    bool
	renames     map[string]string
	restores    map[string]string
}

func newContract[T any, K any](o daoOptions) (*contract[T, K], error) {
	var zero T
	entity, explicit := any(&zero).(datastore.Entity[K])

	var policy []registry.Option
	if o.naming != nil {
		policy = append(policy, registry.WithNamingPolicy(*o.naming))
	}
	s, err := registry.Resolve[T](policy...)
	if err != nil {
		if !explicit {
			return nil, err
		}
		// hand-written contracts don't need tags
		s = nil
	}

	c := &contract[T, K]{schema: s, explicit: explicit}
	if explicit {
		c.hashKeyName = entity.HashKeyName()
	} else {
		c.hashKeyName = s.HashKeyName()
		if err := checkKeyType[K](s); err != nil {
			return nil, err
		}
	}

	if s != nil {
		c.renames = s.Renames()
		c.restores = make(map[string]string, len(c.renames))
		for from, to := range c.renames {
			c.restores[to] = from
		}
	}

	return c, nil
}

// checkKeyType verifies that K carries every key attribute of s.
func checkKeyType[K any](s *schema.EntitySchema) error {
	kt := reflect.TypeOf((*K)(nil)).Elem()
	fields, err := schema.FieldsOf(kt)
	if err != nil {
		return err
	}

	attrs := make(map[string]bool, len(fields))
	for _, f := range fields {
		attrs[f.AttributeName] = true
	}
	for _, name := range s.KeyAttributes() {
		if !attrs[name] {
			return derrors.NewDefinitionError(kt.Name(), "", derrors.ErrUnsupportedShape,
				fmt.Sprintf("key type has no field stored as %q required by %s", name, s.TypeName))
		}
	}
	return nil
}

func (c *contract[T, K]) toItem(entity *T) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, err
	}
	renameAttributes(item, c.renames)
	return item, nil
}

func (c *contract[T, K]) fromItem(item map[string]types.AttributeValue) (T, error) {
	var entity T
	if len(c.restores) > 0 {
		copied := make(map[string]types.AttributeValue, len(item))
		for k, v := range item {
			copied[k] = v
		}
		renameAttributes(copied, c.restores)
		item = copied
	}
	err := attributevalue.UnmarshalMap(item, &entity)
	return entity, err
}

func (c *contract[T, K]) buildKey(entity *T) (K, error) {
	if c.explicit {
		return any(entity).(datastore.Entity[K]).BuildKey(), nil
	}

	var key K
	item, err := c.toItem(entity)
	if err != nil {
		return key, err
	}

	keyItem := make(map[string]types.AttributeValue, 2)
	for _, name := range c.schema.KeyAttributes() {
		if v, ok := item[name]; ok {
			keyItem[name] = v
		}
	}
	if value, ok := c.schema.SortConst(); ok {
		keyItem[c.schema.Sort.AttributeName] = &types.AttributeValueMemberS{Value: value}
	}

	err = attributevalue.UnmarshalMap(keyItem, &key)
	return key, err
}

// makeKey builds a key from raw values using the producer rule of the schema.
func (c *contract[T, K]) makeKey(hash any, sort *any) (K, error) {
	var key K
	if c.schema == nil {
		return key, derrors.ErrNoSchema
	}

	args := map[*schema.KeyField]any{&c.schema.Hash: hash}
	if c.schema.Sort != nil {
		switch {
		case sort != nil:
			args[c.schema.Sort] = *sort
		case c.schema.Sort.IsConst():
			args[c.schema.Sort] = nil
		default:
			return key, fmt.Errorf("ddb: %s has a sort key %q that is not constant, a sort value is required",
				c.schema.TypeName, c.schema.Sort.AttributeName)
		}
	}

	keyItem := make(map[string]types.AttributeValue, len(args))
	for field, arg := range args {
		value, err := attributevalue.Marshal(field.Produce(arg))
		if err != nil {
			return key, derrors.NewSerializationError("BuildKey", "", err)
		}
		keyItem[field.AttributeName] = value
	}

	if err := attributevalue.UnmarshalMap(keyItem, &key); err != nil {
		return key, derrors.NewSerializationError("BuildKey", "", err)
	}
	return key, nil
}

func (c *contract[T, K]) handleSave(entity *T, input *sdk.PutItemInput) *sdk.PutItemInput {
	if h, ok := any(entity).(datastore.SaveHandler); ok {
		return h.HandleSave(input)
	}
	if c.explicit {
		return input
	}

	if value, ok := c.schema.SortConst(); ok {
		reflect.ValueOf(entity).Elem().Field(c.schema.Sort.Field.Index).SetString(value)
		input.Item[c.schema.Sort.AttributeName] = &types.AttributeValueMemberS{Value: value}
	}
	return input
}

func (c *contract[T, K]) handleLoad(key K, input *sdk.GetItemInput) *sdk.GetItemInput {
	if h, ok := hookOf[T, datastore.LoadHandler[K]](); ok {
		return h.HandleLoad(key, input)
	}
	return input
}

func (c *contract[T, K]) handleDelete(key K, input *sdk.DeleteItemInput) *sdk.DeleteItemInput {
	if h, ok := hookOf[T, datastore.DeleteHandler[K]](); ok {
		return h.HandleDelete(key, input)
	}
	return input
}

func (c *contract[T, K]) handleQuery(hashKey any, input *sdk.QueryInput) *sdk.QueryInput {
	if h, ok := hookOf[T, datastore.QueryHandler](); ok {
		return h.HandleQuery(hashKey, input)
	}
	if c.explicit {
		return input
	}

	if prefix, ok := c.schema.SortPrefix(); ok {
		return appendBeginsWith(input, c.schema.Sort.AttributeName, prefix)
	}
	return input
}

func (c *contract[T, K]) handleQueryIndex(indexName string, hashKey any, input *sdk.QueryInput) *sdk.QueryInput {
	if h, ok := hookOf[T, datastore.IndexQueryHandler](); ok {
		return h.HandleQueryIndex(indexName, hashKey, input)
	}
	return input
}

// hookOf finds a handler implemented on T or *T.
func hookOf[T any, H any]() (H, bool) {
	var zero T
	if h, ok := any(zero).(H); ok {
		return h, true
	}
	h, ok := any(&zero).(H)
	return h, ok
}

// appendBeginsWith narrows a key condition to sort keys starting with prefix.
func appendBeginsWith(input *sdk.QueryInput, attribute, prefix string) *sdk.QueryInput {
	input.KeyConditionExpression = aws.String(aws.ToString(input.KeyConditionExpression) + " AND begins_with(#sk, :sk)")
	if input.ExpressionAttributeNames == nil {
		input.ExpressionAttributeNames = map[string]string{}
	}
	input.ExpressionAttributeNames["#sk"] = attribute
	if input.ExpressionAttributeValues == nil {
		input.ExpressionAttributeValues = map[string]types.AttributeValue{}
	}
	input.ExpressionAttributeValues[":sk"] = &types.AttributeValueMemberS{Value: prefix}
	return input
}

func renameAttributes(item map[string]types.AttributeValue, renames map[string]string) {
	for from, to := range renames {
		if v, ok := item[from]; ok {
			delete(item, from)
			item[to] = v
		}
	}
}
