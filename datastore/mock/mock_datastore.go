/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides in-memory test doubles for the DynamoDB client and the DataStore interface
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/dynamoentity/datastore"
	"github.com/suparena/dynamoentity/storagemodels"
)

// DataStore is a mock implementation of datastore.DataStore[T, K] for testing
type DataStore[T any, K any] struct {
	mu             sync.RWMutex
	data           map[string]entry[T, K]
	keyFunc        func(*T) K
	hashFunc       func(*T) any
	queryIndexFunc func(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error)
	pageSize       int
	saveError      error
	loadError      error
	deleteError    error
	queryError     error
}

type entry[T any, K any] struct {
	key    K
	entity T
}

var _ datastore.DataStore[struct{}, string] = (*DataStore[struct{}, string])(nil)

// New creates a new mock DataStore. keyFunc derives the key of an entity.
func New[T any, K any](keyFunc func(*T) K) *DataStore[T, K] {
	return &DataStore[T, K]{
		data:    make(map[string]entry[T, K]),
		keyFunc: keyFunc,
	}
}

// WithHashFunc sets the function extracting the hash key value used by Query
func (m *DataStore[T, K]) WithHashFunc(f func(*T) any) *DataStore[T, K] {
	m.hashFunc = f
	return m
}

// WithQueryIndexFunc sets a custom index query function for testing
func (m *DataStore[T, K]) WithQueryIndexFunc(f func(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error)) *DataStore[T, K] {
	m.queryIndexFunc = f
	return m
}

// WithPageSize limits the number of items per Query page
func (m *DataStore[T, K]) WithPageSize(n int) *DataStore[T, K] {
	m.pageSize = n
	return m
}

// WithSaveError makes Save operations return an error
func (m *DataStore[T, K]) WithSaveError(err error) *DataStore[T, K] {
	m.saveError = err
	return m
}

// WithLoadError makes Load operations return an error
func (m *DataStore[T, K]) WithLoadError(err error) *DataStore[T, K] {
	m.loadError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T, K]) WithDeleteError(err error) *DataStore[T, K] {
	m.deleteError = err
	return m
}

// WithQueryError makes Query and QueryIndex operations return an error
func (m *DataStore[T, K]) WithQueryError(err error) *DataStore[T, K] {
	m.queryError = err
	return m
}

// Save stores an entity, replacing the entity with the same key
func (m *DataStore[T, K]) Save(ctx context.Context, entity *T) error {
	if m.saveError != nil {
		return m.saveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.keyFunc(entity)
	m.data[encodeKey(key)] = entry[T, K]{key: key, entity: *entity}
	return nil
}

// Load retrieves an entity by key. It returns nil, nil when the key is absent.
func (m *DataStore[T, K]) Load(ctx context.Context, key K) (*T, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.data[encodeKey(key)]
	if !exists {
		return nil, nil
	}
	entity := e.entity
	return &entity, nil
}

// Delete removes an entity by key
func (m *DataStore[T, K]) Delete(ctx context.Context, key K) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, encodeKey(key))
	return nil
}

// DeleteItem removes the entity stored under the key of entity
func (m *DataStore[T, K]) DeleteItem(ctx context.Context, entity *T) error {
	return m.Delete(ctx, m.keyFunc(entity))
}

// Query returns the entities whose hash value equals hashKey, ordered by key
func (m *DataStore[T, K]) Query(ctx context.Context, hashKey any, pageToken *K) (*storagemodels.ResultPage[T, K], error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	if m.hashFunc == nil {
		return nil, fmt.Errorf("mock: Query requires WithHashFunc")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	want := fmt.Sprint(hashKey)
	var keys []string
	for k, e := range m.data {
		entity := e.entity
		if fmt.Sprint(m.hashFunc(&entity)) == want {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if pageToken != nil {
		start := encodeKey(*pageToken)
		i := sort.SearchStrings(keys, start)
		if i < len(keys) && keys[i] == start {
			i++
		}
		keys = keys[i:]
	}

	page := &storagemodels.ResultPage[T, K]{Items: make([]T, 0, len(keys))}
	if m.pageSize > 0 && len(keys) > m.pageSize {
		keys = keys[:m.pageSize]
		last := m.data[keys[len(keys)-1]].key
		page.Continuation = &last
	}
	for _, k := range keys {
		page.Items = append(page.Items, m.data[k].entity)
	}
	return page, nil
}

// QueryIndex delegates to the function set with WithQueryIndexFunc, or returns an empty page
func (m *DataStore[T, K]) QueryIndex(ctx context.Context, indexName, hashKeyName string, hashKey any, pageToken storagemodels.IndexKey) (*storagemodels.ResultPage[T, storagemodels.IndexKey], error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	if m.queryIndexFunc != nil {
		return m.queryIndexFunc(ctx, indexName, hashKeyName, hashKey, pageToken)
	}
	return &storagemodels.ResultPage[T, storagemodels.IndexKey]{Items: []T{}}, nil
}

// Helper methods for testing

// Count returns the number of stored entities
func (m *DataStore[T, K]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Entities returns a copy of the stored entities ordered by key
func (m *DataStore[T, K]) Entities() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]T, 0, len(keys))
	for _, k := range keys {
		result = append(result, m.data[k].entity)
	}
	return result
}

// Clear removes all data
func (m *DataStore[T, K]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]entry[T, K])
}

func encodeKey(key any) string {
	return fmt.Sprintf("%+v", key)
}
