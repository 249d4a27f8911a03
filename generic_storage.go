/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamoentity

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/dynamoentity/datastore"
)

// TypedStorage holds the DataStores of one entity and key type by name
type TypedStorage[T any, K any] struct {
	mu     sync.RWMutex
	stores map[string]datastore.DataStore[T, K]
}

// NewTypedStorage creates an empty TypedStorage
func NewTypedStorage[T any, K any]() *TypedStorage[T, K] {
	return &TypedStorage[T, K]{
		stores: make(map[string]datastore.DataStore[T, K]),
	}
}

// Register adds a datastore under name
func (ts *TypedStorage[T, K]) Register(name string, ds datastore.DataStore[T, K]) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[name]; exists {
		return fmt.Errorf("datastore %q already registered for %s", name, typeName[T]())
	}
	ts.stores[name] = ds
	return nil
}

// Get retrieves a datastore by name
func (ts *TypedStorage[T, K]) Get(name string) (datastore.DataStore[T, K], error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	ds, exists := ts.stores[name]
	if !exists {
		return nil, fmt.Errorf("datastore %q not found for %s", name, typeName[T]())
	}
	return ds, nil
}

// Remove deletes a datastore by name
func (ts *TypedStorage[T, K]) Remove(name string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[name]; !exists {
		return fmt.Errorf("datastore %q not found for %s", name, typeName[T]())
	}
	delete(ts.stores, name)
	return nil
}

// List returns the registered names in sorted order
func (ts *TypedStorage[T, K]) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	names := make([]string, 0, len(ts.stores))
	for name := range ts.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// storageKey identifies a TypedStorage by its entity and key types.
type storageKey struct {
	entity reflect.Type
	key    reflect.Type
}

// MultiTypeStorage manages one TypedStorage per entity and key type pair
type MultiTypeStorage struct {
	mu       sync.Mutex
	storages map[storageKey]any
}

// NewMultiTypeStorage creates an empty MultiTypeStorage
func NewMultiTypeStorage() *MultiTypeStorage {
	return &MultiTypeStorage{
		storages: make(map[storageKey]any),
	}
}

// GetTypedStorage returns the TypedStorage of T and K, creating it on first use
func GetTypedStorage[T any, K any](mts *MultiTypeStorage) *TypedStorage[T, K] {
	mts.mu.Lock()
	defer mts.mu.Unlock()

	key := storageKey{
		entity: reflect.TypeOf((*T)(nil)).Elem(),
		key:    reflect.TypeOf((*K)(nil)).Elem(),
	}
	if storage, exists := mts.storages[key]; exists {
		return storage.(*TypedStorage[T, K])
	}

	storage := NewTypedStorage[T, K]()
	mts.storages[key] = storage
	return storage
}

// RegisterDataStore registers ds under name for its entity type
func RegisterDataStore[T any, K any](mts *MultiTypeStorage, name string, ds datastore.DataStore[T, K]) error {
	return GetTypedStorage[T, K](mts).Register(name, ds)
}

// GetDataStore returns the datastore of T registered under name
func GetDataStore[T any, K any](mts *MultiTypeStorage, name string) (datastore.DataStore[T, K], error) {
	return GetTypedStorage[T, K](mts).Get(name)
}

// RemoveDataStore removes the datastore of T registered under name
func RemoveDataStore[T any, K any](mts *MultiTypeStorage, name string) error {
	return GetTypedStorage[T, K](mts).Remove(name)
}

// ListDataStores lists the names registered for T
func ListDataStores[T any, K any](mts *MultiTypeStorage) []string {
	return GetTypedStorage[T, K](mts).List()
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
