/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
	"testing"

	"github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/schema"
)

type registryOrder struct {
	ID     string `dynamodbav:"id"`
	SK     string `dynamodbav:"sk"`
	Amount int    `dynamodbav:"amount"`
}

type registryLegacy struct {
	PK string `dynamodbav:"pk"`
	RK string `dynamodbav:"rk"`
}

type registryBroken struct {
	Name string
}

func TestRegisterAndLookup(t *testing.T) {
	defer Unregister[registryOrder]()

	if _, ok := Lookup[registryOrder](); ok {
		t.Fatal("Expected empty registry")
	}

	s, err := Register[registryOrder]()
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if s.HashKeyName() != "id" || s.Sort.AttributeName != "sk" {
		t.Errorf("Unexpected schema: %+v", s)
	}

	cached, ok := Lookup[registryOrder]()
	if !ok || cached != s {
		t.Error("Lookup should return the registered schema")
	}

	byType, ok := LookupType(reflect.TypeOf(registryOrder{}))
	if !ok || byType != s {
		t.Error("LookupType should return the registered schema")
	}
}

func TestRegisterWithNamingPolicy(t *testing.T) {
	defer Unregister[registryLegacy]()

	if _, err := Register[registryLegacy](); !errors.IsMissingHashKey(err) {
		t.Fatalf("Expected missing hash key with default naming, got %v", err)
	}

	s, err := Register[registryLegacy](WithNamingPolicy(schema.NamingPolicy{HashKey: "pk", SortKey: "rk"}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if s.HashKeyName() != "pk" || s.Sort.AttributeName != "rk" {
		t.Errorf("Unexpected schema: %+v", s)
	}
}

func TestRegisterPerPolicy(t *testing.T) {
	defer Unregister[registryOrder]()
	byAmount := WithNamingPolicy(schema.NamingPolicy{HashKey: "amount"})

	def, err := Resolve[registryOrder]()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	custom, err := Resolve[registryOrder](byAmount)
	if err != nil {
		t.Fatalf("Resolve with policy failed: %v", err)
	}
	if def.HashKeyName() != "id" || custom.HashKeyName() != "amount" || custom.HasSort() {
		t.Fatalf("Expected id and amount schemas, got %+v and %+v", def, custom)
	}

	if s, ok := Lookup[registryOrder](); !ok || s != def {
		t.Error("Lookup without options should return the default policy schema")
	}
	if s, ok := Lookup[registryOrder](byAmount); !ok || s != custom {
		t.Error("Lookup with a policy should return that policy's schema")
	}
	if _, ok := Lookup[registryOrder](WithNamingPolicy(schema.NamingPolicy{HashKey: "sk"})); ok {
		t.Error("Lookup should miss for a policy never registered")
	}

	Unregister[registryOrder]()
	if _, ok := Lookup[registryOrder](byAmount); ok {
		t.Error("Unregister should drop every policy of the type")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustRegister should panic for a type without hash key")
		}
	}()
	MustRegister[registryBroken]()
}

func TestResolveRegistersOnce(t *testing.T) {
	defer Unregister[registryOrder]()

	var wg sync.WaitGroup
	results := make([]*schema.EntitySchema, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := Resolve[registryOrder]()
			if err != nil {
				t.Errorf("Resolve failed: %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	cached, ok := Lookup[registryOrder]()
	if !ok {
		t.Fatal("Resolve should cache the schema")
	}
	for _, s := range results {
		if s == nil || s.HashKeyName() != cached.HashKeyName() {
			t.Errorf("Resolve returned inconsistent schema %+v", s)
		}
	}
}
