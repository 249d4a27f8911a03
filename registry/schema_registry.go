/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/dynamoentity/schema"
)

// schemaRegistry caches resolved key schemas by Go type and naming policy.
var (
	schemaRegistry = make(map[cacheKey]*schema.EntitySchema)
	mu             sync.RWMutex
)

type cacheKey struct {
	t      reflect.Type
	naming schema.NamingPolicy
}

// Option configures schema resolution during registration.
type Option func(*options)

type options struct {
	naming schema.NamingPolicy
}

// WithNamingPolicy replaces the default id/sk naming policy.
func WithNamingPolicy(policy schema.NamingPolicy) Option {
	return func(o *options) {
		o.naming = policy
	}
}

func buildOptions(opts []Option) options {
	o := options{naming: schema.DefaultNaming}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Register resolves the key schema of T under the given naming policy and
// caches it, replacing any previous registration with the same policy.
func Register[T any](opts ...Option) (*schema.EntitySchema, error) {
	return RegisterType(typeOf[T](), opts...)
}

// RegisterType is the non-generic form of Register.
func RegisterType(t reflect.Type, opts ...Option) (*schema.EntitySchema, error) {
	o := buildOptions(opts)

	s, err := schema.ResolveType(t, o.naming)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	schemaRegistry[cacheKey{t: t, naming: o.naming}] = s
	return s, nil
}

// MustRegister is like Register but panics on definition errors.
// It is meant for init() functions.
func MustRegister[T any](opts ...Option) *schema.EntitySchema {
	s, err := Register[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return s
}

// Lookup retrieves the schema of T cached under the given naming policy,
// the default one when no option is passed.
func Lookup[T any](opts ...Option) (*schema.EntitySchema, bool) {
	return LookupType(typeOf[T](), opts...)
}

// LookupType is the non-generic form of Lookup.
func LookupType(t reflect.Type, opts ...Option) (*schema.EntitySchema, bool) {
	key := cacheKey{t: t, naming: buildOptions(opts).naming}

	mu.RLock()
	defer mu.RUnlock()
	s, ok := schemaRegistry[key]
	return s, ok
}

// Resolve returns the cached schema of T for the given naming policy,
// registering it on first use.
func Resolve[T any](opts ...Option) (*schema.EntitySchema, error) {
	if s, ok := Lookup[T](opts...); ok {
		return s, nil
	}
	return Register[T](opts...)
}

// Unregister drops every cached schema of T.
func Unregister[T any]() {
	t := typeOf[T]()

	mu.Lock()
	defer mu.Unlock()
	for k := range schemaRegistry {
		if k.t == t {
			delete(schemaRegistry, k)
		}
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
