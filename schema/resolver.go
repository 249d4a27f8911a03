/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"

	"github.com/suparena/dynamoentity/errors"
)

// Resolve builds the EntitySchema of typeName from its fields.
//
// A field marked hash_key is the hash key; without one, the first unmarked
// field matching policy.HashKey is used. The sort key resolves the same way
// against sort_key and policy.SortKey and is optional. Non-key fields keep
// their declaration order.
func Resolve(typeName string, fields []FieldDecl, policy NamingPolicy) (*EntitySchema, error) {
	var hash, sort *KeyField
	var defaultHash, defaultSort *FieldDecl

	for i := range fields {
		f := fields[i]

		parsed, err := ParseTag(f.Tag.Get(TagName))
		if err != nil {
			return nil, errors.NewDefinitionError(typeName, f.Name, errors.ErrMalformedOption, err.Error())
		}

		switch {
		case parsed.Hash != nil && parsed.Sort != nil:
			return nil, errors.NewDefinitionError(typeName, f.Name, errors.ErrAmbiguousKey,
				"field is marked as both hash_key and sort_key")

		case parsed.Hash != nil:
			if hash != nil {
				return nil, errors.NewDefinitionError(typeName, f.Name, errors.ErrAmbiguousKey,
					fmt.Sprintf("hash_key is already declared on field %s", hash.Field.Name))
			}
			key, err := newKeyField(typeName, f, parsed.Hash, false)
			if err != nil {
				return nil, err
			}
			hash = key

		case parsed.Sort != nil:
			if sort != nil {
				return nil, errors.NewDefinitionError(typeName, f.Name, errors.ErrAmbiguousKey,
					fmt.Sprintf("sort_key is already declared on field %s", sort.Field.Name))
			}
			key, err := newKeyField(typeName, f, parsed.Sort, true)
			if err != nil {
				return nil, err
			}
			sort = key

		case defaultHash == nil && policy.IsHashKey(f):
			defaultHash = &fields[i]

		case defaultSort == nil && policy.IsSortKey(f):
			defaultSort = &fields[i]
		}
	}

	if hash == nil && defaultHash != nil {
		hash = &KeyField{Field: *defaultHash, AttributeName: defaultHash.AttributeName}
	}
	if hash == nil {
		return nil, errors.NewDefinitionError(typeName, "", errors.ErrMissingHashKey,
			fmt.Sprintf("mark a field with %s or include a field named %q", RoleHashKey, policy.HashKey))
	}
	if sort == nil && defaultSort != nil && defaultSort.Name != hash.Field.Name {
		sort = &KeyField{Field: *defaultSort, AttributeName: defaultSort.AttributeName}
	}

	s := &EntitySchema{TypeName: typeName, Hash: *hash, Sort: sort}
	for _, f := range fields {
		if f.Name == hash.Field.Name || (sort != nil && f.Name == sort.Field.Name) {
			continue
		}
		s.NonKey = append(s.NonKey, f)
	}

	return s, nil
}

// newKeyField applies the parsed options of one role to a field.
// const is only meaningful for sort keys and is ignored on hash keys.
func newKeyField(typeName string, f FieldDecl, opts *KeyOptions, allowConst bool) (*KeyField, error) {
	key := &KeyField{Field: f, AttributeName: f.AttributeName, Prefix: opts.Prefix}
	if opts.Name != nil {
		key.AttributeName = *opts.Name
	}
	if allowConst {
		key.Const = opts.Const
	}

	if (key.Prefix != nil || key.Const != nil) && !f.StringKind {
		return nil, errors.NewDefinitionError(typeName, f.Name, errors.ErrMalformedOption,
			fmt.Sprintf("prefix and const require a string field, got %s", f.Type))
	}

	return key, nil
}
