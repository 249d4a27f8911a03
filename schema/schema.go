/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldDecl describes one struct field as seen by the resolver.
type FieldDecl struct {
	// Name is the Go identifier of the field.
	Name string `yaml:"name"`
	// Type is the textual Go type of the field, e.g. "string" or "[]strfmt.UUID".
	Type string `yaml:"type"`
	// AttributeName is the item attribute the field is stored under.
	AttributeName string `yaml:"attribute"`
	// StringKind reports whether the field holds a string, so prefix and const values can be assigned.
	StringKind bool `yaml:"-"`
	// Tag is the full struct tag of the field.
	Tag reflect.StructTag `yaml:"-"`
	// Index is the field position within the struct.
	Index int `yaml:"-"`
}

// KeyField describes one key role of an entity.
type KeyField struct {
	Field         FieldDecl `yaml:"field"`
	AttributeName string    `yaml:"attribute"`
	Const         *string   `yaml:"const,omitempty"`
	Prefix        *string   `yaml:"prefix,omitempty"`
}

// Produce returns the key value stored for a caller supplied argument:
// the constant when one is declared, else the prefix followed by the
// textual form of arg, else arg unchanged.
func (k KeyField) Produce(arg any) any {
	if k.Const != nil {
		return *k.Const
	}
	if k.Prefix != nil {
		return *k.Prefix + fmt.Sprint(arg)
	}
	return arg
}

// IsConst reports whether the key value is fixed by declaration.
func (k KeyField) IsConst() bool {
	return k.Const != nil
}

// EntitySchema is the resolved key layout of one entity type.
type EntitySchema struct {
	TypeName string      `yaml:"type"`
	Hash     KeyField    `yaml:"hashKey"`
	Sort     *KeyField   `yaml:"sortKey,omitempty"`
	NonKey   []FieldDecl `yaml:"fields"`
}

// HashKeyName returns the attribute name of the hash key.
func (s *EntitySchema) HashKeyName() string {
	return s.Hash.AttributeName
}

// HasSort reports whether the entity has a sort key.
func (s *EntitySchema) HasSort() bool {
	return s.Sort != nil
}

// SortConst returns the constant sort key value, if declared.
func (s *EntitySchema) SortConst() (string, bool) {
	if s.Sort == nil || s.Sort.Const == nil {
		return "", false
	}
	return *s.Sort.Const, true
}

// SortPrefix returns the sort key prefix, if declared and not overridden by a constant.
func (s *EntitySchema) SortPrefix() (string, bool) {
	if s.Sort == nil || s.Sort.Const != nil || s.Sort.Prefix == nil {
		return "", false
	}
	return *s.Sort.Prefix, true
}

// KeyAttributes returns the key attribute names, hash first.
func (s *EntitySchema) KeyAttributes() []string {
	if s.Sort == nil {
		return []string{s.Hash.AttributeName}
	}
	return []string{s.Hash.AttributeName, s.Sort.AttributeName}
}

// Renames maps the encoded attribute name of each key field to the key
// attribute name declared with the name option, for fields where they differ.
func (s *EntitySchema) Renames() map[string]string {
	renames := map[string]string{}
	for _, k := range []*KeyField{&s.Hash, s.Sort} {
		if k != nil && k.Field.AttributeName != k.AttributeName {
			renames[k.Field.AttributeName] = k.AttributeName
		}
	}
	return renames
}

// AttributeNameOf returns the attribute name attributevalue uses for a field
// with the given Go name and tag. It returns false for fields the encoder skips.
func AttributeNameOf(fieldName string, tag reflect.StructTag) (string, bool) {
	av, ok := tag.Lookup("dynamodbav")
	if !ok {
		return fieldName, true
	}
	name, _, _ := strings.Cut(av, ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		return fieldName, true
	}
	return name, true
}
