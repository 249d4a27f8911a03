/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"reflect"

	"github.com/suparena/dynamoentity/errors"
)

// FieldsOf lists the mapped fields of a struct type. Pointer types are
// dereferenced. Unexported fields and fields tagged dynamodbav:"-" are skipped.
func FieldsOf(t reflect.Type) ([]FieldDecl, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewDefinitionError(typeNameOf(t), "", errors.ErrUnsupportedShape,
			fmt.Sprintf("entity must be a struct, got %s", t.Kind()))
	}

	fields := make([]FieldDecl, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			if silentEmbed(sf, map[reflect.Type]bool{}) {
				continue
			}
			return nil, errors.NewDefinitionError(typeNameOf(t), sf.Name, errors.ErrUnsupportedShape,
				"embedded fields are not supported, declare named fields")
		}
		if !sf.IsExported() {
			continue
		}
		attr, ok := AttributeNameOf(sf.Name, sf.Tag)
		if !ok {
			continue
		}

		fields = append(fields, FieldDecl{
			Name:          sf.Name,
			Type:          sf.Type.String(),
			AttributeName: attr,
			StringKind:    sf.Type.Kind() == reflect.String,
			Tag:           sf.Tag,
			Index:         i,
		})
	}

	return fields, nil
}

// ResolveType resolves the EntitySchema of a struct type.
func ResolveType(t reflect.Type, policy NamingPolicy) (*EntitySchema, error) {
	fields, err := FieldsOf(t)
	if err != nil {
		return nil, err
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Resolve(typeNameOf(t), fields, policy)
}

// silentEmbed reports whether the embedded field sf contributes no attributes
// to the encoded item, like an embedded sync.Mutex.
func silentEmbed(sf reflect.StructField, seen map[reflect.Type]bool) bool {
	if _, ok := AttributeNameOf(sf.Name, sf.Tag); !ok {
		return true
	}
	ft := sf.Type
	if ft.Kind() == reflect.Pointer {
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct {
		return !sf.IsExported()
	}
	if seen[ft] {
		return true
	}
	seen[ft] = true
	for i := 0; i < ft.NumField(); i++ {
		inner := ft.Field(i)
		if inner.Anonymous {
			if !silentEmbed(inner, seen) {
				return false
			}
			continue
		}
		if inner.IsExported() {
			if _, ok := AttributeNameOf(inner.Name, inner.Tag); ok {
				return false
			}
		}
	}
	return true
}

func typeNameOf(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
