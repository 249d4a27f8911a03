/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import "strings"

// NamingPolicy picks key fields for entities that don't mark them explicitly.
// An empty name disables the default for that role.
type NamingPolicy struct {
	HashKey string
	SortKey string
}

// DefaultNaming treats a field named "id" as the hash key and "sk" as the sort key.
var DefaultNaming = NamingPolicy{HashKey: "id", SortKey: "sk"}

// IsHashKey reports whether an unmarked field is the default hash key.
func (p NamingPolicy) IsHashKey(f FieldDecl) bool {
	return matches(p.HashKey, f)
}

// IsSortKey reports whether an unmarked field is the default sort key.
func (p NamingPolicy) IsSortKey(f FieldDecl) bool {
	return matches(p.SortKey, f)
}

func matches(name string, f FieldDecl) bool {
	if name == "" {
		return false
	}
	return f.AttributeName == name || strings.EqualFold(f.Name, name)
}
