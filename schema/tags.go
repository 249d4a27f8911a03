/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"strings"
)

// TagName is the struct tag key carrying key role declarations.
const TagName = "dynamoentity"

// Key role markers.
const (
	RoleHashKey = "hash_key"
	RoleSortKey = "sort_key"
)

// Option names accepted after a role marker.
const (
	OptionName   = "name"
	OptionPrefix = "prefix"
	OptionConst  = "const"
)

// KeyOptions holds the options attached to one key role marker.
// Nil members were not declared.
type KeyOptions struct {
	Name   *string
	Prefix *string
	Const  *string
}

// TagSpec is the parsed content of a dynamoentity struct tag.
type TagSpec struct {
	Hash *KeyOptions
	Sort *KeyOptions
}

// IsKey reports whether the tag declares any key role.
func (s TagSpec) IsKey() bool {
	return s.Hash != nil || s.Sort != nil
}

// ParseTag parses a dynamoentity tag value such as
//
//	hash_key,name=profileId,prefix=USER#
//	sort_key,const=PROFILE
//	hash_key;sort_key
//
// Values may be single-quoted to include ',' or ';'. Unknown roles and
// options are ignored. The returned error always describes a malformed option.
func ParseTag(tag string) (TagSpec, error) {
	var parsed TagSpec
	if strings.TrimSpace(tag) == "" {
		return parsed, nil
	}

	roles, err := splitTopLevel(tag, ';')
	if err != nil {
		return parsed, err
	}

	for _, role := range roles {
		parts, err := splitTopLevel(role, ',')
		if err != nil {
			return parsed, err
		}

		var target **KeyOptions
		switch strings.TrimSpace(parts[0]) {
		case RoleHashKey:
			target = &parsed.Hash
		case RoleSortKey:
			target = &parsed.Sort
		default:
			continue
		}

		opts := *target
		if opts == nil {
			opts = &KeyOptions{}
		}
		for _, part := range parts[1:] {
			if err := parseOption(opts, part); err != nil {
				return parsed, err
			}
		}
		*target = opts
	}

	return parsed, nil
}

func parseOption(opts *KeyOptions, part string) error {
	part = strings.TrimSpace(part)
	if part == "" {
		return nil
	}

	key, raw, found := strings.Cut(part, "=")
	key = strings.TrimSpace(key)

	var dst **string
	switch key {
	case OptionName:
		dst = &opts.Name
	case OptionPrefix:
		dst = &opts.Prefix
	case OptionConst:
		dst = &opts.Const
	default:
		return nil
	}

	if !found {
		return fmt.Errorf("option %q requires a string value", key)
	}
	value, err := unquote(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	if value == "" {
		return fmt.Errorf("option %q requires a non-empty string value", key)
	}

	*dst = &value
	return nil
}

func unquote(raw string) (string, error) {
	if !strings.HasPrefix(raw, "'") {
		return raw, nil
	}
	if len(raw) < 2 || !strings.HasSuffix(raw, "'") {
		return "", fmt.Errorf("unterminated quoted value %s", raw)
	}
	return raw[1 : len(raw)-1], nil
}

// splitTopLevel splits s on sep, ignoring separators inside single quotes.
func splitTopLevel(s string, sep rune) ([]string, error) {
	var parts []string
	var current strings.Builder
	quoted := false

	for _, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
			current.WriteRune(r)
		case r == sep && !quoted:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quoted value in %q", s)
	}

	return append(parts, current.String()), nil
}
