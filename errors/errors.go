/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Definition-time error kinds
var (
	// ErrMissingHashKey is returned when no field resolves as the hash key
	ErrMissingHashKey = errors.New("missing hash key")

	// ErrUnsupportedShape is returned when the entity type is not a struct with named fields
	ErrUnsupportedShape = errors.New("unsupported entity shape")

	// ErrMalformedOption is returned when a key option has an invalid value
	ErrMalformedOption = errors.New("malformed key option")

	// ErrAmbiguousKey is returned when key roles are declared more than once or on the same field
	ErrAmbiguousKey = errors.New("ambiguous key declaration")
)

// Run-time error kinds
var (
	// ErrBackendOperationFailed wraps errors returned by DynamoDB
	ErrBackendOperationFailed = errors.New("backend operation failed")

	// ErrSerializationFailed is returned when an entity or key can't be converted to or from attribute values
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrMissingConfiguration is returned when environment-derived setup is absent
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrNoSchema is returned by schema-driven helpers for entities without a resolved key schema
	ErrNoSchema = errors.New("no key schema registered for type")
)

// DefinitionError describes an entity type that can't be mapped
type DefinitionError struct {
	Type    string
	Field   string
	Kind    error
	Message string
}

func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("dynamoentity: %s.%s: %s: %s", e.Type, e.Field, e.Kind, e.Message)
	}
	return fmt.Sprintf("dynamoentity: %s: %s: %s", e.Type, e.Kind, e.Message)
}

func (e *DefinitionError) Is(target error) bool {
	return target == e.Kind
}

// StorageError is returned by every data access operation
type StorageError struct {
	Op    string
	Table string
	Kind  error
	Err   error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Kind)
	if e.Table != "" {
		msg = fmt.Sprintf("%s on table %q", msg, e.Table)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StorageError) Is(target error) bool {
	return target == e.Kind
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Code returns the DynamoDB error code of the underlying failure, if there is one
func (e *StorageError) Code() string {
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// Helper functions for creating errors

// NewDefinitionError creates a new DefinitionError
func NewDefinitionError(typeName, field string, kind error, message string) error {
	return &DefinitionError{Type: typeName, Field: field, Kind: kind, Message: message}
}

// NewBackendError wraps a DynamoDB failure for the given operation
func NewBackendError(op, table string, err error) error {
	return &StorageError{Op: op, Table: table, Kind: ErrBackendOperationFailed, Err: err}
}

// NewSerializationError wraps a marshal or unmarshal failure for the given operation
func NewSerializationError(op, table string, err error) error {
	return &StorageError{Op: op, Table: table, Kind: ErrSerializationFailed, Err: err}
}

// NewConfigurationError reports an operation that can't run because its setup is incomplete
func NewConfigurationError(op, table string, err error) error {
	return &StorageError{Op: op, Table: table, Kind: ErrMissingConfiguration, Err: err}
}

// NewMissingConfigurationError reports an absent configuration value
func NewMissingConfigurationError(name string) error {
	return &StorageError{
		Op:   "configure",
		Kind: ErrMissingConfiguration,
		Err:  fmt.Errorf("environment variable %q is not set", name),
	}
}

// IsMissingHashKey checks if an error is a missing hash key definition error
func IsMissingHashKey(err error) bool {
	return errors.Is(err, ErrMissingHashKey)
}

// IsUnsupportedShape checks if an error is an unsupported shape definition error
func IsUnsupportedShape(err error) bool {
	return errors.Is(err, ErrUnsupportedShape)
}

// IsMalformedOption checks if an error is a malformed option definition error
func IsMalformedOption(err error) bool {
	return errors.Is(err, ErrMalformedOption)
}

// IsAmbiguousKey checks if an error is an ambiguous key definition error
func IsAmbiguousKey(err error) bool {
	return errors.Is(err, ErrAmbiguousKey)
}

// IsDefinitionError checks if an error was raised while resolving an entity definition
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

// IsBackendFailure checks if an error came from DynamoDB itself
func IsBackendFailure(err error) bool {
	return errors.Is(err, ErrBackendOperationFailed)
}

// IsSerializationFailure checks if an error is a serialization failure
func IsSerializationFailure(err error) bool {
	return errors.Is(err, ErrSerializationFailed)
}

// IsMissingConfiguration checks if an error is a missing configuration error
func IsMissingConfiguration(err error) bool {
	return errors.Is(err, ErrMissingConfiguration)
}

// IsConditionFailed checks if a write was rejected by its condition expression
func IsConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}
