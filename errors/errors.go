/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity type or a table is not registered
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a value cannot be processed as a record
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingIdentity is returned when a record has no identity field
	ErrMissingIdentity = errors.New("missing identity")

	// ErrInvalidKey is returned when an identity is neither a string nor a number
	ErrInvalidKey = errors.New("invalid identity key")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")
)

// NotFoundError represents a failed lookup by name or key
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input that could not be processed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IdentityError is raised by identity extractors. Missing reports whether the
// identity field was absent (ErrMissingIdentity) or present with an unusable
// value (ErrInvalidKey).
type IdentityError struct {
	EntityType string
	Field      string
	Value      any
	Missing    bool
}

func (e *IdentityError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s record has no identity field %q", e.EntityType, e.Field)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s record has unusable identity %v (%T)", e.EntityType, e.Value, e.Value)
	}
	return fmt.Sprintf("%s record has unusable identity %v (%T) in field %q", e.EntityType, e.Value, e.Value, e.Field)
}

func (e *IdentityError) Is(target error) bool {
	if e.Missing {
		return target == ErrMissingIdentity
	}
	return target == ErrInvalidKey
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewUnknownTypeError reports an entity type name with no registered definition
func NewUnknownTypeError(name string) error {
	return &NotFoundError{Type: "entity type", Key: name}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewMissingIdentityError creates an IdentityError for an absent identity field
func NewMissingIdentityError(entityType, field string) error {
	return &IdentityError{EntityType: entityType, Field: field, Missing: true}
}

// NewInvalidKeyError creates an IdentityError for an identity of the wrong kind
func NewInvalidKeyError(entityType, field string, value any) error {
	return &IdentityError{EntityType: entityType, Field: field, Value: value}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingIdentity checks if an error reports an absent identity field
func IsMissingIdentity(err error) bool {
	return errors.Is(err, ErrMissingIdentity)
}

// IsInvalidKey checks if an error reports an unusable identity value
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}
