// Package errors provides custom error types for the unify system.
// These errors enable programmatic error checking across the ingestion
// pipeline and carry enough context for per-record operator reports.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the unify system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates a source record missing required structural fields
	ErrMalformedRecord = errors.New("malformed record")

	// ErrAmbiguousIdentity indicates a record that would merge two groups
	// carrying different non-empty canonical ids
	ErrAmbiguousIdentity = errors.New("ambiguous identity")

	// ErrUnresolvedReference indicates a dependent record whose person
	// reference resolves to no canonical person
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrStoreConstraint indicates the relational store rejected a write
	ErrStoreConstraint = errors.New("store constraint violation")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// MalformedRecordError represents a source record that cannot be normalized
// because it lacks any identifying structure (no id, no name, no contact).
// Malformed records are skipped and counted; they never abort a batch.
type MalformedRecordError struct {
	Source  string
	Index   int
	Message string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %d from source %s: %s", e.Index, e.Source, e.Message)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(source string, index int, message string) *MalformedRecordError {
	return &MalformedRecordError{Source: source, Index: index, Message: message}
}

// AmbiguousIdentityError represents a record whose keys bridge two identity
// groups that already carry different, non-empty canonical person ids.
// The record is rejected rather than silently assigned to either group.
type AmbiguousIdentityError struct {
	Source   string
	Index    int
	PersonID string
	OtherID  string
}

// Error implements the error interface
func (e *AmbiguousIdentityError) Error() string {
	return fmt.Sprintf("record %d from source %s bridges conflicting person ids %q and %q",
		e.Index, e.Source, e.PersonID, e.OtherID)
}

// Is implements errors.Is support
func (e *AmbiguousIdentityError) Is(target error) bool {
	return target == ErrAmbiguousIdentity
}

// NewAmbiguousIdentityError creates a new AmbiguousIdentityError
func NewAmbiguousIdentityError(source string, index int, personID, otherID string) *AmbiguousIdentityError {
	return &AmbiguousIdentityError{Source: source, Index: index, PersonID: personID, OtherID: otherID}
}

// UnresolvedReferenceError represents a dependent record (transaction,
// transfer, promotion) whose phone/email/id reference matches no person.
type UnresolvedReferenceError struct {
	Entity    string // "transaction", "transfer", "promotion"
	EntityID  string
	Reference string
}

// Error implements the error interface
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s %s references unknown person %q", e.Entity, e.EntityID, e.Reference)
}

// Is implements errors.Is support
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// NewUnresolvedReferenceError creates a new UnresolvedReferenceError
func NewUnresolvedReferenceError(entity, entityID, reference string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Entity: entity, EntityID: entityID, Reference: reference}
}

// StoreConstraintError represents a write the relational store rejected
// (unique key collision, foreign key failure). Fatal to the batch: the
// enclosing transaction rolls back entirely.
type StoreConstraintError struct {
	Table      string
	Constraint string // "unique", "foreign_key", or "" when unknown
	Err        error
}

// Error implements the error interface
func (e *StoreConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("store rejected write to %s (%s constraint): %v", e.Table, e.Constraint, e.Err)
	}
	return fmt.Sprintf("store rejected write to %s: %v", e.Table, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreConstraintError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreConstraintError) Is(target error) bool {
	return target == ErrStoreConstraint
}

// NewStoreConstraintError creates a new StoreConstraintError
func NewStoreConstraintError(table, constraint string, err error) *StoreConstraintError {
	return &StoreConstraintError{Table: table, Constraint: constraint, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing source data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv", "xml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedRecord checks if an error is a malformed record error
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsAmbiguousIdentity checks if an error is an ambiguous identity error
func IsAmbiguousIdentity(err error) bool {
	return errors.Is(err, ErrAmbiguousIdentity)
}

// IsUnresolvedReference checks if an error is an unresolved reference error
func IsUnresolvedReference(err error) bool {
	return errors.Is(err, ErrUnresolvedReference)
}

// IsStoreConstraint checks if an error is a store constraint violation
func IsStoreConstraint(err error) bool {
	return errors.Is(err, ErrStoreConstraint)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapStore wraps an error as a StoreConstraintError
func WrapStore(table string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreConstraintError(table, "", err)
}
