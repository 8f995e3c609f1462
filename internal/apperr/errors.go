// Package apperr holds the error taxonomy shared by every service.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is wrapped by entity-specific not-found errors.
var ErrNotFound = errors.New("not found")

// ValidationError is returned before any write when input is missing or malformed.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Reason
	}
	msg := "invalid or missing fields: " + strings.Join(e.Fields, ", ")
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Invalid builds a ValidationError for the given fields.
func Invalid(reason string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Reason: reason}
}

// FieldErrors collects failing field names while a request is validated.
type FieldErrors struct {
	fields map[string]struct{}
}

func (f *FieldErrors) Add(field string) {
	if f.fields == nil {
		f.fields = make(map[string]struct{})
	}
	f.fields[field] = struct{}{}
}

// Err returns nil when nothing failed, otherwise a ValidationError with sorted fields.
func (f *FieldErrors) Err() error {
	if len(f.fields) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f.fields))
	for k := range f.fields {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// StorageError wraps a persistence failure. It is never swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it is nil or already classified.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	var ve *ValidationError
	if errors.As(err, &se) || errors.As(err, &ve) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
