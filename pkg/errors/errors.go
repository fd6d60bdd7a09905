// Package errors provides structured error types for kintree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the store, projection and CLI layers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for validation failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the family graph error taxonomy:
//   - CONFLICT: a duplicate active person name on create or rename
//   - INVALID_RELATIONSHIP: a parent or spouse edge breaks a graph rule
//   - NOT_FOUND: an id that does not exist or refers to an inactive person
//   - CONSISTENCY: the stored graph was already corrupt (fatal, never retried)
//   - INVALID_INPUT / INVALID_FORMAT: boundary validation and decoding failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "person %s not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing person
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Graph rule errors
	ErrCodeConflict            Code = "CONFLICT"
	ErrCodeInvalidRelationship Code = "INVALID_RELATIONSHIP"
	ErrCodeNotFound            Code = "NOT_FOUND"
	ErrCodeConsistency         Code = "CONSISTENCY"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by error types that carry a code without embedding *Error.
type coded interface {
	error
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a coded error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var r *RelationshipError
	if errors.As(err, &r) {
		return r.Message
	}
	return err.Error()
}

// Rule names the relationship invariant an edge violated.
type Rule string

// Relationship rules checked by the store.
const (
	RuleMaxParents      Rule = "max_parents"
	RuleDuplicateParent Rule = "duplicate_parent"
	RuleParentGender    Rule = "parent_gender"
	RuleCycle           Rule = "cycle"
	RuleSelfReference   Rule = "self_reference"
	RuleSpouseTaken     Rule = "spouse_taken"
	RuleBirthOrder      Rule = "birth_order"
)

// RelationshipError reports a rejected parent or spouse edge.
// It carries the violated rule and the ids involved so callers can present
// a specific message.
type RelationshipError struct {
	Rule       Rule
	PersonID   string   // person whose relationships were being changed
	RelatedIDs []string // the other end(s) of the offending edge
	Message    string
}

// Error implements the error interface.
func (e *RelationshipError) Error() string {
	return fmt.Sprintf("%s: %s (%s: %s -> %s)", ErrCodeInvalidRelationship, e.Message,
		e.Rule, e.PersonID, strings.Join(e.RelatedIDs, ","))
}

// ErrorCode returns the error code for this error type.
func (e *RelationshipError) ErrorCode() Code {
	return ErrCodeInvalidRelationship
}

// Relationship creates a RelationshipError for the given rule.
func Relationship(rule Rule, personID string, related []string, format string, args ...any) *RelationshipError {
	return &RelationshipError{
		Rule:       rule,
		PersonID:   personID,
		RelatedIDs: related,
		Message:    fmt.Sprintf(format, args...),
	}
}

// RuleOf returns the violated rule if err is a RelationshipError.
func RuleOf(err error) (Rule, bool) {
	var r *RelationshipError
	if errors.As(err, &r) {
		return r.Rule, true
	}
	return "", false
}
