package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeParse represents malformed input text
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeConstruction represents entities that cannot be built from a stanza
	ErrorTypeConstruction ErrorType = "construction"
	// ErrorTypeReference represents ids that do not resolve in the store
	ErrorTypeReference ErrorType = "reference"
	// ErrorTypeArgument represents invalid arguments passed to an operation
	ErrorTypeArgument ErrorType = "argument"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// errorType lets IsErrorType see through the typed wrappers below.
func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Parse Errors

// ErrMalformedLine is returned when a stanza line has no "key: value" separator
type ErrMalformedLine struct {
	*BaseError
	Line int
	Text string
}

func NewMalformedLine(line int, text string) *ErrMalformedLine {
	return &ErrMalformedLine{
		BaseError: NewBaseError(ErrorTypeParse, fmt.Sprintf("line %d: missing \": \" separator: %q", line, text), nil),
		Line:      line,
		Text:      text,
	}
}

// ErrMalformedReference is returned when an is_a or relationship value cannot be split
type ErrMalformedReference struct {
	*BaseError
	CategoryID string
	Key        string
	Value      string
}

func NewMalformedReference(categoryID, key, value string) *ErrMalformedReference {
	return &ErrMalformedReference{
		BaseError:  NewBaseError(ErrorTypeParse, fmt.Sprintf("%s: malformed %s value: %q", categoryID, key, value), nil),
		CategoryID: categoryID,
		Key:        key,
		Value:      value,
	}
}

// Construction Errors

// ErrMultiplicity is returned when a single-valued field does not have exactly one value
type ErrMultiplicity struct {
	*BaseError
	Section string
	Field   string
	Count   int
}

func NewMultiplicity(section, field string, count int) *ErrMultiplicity {
	return &ErrMultiplicity{
		BaseError: NewBaseError(ErrorTypeConstruction, fmt.Sprintf("%s: field %q must have exactly one value, got %d", section, field, count), nil),
		Section:   section,
		Field:     field,
		Count:     count,
	}
}

// ErrDuplicateID is returned when a category or relation id is already taken
type ErrDuplicateID struct {
	*BaseError
	Kind string
	ID   string
}

func NewDuplicateID(kind, id string) *ErrDuplicateID {
	return &ErrDuplicateID{
		BaseError: NewBaseError(ErrorTypeConstruction, fmt.Sprintf("duplicate %s id: %s", kind, id), nil),
		Kind:      kind,
		ID:        id,
	}
}

// Reference Errors

// ErrUnresolvedReference is returned when a category or relation id is unknown
type ErrUnresolvedReference struct {
	*BaseError
	Kind string
	ID   string
	From string
}

func NewUnresolvedReference(kind, id, from string) *ErrUnresolvedReference {
	msg := fmt.Sprintf("unknown %s: %s", kind, id)
	if from != "" {
		msg = fmt.Sprintf("%s (referenced from %s)", msg, from)
	}
	return &ErrUnresolvedReference{
		BaseError: NewBaseError(ErrorTypeReference, msg, nil),
		Kind:      kind,
		ID:        id,
		From:      from,
	}
}

// Argument Errors

// ErrInvalidArgument is returned when an operation receives an argument of the wrong kind
type ErrInvalidArgument struct {
	*BaseError
	Argument string
	Reason   string
}

func NewInvalidArgument(argument, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		BaseError: NewBaseError(ErrorTypeArgument, fmt.Sprintf("invalid %s: %s", argument, reason), nil),
		Argument:  argument,
		Reason:    reason,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typed interface {
	errorType() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.errorType() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// TypeOf returns the ErrorType of the first typed error in the chain, or "".
func TypeOf(err error) ErrorType {
	var t typed
	if stderrors.As(err, &t) {
		return t.errorType()
	}
	return ""
}
