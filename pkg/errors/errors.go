package errors

import (
	"fmt"
	"net/http"
)

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a validation failure with field-level details.
// Fields enumerates every invalid field so transports can surface them
// individually alongside the combined message.
type ValidationError struct {
	Field   string
	Message string
	Fields  []FieldError
}

// NewValidationError creates a new validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{
		Field:   field,
		Message: message,
	}
	if field != "" {
		v.Fields = []FieldError{{Field: field, Message: message}}
	}
	return v
}

// NewFieldValidationError creates a validation error carrying one entry
// per invalid field, with a combined message built from them.
func NewFieldValidationError(message string, fields []FieldError) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  fields,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// NewUserNotFoundError creates a not found error for a user id
func NewUserNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{
		Resource: "user",
		Message:  fmt.Sprintf("User not found with id: %d", id),
	}
}

// NewUsernameNotFoundError creates a not found error for a username
func NewUsernameNotFoundError(username string) *NotFoundError {
	return &NotFoundError{
		Resource: "user",
		Message:  fmt.Sprintf("User with username '%s' not found", username),
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a uniqueness violation on a field
type AlreadyExistsError struct {
	Resource string
	Field    string
	Value    string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, field, value string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Field:    field,
		Value:    value,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with %s '%s' already exists", titled(e.Resource), e.Field, e.Value)
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusConflict
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that carry an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

func titled(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
