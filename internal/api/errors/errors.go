package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindBadRequest      ErrorKind = "bad_request"
	KindNotFound        ErrorKind = "not_found"
	KindPayloadTooLarge ErrorKind = "payload_too_large"
	KindInternal        ErrorKind = "internal"
)

// APIError is the body of every non-2xx response. Detail is the human-readable
// message clients are expected to show.
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Detail    string            `json:"detail"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Detail
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(detail string, fields map[string]string) *APIError {
	return &APIError{
		Kind:   KindValidation,
		Detail: detail,
		Fields: fields,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(detail string) *APIError {
	return &APIError{
		Kind:   KindBadRequest,
		Detail: detail,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
	}
}

// NewPayloadTooLargeError creates an error for uploads over the configured limit
func NewPayloadTooLargeError(limit int64) *APIError {
	return &APIError{
		Kind:   KindPayloadTooLarge,
		Detail: fmt.Sprintf("audio file exceeds the %d byte limit", limit),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(detail string) *APIError {
	return &APIError{
		Kind:   KindInternal,
		Detail: detail,
	}
}
