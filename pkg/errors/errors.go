// Package errors defines the error taxonomy of the fedicore node.
// Every fallible operation returns an AppError carrying a Kind so callers branch on the
// failure class and the routing layer maps it to a protocol-level status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	// KindKeyGenerationFailed means entropy or the RSA implementation failed while minting a keypair
	KindKeyGenerationFailed Kind = "key_generation_failed"

	// KindKeyEncodingFailed means cached key material could not be decoded or re-encoded
	KindKeyEncodingFailed Kind = "key_encoding_failed"

	// KindAcctParseMismatch means a WebFinger resource is not a well-formed acct: URI
	KindAcctParseMismatch Kind = "acct_parse_mismatch"

	// KindSigningFailed means the private key did not parse or the signature operation failed
	KindSigningFailed Kind = "signing_failed"

	// KindNotFound means the addressed account or resource does not exist
	KindNotFound Kind = "not_found"

	// KindInvalidRequest means the caller supplied malformed input
	KindInvalidRequest Kind = "invalid_request"

	// KindUnauthorized means an operator request carried no valid token
	KindUnauthorized Kind = "unauthorized"

	// KindForbidden means a valid operator token does not cover the addressed account
	KindForbidden Kind = "forbidden"

	// KindDeliveryFailed means the transport could not reach the remote inbox
	KindDeliveryFailed Kind = "delivery_failed"

	// KindInternal is the fallback for unclassified failures
	KindInternal Kind = "internal_error"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Kind returns the failure class
	Kind() Kind

	// HTTPStatus returns the HTTP status code the routing layer should answer with
	HTTPStatus() int

	// Description returns a human-readable description safe to show to clients
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	kind        Kind
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Kind() Kind {
	return e.kind
}

func (e *baseError) HTTPStatus() int {
	return e.httpStatus
}

func (e *baseError) Description() string {
	return e.description
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an AppError of the same kind.
func (e *baseError) Is(target error) bool {
	t, ok := target.(AppError)
	if !ok {
		return false
	}
	return t.Kind() == e.kind
}

func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new AppError with the specified parameters
func NewError(kind Kind, httpStatus int, description string, message string) AppError {
	return &baseError{
		kind:        kind,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Sentinels
// ================================================================================

// Sentinels usable as errors.Is targets; matching compares kinds only.
var (
	ErrKeyGeneration  = NewError(KindKeyGenerationFailed, http.StatusInternalServerError, "key generation failed", "")
	ErrKeyEncoding    = NewError(KindKeyEncodingFailed, http.StatusInternalServerError, "key encoding failed", "")
	ErrAcctMismatch   = NewError(KindAcctParseMismatch, http.StatusBadRequest, "resource is not an acct: URI", "")
	ErrSigning        = NewError(KindSigningFailed, http.StatusInternalServerError, "signing failed", "")
	ErrNotFound       = NewError(KindNotFound, http.StatusNotFound, "not found", "")
	ErrInvalidRequest = NewError(KindInvalidRequest, http.StatusBadRequest, "invalid request", "")
	ErrDelivery       = NewError(KindDeliveryFailed, http.StatusBadGateway, "delivery failed", "")
)

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrKeyGenerationFailed creates a key generation error for a username
func ErrKeyGenerationFailed(username string, cause error) AppError {
	return NewError(
		KindKeyGenerationFailed,
		http.StatusInternalServerError,
		"The server could not create key material for this account.",
		fmt.Sprintf("failed to generate keypair for %q", username),
	).WithCause(cause).WithMetadata("username", username)
}

// ErrKeyEncodingFailed creates a key encoding error for a username
func ErrKeyEncodingFailed(username string, cause error) AppError {
	return NewError(
		KindKeyEncodingFailed,
		http.StatusInternalServerError,
		"The server could not encode key material for this account.",
		fmt.Sprintf("failed to encode public key for %q", username),
	).WithCause(cause).WithMetadata("username", username)
}

// ErrAcctParseMismatch creates the "no match" outcome for a WebFinger resource
func ErrAcctParseMismatch(resource string) AppError {
	return NewError(
		KindAcctParseMismatch,
		http.StatusBadRequest,
		"The resource parameter must be of the form acct:user@domain.",
		fmt.Sprintf("resource %q is not an acct: URI", resource),
	).WithMetadata("resource", resource)
}

// ErrSigningFailed creates a signing error for a key id
func ErrSigningFailed(keyID string, cause error) AppError {
	return NewError(
		KindSigningFailed,
		http.StatusInternalServerError,
		"The server could not sign the outbound request.",
		fmt.Sprintf("failed to sign request with key %q", keyID),
	).WithCause(cause).WithMetadata("key_id", keyID)
}

// ErrAccountNotFound creates a not found error for a local account
func ErrAccountNotFound(username string) AppError {
	return NewError(
		KindNotFound,
		http.StatusNotFound,
		"The requested account was not found.",
		fmt.Sprintf("account not found: %s", username),
	).WithMetadata("username", username)
}

// ErrResourceNotFound creates a not found error for a WebFinger resource
func ErrResourceNotFound(resource string) AppError {
	return NewError(
		KindNotFound,
		http.StatusNotFound,
		"The requested resource was not found.",
		fmt.Sprintf("resource not found: %s", resource),
	).WithMetadata("resource", resource)
}

// ErrInvalidParameter creates an invalid request error for a named parameter
func ErrInvalidParameter(name string, reason string) AppError {
	return NewError(
		KindInvalidRequest,
		http.StatusBadRequest,
		"The request is missing a required parameter or includes an invalid parameter value.",
		fmt.Sprintf("invalid parameter %q: %s", name, reason),
	).WithMetadata("parameter", name)
}

// ErrDeliveryFailed creates a transport error for an inbox
func ErrDeliveryFailed(inbox string, cause error) AppError {
	return NewError(
		KindDeliveryFailed,
		http.StatusBadGateway,
		"The remote inbox could not be reached.",
		fmt.Sprintf("delivery to %s failed", inbox),
	).WithCause(cause).WithMetadata("inbox", inbox)
}

// ErrUnauthorized rejects a missing, malformed or expired operator token
func ErrUnauthorized(reason string, cause error) AppError {
	return NewError(
		KindUnauthorized,
		http.StatusUnauthorized,
		"A valid operator bearer token is required.",
		reason,
	).WithCause(cause)
}

// ErrForbidden rejects an operator token issued for a different account
func ErrForbidden(subject, username string) AppError {
	return NewError(
		KindForbidden,
		http.StatusForbidden,
		"The operator token does not cover this account.",
		fmt.Sprintf("token for %q used on %q", subject, username),
	).WithMetadata("username", username)
}

// ErrInternal wraps an unclassified failure
func ErrInternal(message string, cause error) AppError {
	return NewError(
		KindInternal,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition.",
		message,
	).WithCause(cause)
}

// ================================================================================
// Error Inspection Utilities
// ================================================================================

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err carries none
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind()
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatusOf maps err to a status code; unclassified errors are 500
func HTTPStatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPStatus() != 0 {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ShouldLogError determines if an error should be logged at error level
func ShouldLogError(err error) bool {
	return HTTPStatusOf(err) >= http.StatusInternalServerError
}

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ToErrorResponse converts any error to an ErrorResponse without leaking causes
func ToErrorResponse(err error) *ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return &ErrorResponse{
			Error:            string(appErr.Kind()),
			ErrorDescription: appErr.Description(),
		}
	}
	return &ErrorResponse{
		Error:            string(KindInternal),
		ErrorDescription: "An unexpected error occurred",
	}
}
