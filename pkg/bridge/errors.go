package bridge

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a Bridge error for catch-site branching. Tests branch on
// ConstraintViolation versus NotFound; everything else propagates.
type Kind int

const (
	KindTransport Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConstraintViolation
	KindProvisioning
)

// kindInfo carries the registry metadata for each error kind.
type kindInfo struct {
	code        string
	exception   string // Bridge wire exception type name
	statusCode  int
	description string
}

var kindRegistry = map[Kind]kindInfo{
	KindTransport:           {"BR5000", "BridgeServiceException", http.StatusInternalServerError, "transport or server failure"},
	KindBadRequest:          {"BR4000", "BadRequestException", http.StatusBadRequest, "request validation failure"},
	KindUnauthorized:        {"BR4010", "NotAuthenticatedException", http.StatusUnauthorized, "missing or rejected credentials"},
	KindNotFound:            {"BR4040", "EntityNotFoundException", http.StatusNotFound, "no matching resource"},
	KindConstraintViolation: {"BR4090", "ConstraintViolationException", http.StatusConflict, "operation violates a server constraint"},
	KindProvisioning:        {"BR1000", "ProvisioningException", http.StatusInternalServerError, "test account provisioning failure"},
}

// Error is the tagged error type surfaced by the SDK clients and the
// harness.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExceptionType returns the Bridge wire exception name for the error's kind.
func (e *Error) ExceptionType() string {
	return kindRegistry[e.Kind].exception
}

// NewError creates a tagged error of the given kind.
func NewError(kind Kind, message string) *Error {
	info := kindRegistry[kind]
	return &Error{
		Kind:       kind,
		Code:       info.code,
		Message:    message,
		StatusCode: info.statusCode,
	}
}

// WrapError wraps an existing error with additional context. A wrapped
// *Error keeps its kind and status; anything else becomes a transport
// error.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return &Error{
			Kind:       be.Kind,
			Code:       be.Code,
			Message:    message,
			StatusCode: be.StatusCode,
			Err:        err,
		}
	}
	wrapped := NewError(KindTransport, message)
	wrapped.Err = err
	return wrapped
}

// FromResponse maps an HTTP error response to a tagged error. The server's
// exception type name takes precedence over the raw status code, because a
// live backend may surface domain exceptions on shared status codes.
func FromResponse(statusCode int, exceptionType, message string) *Error {
	kind := KindTransport
	for k, info := range kindRegistry {
		if exceptionType != "" && info.exception == exceptionType {
			kind = k
			break
		}
	}
	if kind == KindTransport && exceptionType == "" {
		switch {
		case statusCode == http.StatusConflict:
			kind = KindConstraintViolation
		case statusCode == http.StatusNotFound:
			kind = KindNotFound
		case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
			kind = KindUnauthorized
		case statusCode >= 400 && statusCode < 500:
			kind = KindBadRequest
		}
	}
	if message == "" {
		message = kindRegistry[kind].description
	}
	e := NewError(kind, message)
	e.StatusCode = statusCode
	return e
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

// IsConstraintViolation reports whether err is a constraint-violation
// error (ambiguous app-config selection).
func IsConstraintViolation(err error) bool {
	return IsKind(err, KindConstraintViolation)
}

// IsNotFound reports whether err is an entity-not-found error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
