// Package apperr is the closed set of error kinds surfaced at the HTTP
// boundary. Every handler funnels failures through Respond.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDatabase
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDatabase:
		return "database"
	case KindExternalService:
		return "external_service"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Database(message string, err error) *Error {
	if message == "" {
		message = "database operation failed"
	}
	return &Error{Kind: KindDatabase, Message: message, Err: err}
}

// External reports a failing downstream dependency (storage, OCR).
func External(service, message string, err error) *Error {
	if message == "" {
		message = "external service error"
	}
	return &Error{Kind: KindExternalService, Message: service + ": " + message, Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Respond writes err as a structured JSON error. Server-side kinds are logged;
// the wrapped cause never reaches the client.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var e *Error
	if !errors.As(err, &e) {
		if log != nil {
			log.Error("unhandled error",
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := e.Kind.Status()
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", e.Kind.String()),
			zap.Error(err))
	}

	body := gin.H{"error": e.Message}
	if e.Details != nil {
		body["details"] = e.Details
	}
	c.JSON(status, body)
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// FromValidation turns validator failures into a Validation error whose
// details list the offending fields.
func FromValidation(message string, err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation(message, nil)
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return Validation(message, details)
}
