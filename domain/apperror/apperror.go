package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so the transport layer can map it to a stable status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindTokenInvalid
	KindTokenExpired
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidOperation
	KindUploadFailed
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "Unauthorized"
	case KindTokenInvalid:
		return "TokenInvalid"
	case KindTokenExpired:
		return "TokenExpired"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidOperation:
		return "InvalidOperation"
	case KindUploadFailed:
		return "UploadFailed"
	case KindPersistence:
		return "PersistenceError"
	default:
		return "InternalError"
	}
}

// AppError is the error type returned by every usecase.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any *AppError of the same kind, so errors.Is(err, apperror.NotFound("")) works.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError   { return New(KindValidation, message) }
func Unauthorized(message string) *AppError { return New(KindUnauthorized, message) }
func TokenInvalid(message string) *AppError { return New(KindTokenInvalid, message) }
func TokenExpired(message string) *AppError { return New(KindTokenExpired, message) }
func Forbidden(message string) *AppError    { return New(KindForbidden, message) }
func NotFound(message string) *AppError     { return New(KindNotFound, message) }
func Conflict(message string) *AppError     { return New(KindConflict, message) }
func InvalidOperation(message string) *AppError {
	return New(KindInvalidOperation, message)
}
func UploadFailed(message string, err error) *AppError { return Wrap(KindUploadFailed, message, err) }
func Persistence(message string, err error) *AppError  { return Wrap(KindPersistence, message, err) }

// KindOf returns the kind of err, or KindInternal when err is not an *AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HasKind reports whether err is an *AppError of the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to its transport status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindUnauthorized, KindTokenInvalid, KindTokenExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to a client. Server-side failures never leak their cause.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "Something went wrong"
	}
	if appErr.Kind == KindInternal || appErr.Kind == KindPersistence {
		return "Something went wrong"
	}
	return appErr.Message
}
