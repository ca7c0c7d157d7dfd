package serverutils

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrCircularMove    = errors.New("cannot move a directory into itself or its descendants")
	ErrInvalidDocument = errors.New("invalid document")
	ErrConflict        = errors.New("resource already exists")
)

// AppError carries an HTTP status and a stable machine code next to the
// underlying error.
type AppError struct {
	Status int
	Code   string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code string, err error) *AppError {
	return &AppError{Status: status, Code: code, Err: err}
}

func BadRequest(format string, args ...any) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: "bad_request", Err: fmt.Errorf(format, args...)}
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Classify maps an error to the status and code sent to clients.
func Classify(err error) (int, string) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Status, appErr.Code
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrCircularMove):
		return http.StatusConflict, "circular_move"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrInvalidDocument):
		return http.StatusUnprocessableEntity, "invalid_document"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
