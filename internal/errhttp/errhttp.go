// Package errhttp maps domain sentinel errors to HTTP status codes and
// machine-readable codes. Both the HTML and the JSON surface use it.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/erazemk/portfolio/internal/auth"
	"github.com/erazemk/portfolio/internal/model"
)

// Error codes.
const (
	CodeInvalidInput       = "invalid_input"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeTooLarge           = "request_too_large"
	CodeNotificationFailed = "notification_failed"
	CodeInternal           = "internal"
)

// Classify returns the status, code and user-facing message for err.
// Internal errors get a generic message so details stay in the logs.
// Uses errors.Is so wrapped sentinel errors are matched correctly.
func Classify(err error) (status int, code, message string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest, CodeInvalidInput, err.Error()
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrIncorrectPassword),
		errors.Is(err, auth.ErrAdminLoginFailed),
		errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized, err.Error()
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, CodeForbidden, err.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, CodeConflict, err.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, CodeTooLarge, "request body too large"
	case errors.Is(err, auth.ErrNotificationFailed):
		return http.StatusBadGateway, CodeNotificationFailed, auth.ErrNotificationFailed.Error()
	default:
		return http.StatusInternalServerError, CodeInternal, "internal server error"
	}
}
