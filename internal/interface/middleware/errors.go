package middleware

import (
	"errors"
	"net/http"

	"github.com/noxven/gestion-ie/internal/application"
)

const internalErrorMessage = "internal server error"

// ErrorStatus maps application errors onto an HTTP status and the message
// safe to show the client. Unknown errors become a generic 500.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrDuplicateEmail):
		return http.StatusBadRequest, application.ErrDuplicateEmail.Error()
	case errors.Is(err, application.ErrUnauthenticated):
		return http.StatusUnauthorized, application.ErrUnauthenticated.Error()
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, application.ErrInvalidCredentials.Error()
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, application.ErrIdentityNotFound):
		return http.StatusNotFound, application.ErrIdentityNotFound.Error()
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}
