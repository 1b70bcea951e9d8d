package application

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrSessionBackend     = errors.New("session backend failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func notFoundErr(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// forbiddenErr names every role that would have been accepted.
func forbiddenErr(required []string) error {
	return fmt.Errorf("%w: requires one of roles: %s", ErrForbidden, strings.Join(required, ", "))
}
