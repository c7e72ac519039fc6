package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrMalformedInput        = errors.New("malformed input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
