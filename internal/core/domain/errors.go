package domain

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownSentiment   = errors.New("unknown sentiment")
	ErrNoSession          = errors.New("no active session")
)
