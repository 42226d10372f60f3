package domain

import "errors"

// Common errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidToken   = errors.New("invalid identity token")
	ErrInvalidSession = errors.New("invalid session cookie")
	ErrSSOUnavailable = errors.New("single sign-on is not configured")
)
