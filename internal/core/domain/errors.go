package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrWrongPassword   = errors.New("wrong password")
	ErrProtectedAdmin  = errors.New("protected admin account cannot be deleted")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("access forbidden")
)
