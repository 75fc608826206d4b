package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Draft errors
	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftExpired  = errors.New("draft expired")

	// Property errors
	ErrPropertyNotFound = errors.New("property not found")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserNotFound = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
