package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrLotNotFound is returned when a lot is not found
	ErrLotNotFound = errors.New("lot not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrQuoteNotFound is returned when a quote is not found
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSequenceExhausted is returned when the quote number sequence has
	// reached its maximum value. This is an operational limit, not a user
	// input error.
	ErrSequenceExhausted = errors.New("quote number sequence exceeded maximum value")

	// ErrInvalidStatusTransition is returned when a quote lifecycle move is
	// not allowed from the quote's current status
	ErrInvalidStatusTransition = errors.New("invalid quote status transition")
)
