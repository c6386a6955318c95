package store

import "errors"

var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePhone indicates a phone number is already registered.
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrValidation indicates a write was attempted with missing required fields.
	ErrValidation = errors.New("invalid input")
)
