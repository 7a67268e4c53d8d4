package model

import "errors"

var (
	// ErrIdentityNotFound is returned when the subject identity does not exist.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrFlagNotFound is returned when a flag id does not resolve to a stored flag.
	ErrFlagNotFound = errors.New("flag not found")

	// ErrInvalidInput marks a request rejected by domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence wraps a failed write of a computed trust score. The score
	// returned alongside it is still valid.
	ErrPersistence = errors.New("trust score persistence failed")
)
