package core

import "errors"

// Sentinel errors of the policy layer. The API layer maps them to
// status codes; services never touch HTTP.
var (
	// ErrForbidden: the verified identity is neither the target owner
	// nor an admin.
	ErrForbidden = errors.New("forbidden access")
	// ErrUserExists: idempotent registration hit an existing email.
	ErrUserExists = errors.New("user exists")
	// ErrAlreadyApplied: a (tutor, student, subject) application
	// already exists.
	ErrAlreadyApplied = errors.New("already applied")
	// ErrInvalidInput: a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition: the requested status move is not in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
)
