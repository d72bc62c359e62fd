package models

import "errors"

// Sentinel errors surfaced across layer boundaries. Handlers translate them
// to HTTP statuses; everything else is wrapped with fmt.Errorf("...: %w").
var (
	// ErrNotFound marks operations against an unknown record id.
	ErrNotFound = errors.New("record not found")

	// ErrNotActive marks journey mutations rejected because the journey
	// already reached a terminal status.
	ErrNotActive = errors.New("journey is not active")

	// ErrValidation marks requests rejected before any persistence.
	ErrValidation = errors.New("validation failed")
)
