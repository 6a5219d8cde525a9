// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// ErrEmptyInput is returned when a message is empty or whitespace-only.
	// It is the only classification-path error surfaced to callers.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotFound is returned when a record lookup matches nothing.
	ErrNotFound = errors.New("not found")
)
