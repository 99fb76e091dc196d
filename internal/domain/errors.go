package domain

import "errors"

var (
	// ErrResponderUnavailable wraps any responder timeout or failure.
	// The call service recovers from it with a stage fallback.
	ErrResponderUnavailable = errors.New("responder unavailable")

	// ErrEmptyInput is reported when the caller said nothing usable.
	ErrEmptyInput = errors.New("empty input")

	ErrSessionNotFound = errors.New("session not found")
)
