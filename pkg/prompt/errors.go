package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoLanguages is returned when the catalog has nothing to offer for the
	// selected protocol.
	ErrNoLanguages = errors.New("prompt: no languages available")
)
