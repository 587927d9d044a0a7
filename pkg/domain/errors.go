package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrTapeNotFound is returned when an archived history tape does not exist.
var ErrTapeNotFound = errors.New("tape not found")

// ErrEvaluation is the single evaluation failure kind.
// It never leaves the engine: operations convert it to the ErrorMarker buffer.
var ErrEvaluation = errors.New("evaluation failed")

// ErrUnknownCommand is returned when a command name is not part of the vocabulary.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError carries the rejected command name.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}
