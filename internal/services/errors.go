package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStore is matched by every StoreError.
	ErrStore = errors.New("store failure")
	// ErrEmptyTaskIDs is returned when a bulk request names no tasks.
	ErrEmptyTaskIDs = invalidInput("taskIds must contain at least one task id")
)

// InvalidInputError describes a caller mistake. Valid lists the accepted
// alternatives when the mistake was an unknown enum value.
type InvalidInputError struct {
	Message string
	Valid   []string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidInput) match any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

func invalidChoice[E ~string](field string, got E, valid []E) *InvalidInputError {
	choices := make([]string, len(valid))
	for i, v := range valid {
		choices[i] = string(v)
	}
	return &InvalidInputError{
		Message: fmt.Sprintf("invalid %s %q", field, got),
		Valid:   choices,
	}
}

// StoreError wraps a failure of the entity store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStore) match any StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
