package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmptyContent       = fmt.Errorf("%w: task content cannot be empty", ErrValidation)
	ErrInvalidID          = fmt.Errorf("%w: invalid unique id", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrIdentifierConflict = errors.New("unique id already in use")
	ErrUnknownIdentifier  = errors.New("unknown unique id")
	ErrNotFound           = errors.New("task not found")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrNoChoice           = errors.New("no task chosen")
	ErrConfigExists       = errors.New("config file already exists")
	ErrUnsupportedFormat  = errors.New("unsupported task file format")
	ErrRemoteDisabled     = errors.New("remote sync is not enabled")
	ErrHistoryDisabled    = errors.New("history is not enabled")
	ErrNoTaskFile         = errors.New("task file does not exist")
	ErrNothingToChange    = fmt.Errorf("%w: nothing to change", ErrValidation)
	ErrMissingTarget      = fmt.Errorf("%w: command needs a #task target", ErrValidation)
	ErrLocked             = errors.New("task file is locked by another process")
	ErrInvalidPolicy      = errors.New("invalid delete policy")
)

// IdentifierConflictError is returned when a unique id is already bound to another task.
type IdentifierConflictError struct {
	ID           string // The requested id
	ExistingPath string // Path of the task that already holds the id
}

func (e *IdentifierConflictError) Error() string {
	return fmt.Sprintf("unique id %q already in use by %q", e.ID, e.ExistingPath)
}

// Unwrap allows errors.Is(err, ErrIdentifierConflict).
func (e *IdentifierConflictError) Unwrap() error {
	return ErrIdentifierConflict
}

// UnknownIdentifierError is returned when an id-anchored address names no task.
type UnknownIdentifierError struct {
	ID string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown unique id %q", e.ID)
}

// Unwrap allows errors.Is(err, ErrUnknownIdentifier).
func (e *UnknownIdentifierError) Unwrap() error {
	return ErrUnknownIdentifier
}

// UnknownCommandError is returned when a command token matches no alias.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Command)
}

// Unwrap allows errors.Is(err, ErrUnknownCommand).
func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// NotFoundError carries the address that could not be resolved.
type NotFoundError struct {
	Address string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task matches %q", e.Address)
}

// Unwrap allows errors.Is(err, ErrNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
