package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPersistence           = errors.New("persistence failed")
	ErrRefreshInProgress     = errors.New("pool refresh already in progress")
)

// CommandError is a recoverable rejection of a draft command. Message is meant for
// the operator; errors.Is matches both the usecase kind and the domain cause.
type CommandError struct {
	Kind    error
	Cause   error
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

func reject(kind, cause error, format string, args ...any) *CommandError {
	return &CommandError{Kind: kind, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// PersistenceWarning reports that a command was applied in memory but could not be
// saved. The in-memory state stays authoritative.
type PersistenceWarning struct {
	Op  string
	Err error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("%s applied but not persisted: %v", w.Op, w.Err)
}

func (w *PersistenceWarning) Unwrap() []error {
	return []error{ErrPersistence, w.Err}
}

// IsWarning reports whether err only signals a persistence failure after success.
func IsWarning(err error) bool {
	var w *PersistenceWarning
	return errors.As(err, &w)
}
