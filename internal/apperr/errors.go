package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConnectionError means the database could not be reached or rejected the credentials.
// It is the only failure that aborts a run.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func NewConnection(target string, err error) *ConnectionError {
	return &ConnectionError{Target: target, Err: err}
}

// ExecutionError is a single scenario failing for a single variant.
type ExecutionError struct {
	Scenario string
	Variant  string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("scenario %q on %s: %v", e.Scenario, e.Variant, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewExecution(scenario, variant string, err error) *ExecutionError {
	return &ExecutionError{Scenario: scenario, Variant: variant, Err: err}
}

// PersistenceError is a failure writing a run artifact.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(path string, err error) *PersistenceError {
	return &PersistenceError{Path: path, Err: err}
}
