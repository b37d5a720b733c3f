package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents missing or malformed arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a referenced entity that does not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypePersistence represents backing-file or storage failures
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConflict is reserved for future optimistic-concurrency use
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeTool represents tool dispatch errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrValidation is returned when an argument is missing or malformed
type ErrValidation struct {
	*BaseError
	Field string
}

func NewValidation(field, reason string) *ErrValidation {
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
	}
}

// Not-Found Errors

// ErrEntityNotFound is returned when an operation requires an entity that does not exist
type ErrEntityNotFound struct {
	*BaseError
	UserID string
	Name   string
}

func NewEntityNotFound(userID, name string) *ErrEntityNotFound {
	return &ErrEntityNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("entity not found: %s", name), nil),
		UserID:    userID,
		Name:      name,
	}
}

// Persistence Errors

// ErrSnapshotLoad is returned when the backing file cannot be read or parsed
type ErrSnapshotLoad struct {
	*BaseError
	Path string
}

func NewSnapshotLoad(path string, err error) *ErrSnapshotLoad {
	return &ErrSnapshotLoad{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("failed to load snapshot: %s", path), err),
		Path:      path,
	}
}

// ErrSnapshotSave is returned when the backing file cannot be written
type ErrSnapshotSave struct {
	*BaseError
	Path string
}

func NewSnapshotSave(path string, err error) *ErrSnapshotSave {
	return &ErrSnapshotSave{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("failed to save snapshot: %s", path), err),
		Path:      path,
	}
}

// ErrLockTimeout is returned when the backing file lock cannot be acquired in time
type ErrLockTimeout struct {
	*BaseError
	Path    string
	Timeout time.Duration
}

func NewLockTimeout(path string, timeout time.Duration) *ErrLockTimeout {
	return &ErrLockTimeout{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("lock acquisition timed out after %v: %s", timeout, path), nil),
		Path:      path,
		Timeout:   timeout,
	}
}

// ErrStoreUnavailable is returned when the storage backend cannot be reached
type ErrStoreUnavailable struct {
	*BaseError
	Backend string
}

func NewStoreUnavailable(backend string, err error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("storage backend unavailable: %s", backend), err),
		Backend:   backend,
	}
}

// Tool Errors

// ErrToolNotFound is returned when a requested tool is not found
type ErrToolNotFound struct {
	*BaseError
	ToolName string
}

func NewToolNotFound(toolName string) *ErrToolNotFound {
	return &ErrToolNotFound{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("unknown tool: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Kind returns the error category. Promoted through embedding so every
// typed error in this package answers it.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// Helper functions

// TypeOf returns the category of a typed error, or the empty string for
// errors that did not originate in this package.
func TypeOf(err error) ErrorType {
	if kinded, ok := err.(interface{ Kind() ErrorType }); ok {
		return kinded.Kind()
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return TypeOf(inner)
		}
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if kinded, ok := err.(interface{ Kind() ErrorType }); ok {
		return kinded.Kind() == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
