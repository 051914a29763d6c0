package modelconfig

import "fmt"

// ValidationError reports a create request that violates a field
// constraint. The store does not insert a row when validation fails.
type ValidationError struct {
	// Field is the name of the invalid field.
	Field string

	// Message describes what is invalid about the field.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// NotFoundError reports a publish target id that does not exist.
// No activation flag changes when this is returned.
type NotFoundError struct {
	ID int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration version %d not found", e.ID)
}

// StorageError wraps a failure from the storage backend.
type StorageError struct {
	Backend   string // backend type ("sqlite", "memory")
	Operation string // operation that failed ("create", "publish", ...)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
