package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidInput indicates a request failed validation before any
	// external call was made
	ErrInvalidInput = errors.New("invalid input")

	// ErrProductNotFound indicates a product was not found
	ErrProductNotFound = errors.New("product not found")

	// ErrAssetNotFound indicates a product has no downloadable asset, or
	// a referenced asset key does not resolve to stored bytes
	ErrAssetNotFound = errors.New("asset not found")

	// ErrObjectNotFound indicates an object was not found in storage
	ErrObjectNotFound = errors.New("object not found")

	// ErrLinkExpired indicates a pre-authorized link was used after its
	// expiry window elapsed
	ErrLinkExpired = errors.New("link expired")
)

// ValidationError reports a single invalid request field. It unwraps to
// ErrInvalidInput so callers can match on the failure class.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// StorageError represents a failed object store operation
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RepositoryError represents a failed catalog store operation
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("catalog operation %s failed: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
