package hmtmodels

import "errors"

// Sentinel errors surfaced by repositories and the query service.
// Callers match them with errors.Is.
var (
	// ErrNotFound indicates an unknown device id. A client error, never fatal.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates the durable medium is unreachable or
	// rejected the operation. Transient; the scheduler logs it and continues.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidArgument indicates a non-positive window or limit parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)
