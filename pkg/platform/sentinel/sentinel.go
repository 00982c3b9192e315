package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and brokers return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a record with the same id already exists
//   - ErrClosed: the resource was closed while a caller still held it
//
// For validation errors use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrClosed   = errors.New("closed")
)
