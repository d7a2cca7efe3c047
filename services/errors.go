// services/errors.go - Typed lifecycle errors
//
// Every failure out of the match lifecycle carries a stable kind so
// handlers can map it to an HTTP status without string matching.
package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the lifecycle services.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrFull                = errors.New("match is full")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrInvalidState        = errors.New("invalid state for operation")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// fail wraps a kind with a human-readable message. The kind stays
// matchable with errors.Is.
func fail(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{kind}, args...)...)
}

// storeErr classifies a persistence failure. Record-not-found is the
// caller's NotFound; anything else is a transient store problem.
func storeErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || isRecordNotFound(err) {
		return notFound
	}
	return fail(ErrStoreUnavailable, "%v", err)
}
