package common

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned by single-order lookups. List queries
	// return an empty slice instead.
	ErrOrderNotFound = errors.New("order not found")

	// ErrSessionClosed is returned when a query is issued through a session
	// whose scope has already ended.
	ErrSessionClosed = errors.New("session closed")

	// ErrChunking is returned when an IN-clause batch cannot be split within
	// the configured limits.
	ErrChunking = errors.New("order item batch chunking failed")

	// ErrInvalidPagination is returned for a malformed offset/limit or for a
	// page requested from a strategy that cannot paginate.
	ErrInvalidPagination = errors.New("invalid pagination request")

	ErrInvalidCriteria = errors.New("invalid order search criteria")

	// ErrQueryFailed matches every *QueryError.
	ErrQueryFailed = errors.New("query execution failed")
)

// QueryError carries the underlying store failure of a loader call.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrQueryFailed, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// WrapQueryError wraps err as a *QueryError unless it is nil or already one
// of the taxonomy sentinels.
func WrapQueryError(op string, err error) error {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) || errors.Is(err, ErrSessionClosed) || errors.Is(err, ErrChunking) ||
		errors.Is(err, ErrInvalidPagination) || errors.Is(err, ErrOrderNotFound) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}

// ValidatePage checks an offset/limit pair.
func ValidatePage(offset, limit int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidPagination, offset)
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be > 0, got %d", ErrInvalidPagination, limit)
	}
	return nil
}
