package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLinkFormat is returned when a link matches neither the
	// commit-query shape nor the pull-request shape.
	ErrInvalidLinkFormat = errors.New("invalid link format")

	// ErrUnresolvableUser is reported when a pull-request link carries no
	// author qualifier and the author could not be looked up.
	ErrUnresolvableUser = errors.New("unable to determine user for link")
)

// FetchError wraps any failure of the external paged-data source.
type FetchError struct {
	Op   string
	Repo string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Repo == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError for the given operation and repository.
func NewFetchError(op, repo string, err error) error {
	return &FetchError{Op: op, Repo: repo, Err: err}
}
