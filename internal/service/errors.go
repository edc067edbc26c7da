// Package service holds the business logic of the camp backend: the
// registration ledger, the camp participant counter, the payment intent
// bridge and the thin CRUD services for camps, users and feedback.
//
// Every error returned from this package wraps exactly one of the sentinel
// values below so that the HTTP layer can classify it with errors.Is.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/camp-registration/internal/repository"
)

var (
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input is malformed or incomplete.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means the operation clashes with existing state.
	ErrConflict = errors.New("conflict")
	// ErrStore means the underlying persistence layer failed.
	ErrStore = errors.New("store error")
	// ErrProcessor means the payment processor call failed.
	ErrProcessor = errors.New("payment processor error")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// storeErr classifies a repository error.  what names the record for the
// not-found message; op names the failed operation for store errors.
func storeErr(err error, what, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s not found", what)
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
