package repository

import (
	"errors"
	"fmt"
)

// FetchError wraps a transport or auth failure while reading the snapshot.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch transactions: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// WriteError wraps a store rejection of a create or update.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("%s transaction: %v", e.Op, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// NotFoundError reports that the target id no longer exists server-side,
// for example when another session deleted it concurrently.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("transaction %s no longer exists", e.ID) }

// IsNotFound reports whether err is a vanished-id failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
