package storage

import "errors"

var (
	// ErrNotFound is returned by update/delete calls that reference an id
	// no record carries.
	ErrNotFound = errors.New("record not found")

	// ErrCorrupted means a local collection file is unreadable even after
	// attempting restoration from the latest backup. Operations on that
	// entity fail until an operator intervenes.
	ErrCorrupted = errors.New("storage corrupted")

	// ErrUnavailable means the remote store could not be reached or timed
	// out. The whole operation may be retried by the caller.
	ErrUnavailable = errors.New("storage unavailable")
)
