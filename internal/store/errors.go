package store

import (
	"errors"
)

// ErrLockBusy is returned by a single lock attempt while another process
// holds the task file lock. Lock retries it until its deadline.
var ErrLockBusy = errors.New("task file is locked by another process")

// ErrUnknownBackend is returned by Open for an unrecognized backend kind.
var ErrUnknownBackend = errors.New("unknown storage backend")
