package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a record with the same unique key
// already exists.
var ErrAlreadyExists = errors.New("already exists")

// ErrBuildInProgress is returned by the lock store when a user already
// holds an active build lock.
var ErrBuildInProgress = errors.New("build already in progress")

// ErrInvalidTransition is returned when a session status change is not a
// legal forward transition.
var ErrInvalidTransition = errors.New("invalid status transition")
