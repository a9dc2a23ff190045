package store

import "errors"

var (
	// ErrConflict is returned when a commit-time re-check finds the
	// technician already booked for the slot.
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)
