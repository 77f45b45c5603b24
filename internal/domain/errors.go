package domain

import "errors"

var (
	// ErrSessionNotFound is returned by stores when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrVersionConflict is returned by stores when a session changed since it
	// was read.
	ErrVersionConflict = errors.New("session version conflict")
)
