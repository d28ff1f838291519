package service

import "errors"

var (
	// ErrNotAuthenticated is returned by operations that require a
	// signed-in actor.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoProposedChanges is returned when a customer responds to
	// modifications that do not exist.
	ErrNoProposedChanges = errors.New("booking has no proposed changes")
)
