package store

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when an admin insert loses the
	// uniqueness race on username. The UNIQUE constraint is the enforcement
	// mechanism; this error is the application-level translation.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrLastSuperAdmin is returned when a delete would remove the only
	// remaining super-admin and lock out all elevated access.
	ErrLastSuperAdmin = errors.New("cannot remove the last super-admin")
)
