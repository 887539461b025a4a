package repository

import "errors"

// ErrNotFound is returned by lookups when no row matches. Implementations
// wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")
