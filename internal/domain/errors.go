package domain

import "errors"

// ErrNotFound is returned by lookups for an id that has never been synced.
var ErrNotFound = errors.New("not found")
