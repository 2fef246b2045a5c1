package repo

import "errors"

// ErrNotFound is returned when no row matches the (id, owner) pair or the lookup key.
var ErrNotFound = errors.New("record not found")
