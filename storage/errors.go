package storage

import "errors"

// ErrDuplicateKey is returned by Insert when the key already exists in
// the table.
var ErrDuplicateKey = errors.New("storage: duplicate key")

// ErrKeyNotFound is returned by Delete when the key does not exist in
// the table.
var ErrKeyNotFound = errors.New("storage: key not found")

// ErrCorrupt indicates the on-disk page layout violates an invariant
// this package relies on (a bad node type tag, or an empty leaf where
// a max key is needed).
var ErrCorrupt = errors.New("storage: corrupt page")
