package exthash

import "github.com/cockroachdb/errors"

var (
	// ErrHashFuncLocked is returned when a hash function is installed on a
	// table whose directory has already been allocated.
	ErrHashFuncLocked = errors.New("exthash: hash function must be set before the first insert")

	// ErrCorrupted marks every error reported by Table.Check.
	ErrCorrupted = errors.New("exthash: table invariant violated")

	// ErrUnknownHash is returned by HashByName.
	ErrUnknownHash = errors.New("exthash: unknown hash function")
)
