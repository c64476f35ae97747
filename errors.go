package probemap

import "github.com/pkg/errors"

var (
	// ErrInvalidKey is returned by writes with an absent-equivalent key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrTableFull means a probe sequence visited every slot without landing.
	// The load factor cap makes this unreachable, seeing it is a bug.
	ErrTableFull = errors.New("table is full")
)
