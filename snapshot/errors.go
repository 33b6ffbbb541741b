package snapshot

import "errors"

var (
	ErrNotFound    = errors.New("snapshot: not found")
	ErrInvalidCID  = errors.New("snapshot: invalid cid")
	ErrCIDMismatch = errors.New("snapshot: cid mismatch")
	ErrImmutable   = errors.New("snapshot: immutable object mismatch")
	ErrNoBackends  = errors.New("snapshot: no backends configured")
	ErrReadOnly    = errors.New("snapshot: store is read-only")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
