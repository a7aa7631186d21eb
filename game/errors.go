package game

import "errors"

// Sentinel errors. Callers match them with errors.Is; the wrapped message
// carries the detail.
var (
	ErrInvalidDelta      = errors.New("invalid delta")
	ErrInvalidState      = errors.New("invalid state")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrSnapshotVersion   = errors.New("unsupported snapshot version")
)
