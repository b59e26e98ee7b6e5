package state

import "errors"

// Failure modes of the World State (spec.md §4.1).
var (
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	ErrSnapshotNotFound    = errors.New("state: snapshot not found")
)
