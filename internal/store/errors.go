package store

import "errors"

// Sentinel errors returned by Store implementations. The HTTP boundary maps
// each one to a stable machine-readable code instead of collapsing them into
// a generic failure.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateName    = errors.New("name already taken")
	ErrNoOccupancy      = errors.New("no occupancy record for restaurant")
	ErrCapacityExceeded = errors.New("restaurant is at capacity")
	ErrAlreadyHandled   = errors.New("approval request already handled")
)
