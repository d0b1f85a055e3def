// Package pokererr defines the error taxonomy shared by every layer of the
// engine, so callers can type-switch on one set of sentinels regardless of
// which package raised them.
package pokererr

import "errors"

var (
	// ErrIllegalAction means an action isn't in the legal set, or its amount
	// is out of range (e.g. a sub-minimum raise). Caller-recoverable.
	ErrIllegalAction = errors.New("illegal action")

	// ErrUnknownPlayer means a player id isn't part of the current hand.
	// Caller-recoverable.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrHandEnded means an operation was attempted after showdown or a
	// win-by-fold. Caller-recoverable.
	ErrHandEnded = errors.New("hand has ended")

	// ErrInvalidState means the request itself is inconsistent (duplicate
	// cards, negative stack, conflicting ranges). Fatal for the request;
	// never mutates state.
	ErrInvalidState = errors.New("invalid state")

	// ErrTimeout means a solver's deadline expired before it converged.
	// The caller still receives the best strategy found so far.
	ErrTimeout = errors.New("solver deadline exceeded")
)
