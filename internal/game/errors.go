package game

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain core. Callers match them with errors.Is;
// aggregates wrap them with additional context via fmt.Errorf("%w: ...").
var (
	// ErrInvalidCardKind indicates an operation was invoked with a card of the
	// wrong kind (e.g. activating insurance with a life card).
	ErrInvalidCardKind = errors.New("invalid card kind")

	// ErrInvalidStateTransition indicates an aggregate operation was invoked
	// outside its legal state.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidArgument indicates a malformed argument such as a negative
	// damage amount or an out-of-range card field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoActiveChallenge indicates card selection or resolution was requested
	// while no challenge is in progress.
	ErrNoActiveChallenge = errors.New("no active challenge")
)

// Derived conditions. Both are state-transition violations, so errors.Is
// matches them against ErrInvalidStateTransition as well.
var (
	ErrChallengeResolved   = fmt.Errorf("%w: challenge already resolved", ErrInvalidStateTransition)
	ErrChallengeInProgress = fmt.Errorf("%w: challenge already in progress", ErrInvalidStateTransition)
)
