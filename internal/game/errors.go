package game

import "errors"

var (
	// ErrOutOfTurn is returned when a seat other than the current actor submits an action
	ErrOutOfTurn = errors.New("action out of turn")

	// ErrHandComplete is returned when acting on a finished hand
	ErrHandComplete = errors.New("hand is complete")

	// ErrHandNotStarted is returned when acting before the first Reset
	ErrHandNotStarted = errors.New("hand not started")

	// ErrInsufficientStack is returned for a Call the stack cannot cover.
	// Table rules guarantee this never happens with equal stacks; there is no side pot fallback.
	ErrInsufficientStack = errors.New("stack cannot cover call")

	// ErrInvalidAction is returned for actions callers may not submit (Check, AllIn)
	ErrInvalidAction = errors.New("invalid action")

	// ErrDealer wraps dealer failures such as deck exhaustion
	ErrDealer = errors.New("dealer failure")

	// ErrOracle wraps hand scoring failures
	ErrOracle = errors.New("oracle failure")

	// ErrUnknownBlinds is returned for blind tiers that are not recognized
	ErrUnknownBlinds = errors.New("unknown blind tier")
)
