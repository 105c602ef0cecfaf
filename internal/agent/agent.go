// Package agent provides reference players that drive a table from its
// observations.
package agent

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/holdem-env/internal/game"
)

// Agent chooses an action for the seat named in the observation
type Agent interface {
	Act(obs *game.Observation) game.Action
}

// Func adapts a function to Agent
type Func func(obs *game.Observation) game.Action

func (f Func) Act(obs *game.Observation) game.Action { return f(obs) }

var names = []string{"random", "call", "aggressive"}

// Names lists the agents New can build
func Names() []string {
	return slices.Clone(names)
}

// New creates an agent by name. rng is only used by agents that need it.
func New(name string, rng *rand.Rand) (Agent, error) {
	switch name {
	case "random":
		return NewRandom(rng), nil
	case "call":
		return CallingStation{}, nil
	case "aggressive":
		return Aggressive{}, nil
	}
	return nil, fmt.Errorf("unknown agent %q (want one of %v)", name, names)
}

// Random samples the action space uniformly: fold, call or raise a random
// amount below the stack cap. Most sampled raises are small enough to be
// recorded as folds, which is how untrained policies behave.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random agent
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		panic("agent: NewRandom requires a non-nil rng")
	}
	return &Random{rng: rng}
}

func (r *Random) Act(obs *game.Observation) game.Action {
	switch r.rng.IntN(3) {
	case 0:
		return game.FoldAction()
	case 1:
		// a call the stack cannot cover would be rejected by the table
		if !obs.CanCall() {
			return game.FoldAction()
		}
		return game.CallAction()
	default:
		return game.RaiseAction(r.rng.IntN(obs.StackCap))
	}
}

// CallingStation calls every bet it can cover
type CallingStation struct{}

func (CallingStation) Act(obs *game.Observation) game.Action {
	if !obs.CanCall() {
		return game.FoldAction()
	}
	return game.CallAction()
}

// Aggressive makes the minimum raise, scaled by RaiseFactor, whenever it can
// afford to, and calls otherwise.
type Aggressive struct {
	RaiseFactor int
}

func (a Aggressive) Act(obs *game.Observation) game.Action {
	factor := max(a.RaiseFactor, 1)
	amount := obs.MinRaise * factor
	if obs.Actor >= 0 && amount < obs.Stacks[obs.Actor] {
		return game.RaiseAction(amount)
	}
	if !obs.CanCall() {
		return game.FoldAction()
	}
	return game.CallAction()
}
