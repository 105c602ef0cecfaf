package game

import "fmt"

// StepResult is what the table returns for one submitted action
type StepResult struct {
	// Observation is nil when the action was bypassed
	Observation *Observation
	// Rewards holds each seat's net chips; nil when bypassed
	Rewards []float64
	Done    bool
	// SkipRender is set when nothing changed and there is nothing to draw
	SkipRender bool
}

// Step applies one action for seat, which must be the current actor, and
// runs any round advancement or showdown it triggers.
func (t *Table) Step(seat int, intended Action) (StepResult, error) {
	switch {
	case t.err != nil:
		return StepResult{}, t.err
	case !t.started:
		return StepResult{}, ErrHandNotStarted
	case t.done:
		return StepResult{}, fmt.Errorf("hand %s: %w", t.handID, ErrHandComplete)
	case seat != t.actor:
		return StepResult{}, fmt.Errorf("seat %d acted while waiting on seat %d: %w", seat, t.actor, ErrOutOfTurn)
	}

	p := t.seats[seat]

	// Inactive seats keep their slot in the rotation; pass over them untouched.
	// findNextActor never lands here, so only state set up by a host or a
	// test reaches this branch.
	if p.ShouldPass() {
		t.actor = (seat + 1) % len(t.seats)
		return StepResult{SkipRender: true}, nil
	}

	recorded, err := resolveAction(intended, p, t.bet)
	if err != nil {
		return StepResult{}, err
	}
	t.apply(p, recorded)

	t.logger.Debug("Action applied",
		"hand", t.handID,
		"seat", seat,
		"street", t.street,
		"intended", intended,
		"recorded", recorded,
		"stack", p.Stack,
		"pot", t.totalPot)
	t.publish(PlayerActionEvent{
		HandID:    t.handID,
		Seat:      seat,
		Street:    t.street,
		Intended:  intended,
		Recorded:  recorded,
		Stack:     p.Stack,
		RoundPot:  p.Pot,
		TotalPot:  t.totalPot,
		timestamp: t.clock.Now(),
	})

	if err := t.advance(seat); err != nil {
		return StepResult{}, t.fail(err)
	}

	return StepResult{
		Observation: t.Observe(),
		Rewards:     t.Rewards(),
		Done:        t.done,
	}, nil
}

// apply mutates the table for a resolved action
func (t *Table) apply(p *Player, a Action) {
	switch a.Kind {
	case Fold:
		p.Folded = true
		p.Acted = true
		t.playersInHand--

	case Check:
		p.Acted = true

	case Call:
		p.Acted = true
		p.bet(a.Amount)
		if p.Stack == 0 {
			p.AllIn = true
		}

	case AllIn:
		t.bet.minRaise = a.Amount
		p.bet(a.Amount)
		p.AllIn = true
		t.reopen(p)

	case Raise:
		p.bet(a.Amount)
		t.bet.minRaise = a.Amount
		t.reopen(p)
	}

	recorded := a
	p.LastAction = &recorded
	t.bet.highWater = max(t.bet.highWater, p.Pot)
	t.updateTotals()
}

// reopen makes every other seat respond to a raise
func (t *Table) reopen(raiser *Player) {
	for _, p := range t.seats {
		p.Acted = false
	}
	raiser.Acted = true
}
