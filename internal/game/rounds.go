package game

import "fmt"

// findNextActor scans the seats after from, wrapping round to from itself,
// for one that can still act. fastForward is set when no further betting is
// possible: one player remains, or nobody left can act.
func (t *Table) findNextActor(from int) (seat int, fastForward bool) {
	if t.playersInHand == 1 {
		return -1, true
	}
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		s := (from + i) % n
		if !t.seats[s].ShouldPass() {
			return s, false
		}
	}
	return -1, true
}

// advance decides what follows an action by seat: the next actor, the next
// round, or a run out to showdown.
func (t *Table) advance(seat int) error {
	next, fastForward := t.findNextActor(seat)
	switch {
	case fastForward:
		return t.runOut()
	case t.seats[next].Acted:
		return t.nextRound()
	default:
		t.actor = next
		return nil
	}
}

// runOut deals the remaining streets without betting and settles the hand
func (t *Table) runOut() error {
	t.logger.Debug("Running out the board", "hand", t.handID, "street", t.street, "in_hand", t.playersInHand)
	for !t.done {
		if err := t.nextRound(); err != nil {
			return err
		}
	}
	return nil
}

// nextRound closes the current betting round and opens the next one, or
// settles the hand after the river.
func (t *Table) nextRound() error {
	t.street++
	t.bet.highWater = 0
	t.bet.minRaise = 0
	for _, p := range t.seats {
		p.resetRound()
	}

	if t.street == Showdown {
		t.actor = -1
		return t.showdown()
	}

	dealt, err := t.dealer.Draw(t.street.boardCards())
	if err != nil {
		return fmt.Errorf("dealing %s: %w: %w", t.street, ErrDealer, err)
	}
	t.board = append(t.board, dealt...)

	next, _ := t.findNextActor(t.button)
	t.actor = next

	t.logger.Info("Street dealt", "hand", t.handID, "street", t.street, "board", t.board)
	t.publish(StreetChangeEvent{
		HandID:    t.handID,
		Street:    t.street,
		Dealt:     cloneCards(dealt),
		Board:     cloneCards(t.board),
		timestamp: t.clock.Now(),
	})
	return nil
}
