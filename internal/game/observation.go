package game

import "github.com/lox/holdem-env/internal/deck"

// Observation is a snapshot of the table handed to agents after each action.
// It shares no memory with the table.
type Observation struct {
	HandID        string
	Button        int
	Blinds        Blinds
	Street        Street
	Board         []deck.Card
	TotalPot      int
	RoundPots     []int
	Stacks        []int
	LastActions   []*Action
	PlayersInHand int
	StackCap      int

	// Actor is the seat to act next, -1 once the hand is done
	Actor int
	// ActorHand holds the hole cards of Actor only. Every agent that sees the
	// observation sees them, so hosts must route it to the actor alone.
	ActorHand []deck.Card
	ToCall    int
	MinRaise  int

	Done    bool
	Winners []int
	// Rewards is each seat's net chips so far; final once Done
	Rewards []float64
	// Shown holds the hole cards revealed at a contested showdown
	Shown map[int][]deck.Card
}

// Observe snapshots the current table state
func (t *Table) Observe() *Observation {
	n := len(t.seats)
	obs := &Observation{
		HandID:        t.handID,
		Button:        t.button,
		Blinds:        t.cfg.Blinds,
		Street:        t.street,
		Board:         cloneCards(t.board),
		TotalPot:      t.totalPot,
		RoundPots:     make([]int, n),
		Stacks:        make([]int, n),
		LastActions:   make([]*Action, n),
		PlayersInHand: t.playersInHand,
		StackCap:      t.cfg.StackCap,
		Actor:         t.actor,
		MinRaise:      t.bet.minRaiseSize(),
		Done:          t.done,
		Rewards:       t.Rewards(),
	}
	for i, p := range t.seats {
		obs.RoundPots[i] = p.Pot
		obs.Stacks[i] = p.Stack
		if p.LastAction != nil {
			a := *p.LastAction
			obs.LastActions[i] = &a
		}
	}
	if t.actor >= 0 && !t.done {
		p := t.seats[t.actor]
		obs.ActorHand = cloneCards(p.Hand)
		obs.ToCall = t.bet.toCall(p)
	}
	if t.result != nil {
		obs.Winners = append([]int(nil), t.result.Winners...)
		if !t.result.Uncontested() {
			obs.Shown = make(map[int][]deck.Card, len(t.result.Hands))
			for seat, hole := range t.result.Hands {
				obs.Shown[seat] = cloneCards(hole)
			}
		}
	}
	return obs
}

// CanCall reports whether the actor's stack covers the amount to call
func (o *Observation) CanCall() bool {
	return o.Actor >= 0 && o.ToCall <= o.Stacks[o.Actor]
}
