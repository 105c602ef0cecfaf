package game

import "github.com/lox/holdem-env/internal/deck"

// Player is the per-seat state of a hand. Seats keep their Player across
// hands so ID stays stable for agents tracking opponents.
type Player struct {
	ID        int
	Stack     int
	Pot       int // chips put in this round
	Committed int // chips put in this hand
	Folded    bool
	AllIn     bool
	Acted     bool // has acted since the round began or the last raise
	Hand      []deck.Card

	LastAction *Action
}

func (p *Player) reset(stack int) {
	p.Stack = stack
	p.Pot = 0
	p.Committed = 0
	p.Folded = false
	p.AllIn = false
	p.Acted = false
	p.Hand = nil
	p.LastAction = nil
}

func (p *Player) resetRound() {
	p.Pot = 0
	p.Acted = false
}

// ShouldPass reports whether the seat is skipped in the rotation
func (p *Player) ShouldPass() bool {
	return p.Folded || p.AllIn
}

// bet moves chips from stack to the round pot
func (p *Player) bet(chips int) {
	p.Stack -= chips
	p.Pot += chips
	p.Committed += chips
}
