package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lox/holdem-env/internal/deck"
)

// ShowdownResult is the outcome of a finished hand
type ShowdownResult struct {
	Board   []deck.Card
	Hands   map[int][]deck.Card // hole cards of every seat that reached showdown
	Scores  map[int]int         // oracle scores; empty when the hand was won uncontested
	Winners []int
	Rewards []float64
	Pot     int
}

// Uncontested reports whether everyone else folded
func (r ShowdownResult) Uncontested() bool {
	return len(r.Hands) == 1
}

type scoredSeat struct {
	seat  int
	score int
}

// showdown scores every seat still in the hand and splits the pot among the
// best. The split is real valued: an odd pot shared by several winners
// yields fractional rewards.
func (t *Table) showdown() error {
	var contenders []*Player
	for _, p := range t.seats {
		if !p.Folded {
			contenders = append(contenders, p)
		}
	}

	result := ShowdownResult{
		Board:  cloneCards(t.board),
		Hands:  make(map[int][]deck.Card, len(contenders)),
		Scores: make(map[int]int, len(contenders)),
		Pot:    t.totalPot,
	}
	for _, p := range contenders {
		result.Hands[p.ID] = cloneCards(p.Hand)
	}

	if len(contenders) == 1 {
		result.Winners = []int{contenders[0].ID}
	} else {
		scored := make([]scoredSeat, 0, len(contenders))
		for _, p := range contenders {
			score, err := t.oracle.Evaluate(t.board, p.Hand)
			if err != nil {
				return fmt.Errorf("scoring seat %d: %w: %w", p.ID, ErrOracle, err)
			}
			scored = append(scored, scoredSeat{seat: p.ID, score: score})
			result.Scores[p.ID] = score
		}
		result.Winners = winners(scored)
	}

	t.updateTotals()
	loss := 0.0
	for i, r := range t.rewards {
		if !slices.Contains(result.Winners, i) {
			loss += r
		}
	}
	split := -loss / float64(len(result.Winners))
	for _, w := range result.Winners {
		t.rewards[w] = split
	}
	result.Rewards = t.Rewards()

	t.result = &result
	t.done = true

	t.logger.Info("Hand complete",
		"hand", t.handID,
		"winners", result.Winners,
		"pot", result.Pot,
		"uncontested", result.Uncontested())

	stacks := make([]int, len(t.seats))
	committed := make([]int, len(t.seats))
	for i, p := range t.seats {
		stacks[i] = p.Stack
		committed[i] = p.Committed
	}
	t.publish(HandEndEvent{
		HandID:    t.handID,
		Result:    result,
		Stacks:    stacks,
		Committed: committed,
		timestamp: t.clock.Now(),
	})
	return nil
}

// winners returns the seats sharing the lowest score, in seat order
func winners(scored []scoredSeat) []int {
	slices.SortStableFunc(scored, func(a, b scoredSeat) int {
		return cmp.Compare(a.score, b.score)
	})
	best := []int{scored[0].seat}
	for _, s := range scored[1:] {
		if s.score != scored[0].score {
			break
		}
		best = append(best, s.seat)
	}
	return best
}
