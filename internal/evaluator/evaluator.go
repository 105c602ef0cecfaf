// Package evaluator scores Hold'em hands for showdown.
//
// Scores follow the table's oracle convention: lower is stronger, equal
// scores tie. The underlying library ranks the other way round, so every
// score is negated here and nowhere else.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/lox/holdem-env/internal/deck"
)

// ErrCardCount is returned when board plus hole cards are not 5 to 7 cards
var ErrCardCount = errors.New("hand must have 5 to 7 cards")

// Evaluator scores the best five-card hand out of board and hole cards
type Evaluator struct{}

// New returns an evaluator
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the hand score, lower is stronger
func (e *Evaluator) Evaluate(board, hole []deck.Card) (int, error) {
	cards, err := convert(board, hole)
	if err != nil {
		return 0, err
	}
	return -int(best(cards)), nil
}

// Describe returns a human readable name for the made hand
func (e *Evaluator) Describe(board, hole []deck.Card) (string, error) {
	cards, err := convert(board, hole)
	if err != nil {
		return "", err
	}
	return poker.Describe(cards)
}

func convert(board, hole []deck.Card) ([]poker.Card, error) {
	n := len(board) + len(hole)
	if n < 5 || n > 7 {
		return nil, fmt.Errorf("%d cards: %w", n, ErrCardCount)
	}

	seen := make(map[deck.Card]bool, n)
	out := make([]poker.Card, 0, n)
	for _, group := range [][]deck.Card{board, hole} {
		for _, c := range group {
			if seen[c] {
				return nil, fmt.Errorf("duplicate card %s", c.Short())
			}
			seen[c] = true
			pc, err := toLibrary(c)
			if err != nil {
				return nil, err
			}
			out = append(out, pc)
		}
	}
	return out, nil
}

// toLibrary maps a deck card to the library encoding, where aces are rank 1
func toLibrary(c deck.Card) (poker.Card, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("invalid card %v", c)
	}
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	}
	r := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}

// best returns the library score (higher is stronger) of the best 5-card hand
func best(cards []poker.Card) int16 {
	switch len(cards) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], cards)
		return poker.Eval7(&a7)
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], cards)
		return poker.Eval5(&a5)
	}

	// six cards: drop each card in turn
	top := int16(-32768)
	var five [5]poker.Card
	for skip := range cards {
		k := 0
		for i, c := range cards {
			if i == skip {
				continue
			}
			five[k] = c
			k++
		}
		if s := poker.Eval5(&five); s > top {
			top = s
		}
	}
	return top
}
