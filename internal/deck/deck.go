package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a standard 52-card deck dealt from the top
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates an ordered deck that shuffles with rng
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{rng: rng}
	d.fill()
	return d
}

func (d *Deck) fill() {
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(suit, rank)
			i++
		}
	}
	d.next = 0
}

// Shuffle returns every card to the deck and randomizes the order (Fisher-Yates)
func (d *Deck) Shuffle() {
	d.fill()
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw deals n cards off the top of the deck
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, fmt.Errorf("draw %d with %d remaining: %w", n, d.Remaining(), ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Stacked deals a fixed sequence of cards. Shuffle rewinds to the start,
// so every hand sees the same cards. Useful for replaying a hand.
type Stacked struct {
	cards []Card
	next  int
}

// NewStacked creates a dealer that deals cards in order
func NewStacked(cards []Card) (*Stacked, error) {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card %v", c)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %s", c.Short())
		}
		seen[c] = true
	}
	return &Stacked{cards: cards}, nil
}

// Shuffle rewinds the stacked sequence
func (s *Stacked) Shuffle() {
	s.next = 0
}

// Draw deals the next n cards of the sequence
func (s *Stacked) Draw(n int) ([]Card, error) {
	if n < 0 || s.next+n > len(s.cards) {
		return nil, fmt.Errorf("draw %d with %d remaining: %w", n, len(s.cards)-s.next, ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, s.cards[s.next:s.next+n])
	s.next += n
	return cards, nil
}
