// Package phh writes hands in the Poker Hand History TOML format.
package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/game"
)

// Variant is the PHH code for no-limit Texas Hold'em
const Variant = "NT"

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one hand history
func Decode(r io.Reader, hand *HandHistory) error {
	if _, err := toml.NewDecoder(r).Decode(hand); err != nil {
		return fmt.Errorf("phh: decode: %w", err)
	}
	return nil
}

// FormatAction converts a recorded action to a PHH action string. player is
// the zero-based PHH player index and roundTotal the player's contribution to
// the current street after the action, which is what "cbr" records.
func FormatAction(player int, a game.Action, roundTotal int) string {
	p := fmt.Sprintf("p%d", player+1)
	switch a.Kind {
	case game.Fold:
		return p + " f"
	case game.Check, game.Call:
		return p + " cc"
	case game.Raise, game.AllIn:
		return fmt.Sprintf("%s cbr %d", p, roundTotal)
	default:
		return fmt.Sprintf("# %s %s", p, a)
	}
}

// FormatDeal is the dealer action giving a player hole cards
func FormatDeal(player int, hole []deck.Card) string {
	cards := "????"
	if len(hole) == 2 {
		cards = deck.FormatCards(hole)
	}
	return fmt.Sprintf("d dh p%d %s", player+1, cards)
}

// FormatBoard is the dealer action adding community cards
func FormatBoard(cards []deck.Card) string {
	return "d db " + deck.FormatCards(cards)
}

// FormatShow is a player showing hole cards at showdown
func FormatShow(player int, hole []deck.Card) string {
	return fmt.Sprintf("p%d sm %s", player+1, deck.FormatCards(hole))
}
