package display

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/game"
)

// Describer names a made hand, e.g. "Two Pair, Aces and Kings"
type Describer interface {
	Describe(board, hole []deck.Card) (string, error)
}

// Summary lists the board, every hand shown down with its name, and the
// winners of a finished hand.
func (r *Renderer) Summary(result *game.ShowdownResult, d Describer) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.styles.Banner.Render("---------------------------- Summary ----------------------------"))
	fmt.Fprintf(&b, "Board: %s\n", r.cards(result.Board))

	if result.Uncontested() {
		fmt.Fprintf(&b, "Player %d wins %d uncontested\n", result.Winners[0], result.Pot)
		return b.String()
	}

	seats := make([]int, 0, len(result.Hands))
	for seat := range result.Hands {
		seats = append(seats, seat)
	}
	slices.Sort(seats)
	for _, seat := range seats {
		hole := result.Hands[seat]
		name, err := d.Describe(result.Board, hole)
		if err != nil {
			name = "unknown"
		}
		line := fmt.Sprintf("Player %d %s %s", seat, r.cards(hole), name)
		if slices.Contains(result.Winners, seat) {
			line = r.styles.Winner.Render(line + " (winner)")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
