// Package display renders table observations as text for terminals and logs.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/game"
)

// LastAction is the action to show above the table
type LastAction struct {
	Seat   int
	Action game.Action // as recorded by the table
}

// Renderer turns observations into text. It remembers the last street it
// drew so each street gets one banner, and is not safe for concurrent use.
type Renderer struct {
	styles styles
	logger *log.Logger

	hand   string
	street game.Street
}

// Option configures a Renderer
type Option func(*options)

type options struct {
	noColor bool
	logger  *log.Logger
}

// NoColor renders plain ASCII text
func NoColor() Option {
	return func(o *options) { o.noColor = true }
}

// WithLogger logs recovered render failures
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a renderer whose color profile is detected from w
func New(w io.Writer, opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	lr := lipgloss.NewRenderer(w)
	if o.noColor {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{styles: newStyles(lr), logger: o.logger.WithPrefix("display")}
}

// SafeRender is Render with panics recovered; a failed render yields ""
func (r *Renderer) SafeRender(obs *game.Observation, last *LastAction) (out string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("Render failed", "panic", p)
			out = ""
		}
	}()
	return r.Render(obs, last)
}

// Render draws the last action, a banner when the street changed, the board,
// the pot and every seat. A finished hand also lists winners and rewards.
func (r *Renderer) Render(obs *game.Observation, last *LastAction) string {
	var b strings.Builder
	s := r.styles

	if obs.HandID != r.hand {
		r.hand = obs.HandID
		r.street = game.Preflop
		fmt.Fprintf(&b, "%s\n", s.Header.Render(fmt.Sprintf(" Hand %s • blinds %s • button %d ", obs.HandID, obs.Blinds, obs.Button)))
		fmt.Fprintf(&b, "%s\n", s.Banner.Render(banner(game.Preflop)))
	}

	if last != nil {
		fmt.Fprintf(&b, "%s %s\n", s.Info.Render(fmt.Sprintf("The last action by player %d:", last.Seat)), r.action(last.Action))
	}

	if obs.Street != r.street && obs.Street != game.Showdown {
		r.street = obs.Street
		fmt.Fprintf(&b, "%s\n", s.Banner.Render(banner(obs.Street)))
	}

	b.WriteString("community cards: ")
	if len(obs.Board) == 0 {
		b.WriteString("[  ],[  ],[  ],[  ],[  ]")
	} else {
		b.WriteString(r.cards(obs.Board))
	}
	fmt.Fprintf(&b, "\nTotal pot: %d\n", obs.TotalPot)

	b.WriteString("players:\n")
	for seat := range obs.Stacks {
		b.WriteString(r.seat(obs, seat))
		b.WriteByte('\n')
	}

	if obs.Done {
		winners := make([]string, len(obs.Winners))
		for i, w := range obs.Winners {
			winners[i] = fmt.Sprint(w)
		}
		fmt.Fprintf(&b, "%s %s\n", s.Winner.Render("Winner is:"), strings.Join(winners, " "))
		fmt.Fprintf(&b, "Players' reward: %s\n", r.rewards(obs.Rewards))
	}
	return b.String()
}

func (r *Renderer) seat(obs *game.Observation, seat int) string {
	marker := "  "
	if seat == obs.Actor {
		marker = r.styles.Actor.Render("> ")
	}

	hand := "[??][??]"
	if seat == obs.Actor && len(obs.ActorHand) > 0 {
		hand = r.cards(obs.ActorHand)
	} else if hole, ok := obs.Shown[seat]; ok {
		hand = r.cards(hole)
	}

	line := fmt.Sprintf("%s%d %s stack: %d pot: %d", marker, seat, hand, obs.Stacks[seat], obs.RoundPots[seat])
	if seat == obs.Button {
		line += " ◉"
	}
	if a := obs.LastActions[seat]; a != nil {
		switch a.Kind {
		case game.Fold:
			line += " " + r.styles.Fold.Render("X")
		case game.AllIn:
			line += " " + r.styles.Raise.Render("all-in")
		}
	}
	return line
}

func (r *Renderer) action(a game.Action) string {
	s := r.styles
	switch a.Kind {
	case game.Fold:
		return s.Fold.Render("X")
	case game.Call:
		return s.Call.Render(fmt.Sprintf("- %d", a.Amount))
	case game.Raise:
		return s.Raise.Render(fmt.Sprintf("^ %d", a.Amount))
	case game.AllIn:
		return s.Raise.Render(fmt.Sprintf("A^ %d", a.Amount))
	default:
		return s.Check.Render("~")
	}
}

func (r *Renderer) cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		style := r.styles.BlackCard
		if c.IsRed() {
			style = r.styles.RedCard
		}
		parts[i] = style.Render("[" + c.String() + "]")
	}
	return strings.Join(parts, "")
}

func (r *Renderer) rewards(rewards []float64) string {
	parts := make([]string, len(rewards))
	for i, v := range rewards {
		text := formatChips(v)
		switch {
		case v > 0:
			parts[i] = r.styles.Winner.Render("+" + text)
		case v < 0:
			parts[i] = r.styles.Loss.Render(text)
		default:
			parts[i] = text
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatChips prints whole amounts without a fraction and split pots with one
func formatChips(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func banner(s game.Street) string {
	name := map[game.Street]string{
		game.Preflop: "Pre flop",
		game.Flop:    "Flop",
		game.Turn:    "Turn",
		game.River:   "River",
	}[s]
	return fmt.Sprintf("---------------------------- %s ----------------------------", name)
}
