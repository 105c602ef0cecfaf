package display_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/display"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
)

func newTable(t *testing.T, cards string) *game.Table {
	t.Helper()
	dealer, err := deck.NewStacked(deck.MustParseCards(cards))
	require.NoError(t, err)
	table, err := game.NewTable(
		game.Config{Seats: 3, StackCap: 20000, Blinds: game.Blinds{Small: 50, Big: 100}},
		dealer,
		evaluator.New(),
	)
	require.NoError(t, err)
	require.NoError(t, table.Reset())
	return table
}

func plainRenderer() *display.Renderer {
	return display.New(io.Discard, display.NoColor(), display.WithLogger(log.New(io.Discard)))
}

func TestRenderStartOfHand(t *testing.T) {
	t.Parallel()
	table := newTable(t, "8c9d AhAd KhKd 2h7cJs Qd 3s")
	out := plainRenderer().Render(table.Observe(), nil)

	assert.Contains(t, out, "Hand "+table.HandID())
	assert.Contains(t, out, "---------------------------- Pre flop ----------------------------")
	assert.Contains(t, out, "community cards: [  ],[  ],[  ],[  ],[  ]")
	assert.Contains(t, out, "Total pot: 150")
	assert.Contains(t, out, "0 [??][??] stack: 19950 pot: 50\n")
	assert.Contains(t, out, "> 2 [K♥][K♦] stack: 20000 pot: 0 ◉")
	assert.NotContains(t, out, "A♥", "only the actor's cards are shown")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")
}

func TestRenderActionsAndStreets(t *testing.T) {
	t.Parallel()
	table := newTable(t, "8c9d AhAd KhKd 2h7cJs Qd 3s")
	r := plainRenderer()
	r.Render(table.Observe(), nil)

	res, err := table.Step(2, game.RaiseAction(300))
	require.NoError(t, err)
	out := r.Render(res.Observation, &display.LastAction{Seat: 2, Action: *res.Observation.LastActions[2]})
	assert.Contains(t, out, "The last action by player 2: ^ 300")
	assert.NotContains(t, out, "Pre flop", "banner is drawn once per street")

	res, err = table.Step(0, game.FoldAction())
	require.NoError(t, err)
	out = r.Render(res.Observation, &display.LastAction{Seat: 0, Action: *res.Observation.LastActions[0]})
	assert.Contains(t, out, "The last action by player 0: X")
	assert.Contains(t, out, "0 [??][??] stack: 19950 pot: 50 X")

	res, err = table.Step(1, game.CallAction())
	require.NoError(t, err)
	out = r.Render(res.Observation, &display.LastAction{Seat: 1, Action: *res.Observation.LastActions[1]})
	assert.Contains(t, out, "The last action by player 1: - 200")
	assert.Contains(t, out, "---------------------------- Flop ----------------------------")
	assert.Contains(t, out, "community cards: [2♥][7♣][J♠]")

	res, err = table.Step(1, game.CallAction())
	require.NoError(t, err)
	out = r.Render(res.Observation, &display.LastAction{Seat: 1, Action: *res.Observation.LastActions[1]})
	assert.Contains(t, out, "The last action by player 1: ~")
	assert.NotContains(t, out, "Flop")
}

func TestRenderFinishedHand(t *testing.T) {
	t.Parallel()
	table := newTable(t, "8c9d AhAd KhKd 2h7cJs Qd 3s")
	r := plainRenderer()

	var res game.StepResult
	for !table.Done() {
		var err error
		res, err = table.Step(table.CurrentActor(), game.CallAction())
		require.NoError(t, err)
	}
	out := r.Render(res.Observation, nil)
	assert.Contains(t, out, "Winner is: 1")
	assert.Contains(t, out, "Players' reward: [-100, +200, -100]")
	assert.Contains(t, out, "1 [A♥][A♦]", "showdown hands are revealed")

	summary := r.Summary(table.Result(), evaluator.New())
	assert.Contains(t, summary, "Board: [2♥][7♣][J♠][Q♦][3♠]")
	assert.Contains(t, summary, "Player 1 [A♥][A♦] ")
	assert.Contains(t, summary, "(winner)")
	assert.Equal(t, 3, strings.Count(summary, "Player "))
}

func TestSummaryUncontested(t *testing.T) {
	t.Parallel()
	table := newTable(t, "8c9d AhAd KhKd 2h7cJs Qd 3s")
	for !table.Done() {
		_, err := table.Step(table.CurrentActor(), game.FoldAction())
		require.NoError(t, err)
	}
	summary := plainRenderer().Summary(table.Result(), evaluator.New())
	assert.Contains(t, summary, "Player 1 wins 150 uncontested")
}

func TestSafeRenderRecovers(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	r := display.New(io.Discard, display.NoColor(), display.WithLogger(log.New(&logs)))

	broken := &game.Observation{Stacks: []int{100, 100}, Actor: -1}
	assert.NotPanics(t, func() {
		assert.Equal(t, "", r.SafeRender(broken, nil))
	})
	assert.Contains(t, logs.String(), "Render failed")
}

func TestRenderSplitRewards(t *testing.T) {
	t.Parallel()
	obs := &game.Observation{
		HandID:      "h",
		Stacks:      []int{0, 0},
		RoundPots:   []int{0, 0},
		LastActions: make([]*game.Action, 2),
		Actor:       -1,
		Done:        true,
		Winners:     []int{0, 1},
		Rewards:     []float64{37.5, 37.5},
	}
	out := plainRenderer().Render(obs, nil)
	assert.Contains(t, out, "Winner is: 0 1")
	assert.Contains(t, out, "[+37.5, +37.5]")
}
