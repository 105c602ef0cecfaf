package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/game"
)

// newModel seats calling stations around the human. With three seats the
// first hand puts the button on seat 2, which is also first to act, so the
// human posts the small blind and acts after the button calls.
func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(Config{
		Table:   game.Config{Seats: 3, StackCap: 2000, Blinds: game.Blinds{Small: 25, Big: 50}},
		Seed:    5,
		Bots:    "call",
		NoColor: true,
		Logger:  log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	})
	require.NoError(t, err)
	return m
}

func typeLine(m *Model, line string) tea.Cmd {
	if line != "" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestNewDealsUpToHuman(t *testing.T) {
	t.Parallel()
	m := newModel(t)

	assert.Equal(t, humanSeat, m.table.CurrentActor())
	assert.Equal(t, game.Preflop, m.table.Street())
	log := strings.Join(m.gameLog, "\n")
	assert.Contains(t, log, "Pre flop")
	assert.Contains(t, log, "The last action by player 2: -")
	assert.NotContains(t, log, "The last action by player 1:", "the big blind has not acted yet")
	assert.Equal(t, 25, m.table.Observe().ToCall)
}

func TestPlayHandByTyping(t *testing.T) {
	t.Parallel()
	m := newModel(t)

	typeLine(m, "c")
	assert.Equal(t, game.Flop, m.table.Street())
	assert.Equal(t, humanSeat, m.table.CurrentActor(), "the small blind opens the flop")
	assert.Equal(t, 150, m.table.TotalPot())

	typeLine(m, "f")
	require.True(t, m.table.Done())
	assert.Equal(t, 1, m.hands)
	assert.Equal(t, float64(-50), m.net)
	assert.Contains(t, m.status, "lost 50")
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Summary")

	first := m.table.HandID()
	typeLine(m, "")
	assert.NotEqual(t, first, m.table.HandID())
	assert.Equal(t, 2, m.table.HandNumber())
	assert.False(t, m.table.Done())
	assert.Empty(t, m.status)
}

func TestBadCommandsKeepTheHand(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	hand := m.table.HandID()

	typeLine(m, "dance")
	assert.Contains(t, m.status, "unknown action")

	typeLine(m, "r")
	assert.Contains(t, m.status, "needs an amount")

	typeLine(m, "")
	assert.Contains(t, m.status, "empty action")

	assert.Equal(t, hand, m.table.HandID())
	assert.Equal(t, humanSeat, m.table.CurrentActor())
	assert.Equal(t, game.Preflop, m.table.Street())
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	cmd := typeLine(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
	assert.NoError(t, m.Err())
}

func TestView(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Seat 0")
	assert.Contains(t, view, "to call 25")
	assert.Contains(t, view, "Hands 0")

	typeLine(m, "dance")
	view = m.View()
	assert.Contains(t, view, "unknown action")
	assert.NotContains(t, view, "to call 25")
}

func TestNewRejectsUnknownBots(t *testing.T) {
	t.Parallel()
	_, err := New(Config{Table: game.Config{Seats: 3, StackCap: 2000, Blinds: game.Blinds{Small: 25, Big: 50}}, Bots: "shark"})
	assert.Error(t, err)
}
