package phh_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/phh"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newRecordedTable deals a fixed three handed hand: seat 0 2c3d, seat 1
// AhAd, seat 2 KhKd, board 2h7cJsQd3s
func newRecordedTable(t *testing.T, rec *phh.Recorder) *game.Table {
	t.Helper()
	dealer, err := deck.NewStacked(deck.MustParseCards("2c3d AhAd KhKd 2h7cJs Qd 3s"))
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC))

	bus := game.NewEventBus(quietLogger())
	bus.Subscribe(rec)
	table, err := game.NewTable(
		game.Config{Seats: 3, StackCap: 20000, Blinds: game.Blinds{Small: 50, Big: 100}},
		dealer,
		evaluator.New(),
		game.WithEventBus(bus),
		game.WithClock(clock),
		game.WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	return table
}

func readHistory(t *testing.T, path string) phh.HandHistory {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var hist phh.HandHistory
	require.NoError(t, phh.Decode(f, &hist))
	return hist
}

func TestRecorderWritesShowdown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rec, err := phh.NewRecorder(dir, "table-1", quietLogger())
	require.NoError(t, err)
	table := newRecordedTable(t, rec)

	// button 2, small blind 0, big blind 1; seat 2 acts first and raises
	require.NoError(t, table.Reset())
	steps := []struct {
		seat   int
		action game.Action
	}{
		{2, game.RaiseAction(200)},
		{0, game.FoldAction()},
		{1, game.CallAction()},
	}
	for _, s := range steps {
		_, err := table.Step(s.seat, s.action)
		require.NoError(t, err)
	}
	for !table.Done() {
		_, err := table.Step(table.CurrentActor(), game.CallAction())
		require.NoError(t, err)
	}

	require.NoError(t, rec.Err())
	assert.Equal(t, 1, rec.Written())

	hist := readHistory(t, rec.Path(table.HandID()))
	assert.Equal(t, phh.Variant, hist.Variant)
	assert.Equal(t, "table-1", hist.Table)
	assert.Equal(t, table.HandID(), hist.HandID)
	assert.Equal(t, []int{1, 2, 3}, hist.Seats)
	assert.Equal(t, []int{50, 100, 0}, hist.BlindsOrStraddles)
	assert.Equal(t, []int{20000, 20000, 20000}, hist.StartingStacks)
	assert.Equal(t, []string{
		"d dh p1 2c3d",
		"d dh p2 AhAd",
		"d dh p3 KhKd",
		"p3 cbr 200",
		"p1 f",
		"p2 cc",
		"d db 2h7cJs",
		"p2 cc",
		"p3 cc",
		"d db Qd",
		"p2 cc",
		"p3 cc",
		"d db 3s",
		"p2 cc",
		"p3 cc",
		"p2 sm AhAd",
		"p3 sm KhKd",
	}, hist.Actions)
	assert.Equal(t, []int{19950, 20250, 19800}, hist.FinishingStacks)
	assert.Equal(t, []int{0, 450, 0}, hist.Winnings)
	assert.Equal(t, []float64{-50, 250, -200}, hist.Rewards)
	assert.Equal(t, "09:30:00", hist.Time)
	assert.Equal(t, 2025, hist.Year)
}

func TestRecorderOrdersPlayersFromSmallBlind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rec, err := phh.NewRecorder(dir, "table-1", quietLogger())
	require.NoError(t, err)
	table := newRecordedTable(t, rec)

	require.NoError(t, table.Reset())
	require.NoError(t, table.Reset()) // button 0, small blind 1
	for !table.Done() {
		_, err := table.Step(table.CurrentActor(), game.FoldAction())
		require.NoError(t, err)
	}

	hist := readHistory(t, rec.Path(table.HandID()))
	assert.Equal(t, []int{2, 3, 1}, hist.Seats)
	assert.Equal(t, []string{"seat-1", "seat-2", "seat-0"}, hist.Players)
	assert.Equal(t, []int{50, 100, 0}, hist.BlindsOrStraddles)
	assert.Equal(t, []float64{-50, 50, 0}, hist.Rewards)
	assert.NotContains(t, hist.Actions, "p2 sm AhAd", "uncontested hands show nothing")
}

func TestRecorderDisablesAfterRepeatedFailures(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rec, err := phh.NewRecorder(dir, "table-1", quietLogger())
	require.NoError(t, err)
	table := newRecordedTable(t, rec)

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a dir"), 0o644))

	for range 4 {
		require.NoError(t, table.Reset())
		for !table.Done() {
			_, err := table.Step(table.CurrentActor(), game.FoldAction())
			require.NoError(t, err)
		}
	}
	assert.Error(t, rec.Err())
	assert.Zero(t, rec.Written())
}

func TestNewRecorderRequiresDir(t *testing.T) {
	t.Parallel()
	_, err := phh.NewRecorder("", "t", nil)
	assert.Error(t, err)
}
