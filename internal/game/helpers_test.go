package game

import (
	"io"
	rand "math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/gameid"
	"github.com/lox/holdem-env/internal/randutil"
)

const (
	testCap   = 20000
	testSeats = 6
)

var testBlinds = Blinds{Small: 50, Big: 100}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// noOracle fails the test if a showdown asks for a score
func noOracle(t *testing.T) Oracle {
	return OracleFunc(func(board, hole []deck.Card) (int, error) {
		t.Errorf("oracle called with board %v hole %v", board, hole)
		return 0, nil
	})
}

// seatOracle scores each seat by looking up its first hole card, so tests
// can pick winners without constructing real hands
type seatOracle struct {
	table  *Table
	scores map[int]int
	calls  int
}

func (o *seatOracle) Evaluate(board, hole []deck.Card) (int, error) {
	o.calls++
	for seat := 0; seat < o.table.Seats(); seat++ {
		if o.table.seats[seat].Hand[0] == hole[0] {
			return o.scores[seat], nil
		}
	}
	return 0, nil
}

func newTestTable(t *testing.T, seats int, oracle Oracle, opts ...Option) *Table {
	t.Helper()
	return newTestTableWithDealer(t, seats, deck.NewDeck(randutil.New(42)), oracle, opts...)
}

func newTestTableWithDealer(t *testing.T, seats int, dealer Dealer, oracle Oracle, opts ...Option) *Table {
	t.Helper()
	clock := quartz.NewMock(t)
	base := []Option{
		WithLogger(testLogger()),
		WithClock(clock),
		WithHandIDs(gameid.NewGenerator(clock, randutil.New(9))),
	}
	table, err := NewTable(Config{Seats: seats, StackCap: testCap, Blinds: testBlinds}, dealer, oracle, append(base, opts...)...)
	require.NoError(t, err)
	return table
}

// newStartedTable returns a 6-seat table after the first Reset:
// button 5, small blind 0, big blind 1, first to act 2.
func newStartedTable(t *testing.T, oracle Oracle, opts ...Option) *Table {
	t.Helper()
	table := newTestTable(t, testSeats, oracle, opts...)
	require.NoError(t, table.Reset())
	return table
}

func step(t *testing.T, table *Table, a Action) StepResult {
	t.Helper()
	res, err := table.Step(table.CurrentActor(), a)
	require.NoError(t, err)
	require.NoError(t, table.CheckChips())
	return res
}

// randomAction mirrors a uniform sample of the action space, folding
// instead of making a call the stack cannot cover
func randomAction(rng *rand.Rand, obs *Observation) Action {
	switch rng.IntN(3) {
	case 0:
		return FoldAction()
	case 1:
		if !obs.CanCall() {
			return FoldAction()
		}
		return CallAction()
	default:
		return RaiseAction(rng.IntN(obs.StackCap))
	}
}
