package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/gameid"
	"github.com/lox/holdem-env/internal/randutil"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"six handed", Config{Seats: 6, StackCap: 20000, Blinds: testBlinds}, false},
		{"heads up", Config{Seats: 2, StackCap: 1000, Blinds: Blinds{10, 25}}, false},
		{"one seat", Config{Seats: 1, StackCap: 20000, Blinds: testBlinds}, true},
		{"eleven seats", Config{Seats: 11, StackCap: 20000, Blinds: testBlinds}, true},
		{"stack at big blind", Config{Seats: 6, StackCap: 100, Blinds: testBlinds}, true},
		{"inverted blinds", Config{Seats: 6, StackCap: 20000, Blinds: Blinds{100, 50}}, true},
		{"zero blinds", Config{Seats: 6, StackCap: 20000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTableRequiresCollaborators(t *testing.T) {
	t.Parallel()
	cfg := Config{Seats: 6, StackCap: testCap, Blinds: testBlinds}
	_, err := NewTable(cfg, nil, noOracle(t))
	assert.Error(t, err)
	_, err = NewTable(cfg, deck.NewDeck(randutil.New(1)), nil)
	assert.Error(t, err)
}

func TestResetPostsBlindsAndDeals(t *testing.T) {
	t.Parallel()
	table := newStartedTable(t, noOracle(t))

	assert.Equal(t, 5, table.Button())
	assert.Equal(t, 2, table.CurrentActor())
	assert.Equal(t, Preflop, table.Street())
	assert.Equal(t, 6, table.PlayersInHand())
	assert.Equal(t, 150, table.TotalPot())
	assert.Empty(t, table.Board())
	assert.False(t, table.Done())
	assert.Equal(t, 1, table.HandNumber())
	assert.NoError(t, gameid.Validate(table.HandID()))

	sb, bb := table.Player(0), table.Player(1)
	assert.Equal(t, testCap-50, sb.Stack)
	assert.Equal(t, 50, sb.Pot)
	assert.Equal(t, testCap-100, bb.Stack)
	assert.Equal(t, 100, bb.Pot)
	for seat := 2; seat < testSeats; seat++ {
		assert.Equal(t, testCap, table.Player(seat).Stack)
	}

	seen := map[deck.Card]bool{}
	for seat := 0; seat < testSeats; seat++ {
		p := table.Player(seat)
		require.Len(t, p.Hand, 2)
		assert.False(t, p.Acted)
		assert.Nil(t, p.LastAction, "blinds are not actions")
		for _, c := range p.Hand {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}

	assert.Equal(t, []float64{-50, -100, 0, 0, 0, 0}, table.Rewards())
	assert.NoError(t, table.CheckChips())

	obs := table.Observe()
	assert.Equal(t, 100, obs.ToCall)
	assert.Equal(t, 100, obs.MinRaise)
	assert.Equal(t, table.Player(2).Hand, obs.ActorHand)
}

func TestResetRotatesButton(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, testSeats, noOracle(t))

	for hand := 0; hand < 8; hand++ {
		require.NoError(t, table.Reset())
		button := (testSeats - 1 + hand) % testSeats
		assert.Equal(t, button, table.Button(), "hand %d", hand)
		assert.Equal(t, (button+3)%testSeats, table.CurrentActor())
		assert.Equal(t, testCap-50, table.Player((button+1)%testSeats).Stack)
		assert.Equal(t, testCap-100, table.Player((button+2)%testSeats).Stack)
	}
}

func TestResetHeadsUp(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, 2, noOracle(t))
	require.NoError(t, table.Reset())

	// with two seats the first to act wraps round to the small blind
	assert.Equal(t, 1, table.Button())
	assert.Equal(t, 50, table.Player(0).Pot)
	assert.Equal(t, 100, table.Player(1).Pot)
	assert.Equal(t, 0, table.CurrentActor())
	assert.NoError(t, table.CheckChips())
}

func TestResetRestoresStacks(t *testing.T) {
	t.Parallel()
	table := newStartedTable(t, noOracle(t))
	step(t, table, RaiseAction(500))
	require.NoError(t, table.Reset())

	for seat := 0; seat < testSeats; seat++ {
		p := table.Player(seat)
		assert.Equal(t, testCap, p.Stack+p.Committed, "seat %d", seat)
		assert.False(t, p.Folded)
	}
	assert.Equal(t, 150, table.TotalPot())
}

func TestResetDealerFailure(t *testing.T) {
	t.Parallel()
	short, err := deck.NewStacked(deck.MustParseCards("As Ks Qs Js Ts 9s 8s 7s 6s 5s"))
	require.NoError(t, err)
	table := newTestTableWithDealer(t, testSeats, short, noOracle(t))

	err = table.Reset()
	require.ErrorIs(t, err, ErrDealer)
	require.ErrorIs(t, err, deck.ErrDeckExhausted)
	assert.True(t, table.Done())
	assert.ErrorIs(t, table.Err(), ErrDealer)

	_, err = table.Step(table.CurrentActor(), CallAction())
	assert.ErrorIs(t, err, ErrDealer)
}

func TestPlayerReturnsCopy(t *testing.T) {
	t.Parallel()
	table := newStartedTable(t, noOracle(t))
	p := table.Player(2)
	p.Hand[0] = deck.Card{}
	p.Stack = 0
	assert.NotEqual(t, deck.Card{}, table.Player(2).Hand[0])
	assert.Equal(t, testCap, table.Player(2).Stack)
}
