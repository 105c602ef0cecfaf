package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAction(t *testing.T) {
	t.Parallel()
	opened := betting{highWater: 300, minRaise: 300, bigBlind: 100}
	unopened := betting{highWater: 0, minRaise: 0, bigBlind: 100}

	tests := []struct {
		name     string
		intended Action
		player   Player
		bet      betting
		want     Action
		wantErr  error
	}{
		{
			name:     "fold stays fold",
			intended: FoldAction(),
			player:   Player{Stack: 1000},
			bet:      opened,
			want:     FoldAction(),
		},
		{
			name:     "call with nothing opened is a check",
			intended: CallAction(),
			player:   Player{Stack: 1000},
			bet:      unopened,
			want:     Action{Kind: Check},
		},
		{
			name:     "call moves the difference",
			intended: CallAction(),
			player:   Player{Stack: 1000, Pot: 100},
			bet:      opened,
			want:     Action{Kind: Call, Amount: 200},
		},
		{
			name:     "call already matched moves nothing",
			intended: CallAction(),
			player:   Player{Stack: 1000, Pot: 300},
			bet:      opened,
			want:     Action{Kind: Call, Amount: 0},
		},
		{
			name:     "unaffordable call is rejected",
			intended: CallAction(),
			player:   Player{Stack: 100},
			bet:      opened,
			wantErr:  ErrInsufficientStack,
		},
		{
			name:     "undersized raise folds",
			intended: RaiseAction(50),
			player:   Player{Stack: 1000},
			bet:      opened,
			want:     FoldAction(),
		},
		{
			name:     "raise below big blind folds on an unopened street",
			intended: RaiseAction(99),
			player:   Player{Stack: 1000},
			bet:      unopened,
			want:     FoldAction(),
		},
		{
			name:     "minimum raise is legal",
			intended: RaiseAction(300),
			player:   Player{Stack: 1000},
			bet:      opened,
			want:     RaiseAction(300),
		},
		{
			name:     "raise of the whole stack is all in",
			intended: RaiseAction(1000),
			player:   Player{Stack: 1000},
			bet:      opened,
			want:     Action{Kind: AllIn, Amount: 1000},
		},
		{
			name:     "raise beyond the stack is capped",
			intended: RaiseAction(5000),
			player:   Player{Stack: 1000},
			bet:      opened,
			want:     Action{Kind: AllIn, Amount: 1000},
		},
		{
			name:     "check cannot be submitted",
			intended: Action{Kind: Check},
			player:   Player{Stack: 1000},
			bet:      opened,
			wantErr:  ErrInvalidAction,
		},
		{
			name:     "all in cannot be submitted",
			intended: Action{Kind: AllIn},
			player:   Player{Stack: 1000},
			bet:      opened,
			wantErr:  ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.player
			got, err := resolveAction(tt.intended, &p, tt.bet)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.player, p, "resolve must not mutate the player")
		})
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Action
		wantErr bool
	}{
		{"f", FoldAction(), false},
		{"FOLD", FoldAction(), false},
		{"c", CallAction(), false},
		{"check", CallAction(), false},
		{"r 300", RaiseAction(300), false},
		{"raise 1000", RaiseAction(1000), false},
		{"raise", Action{}, true},
		{"raise lots", Action{}, true},
		{"", Action{}, true},
		{"shove", Action{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fold", FoldAction().String())
	assert.Equal(t, "call", CallAction().String())
	assert.Equal(t, "call 200", Action{Kind: Call, Amount: 200}.String())
	assert.Equal(t, "raise 300", RaiseAction(300).String())
	assert.Equal(t, "allin 900", Action{Kind: AllIn, Amount: 900}.String())
	assert.Equal(t, "check", Action{Kind: Check}.String())
}

func TestParseBlinds(t *testing.T) {
	t.Parallel()
	b, err := ParseBlinds("50/100")
	require.NoError(t, err)
	assert.Equal(t, Blinds{Small: 50, Big: 100}, b)
	assert.Equal(t, "50/100", b.String())

	_, err = ParseBlinds("1/2")
	assert.ErrorIs(t, err, ErrUnknownBlinds)

	assert.Equal(t, []string{"10/25", "25/50", "50/100"}, BlindTiers())
}
