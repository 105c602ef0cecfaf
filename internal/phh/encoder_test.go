package phh_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/phh"
)

func TestFormatAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		player int
		action game.Action
		total  int
		want   string
	}{
		{"fold", 0, game.FoldAction(), 0, "p1 f"},
		{"check", 1, game.Action{Kind: game.Check}, 0, "p2 cc"},
		{"call", 3, game.Action{Kind: game.Call, Amount: 50}, 100, "p4 cc"},
		{"raise", 0, game.RaiseAction(300), 350, "p1 cbr 350"},
		{"allin", 2, game.Action{Kind: game.AllIn, Amount: 19900}, 20000, "p3 cbr 20000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phh.FormatAction(tt.player, tt.action, tt.total))
		})
	}
}

func TestFormatDealerActions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "d dh p2 AhKh", phh.FormatDeal(1, deck.MustParseCards("AhKh")))
	assert.Equal(t, "d dh p1 ????", phh.FormatDeal(0, nil))
	assert.Equal(t, "d db Th9c2d", phh.FormatBoard(deck.MustParseCards("Th 9c 2d")))
	assert.Equal(t, "p3 sm QsJs", phh.FormatShow(2, deck.MustParseCards("QsJs")))
}

func TestEncodeHandHistory(t *testing.T) {
	t.Parallel()
	hand := &phh.HandHistory{
		Variant:           phh.Variant,
		Table:             "default",
		SeatCount:         3,
		Seats:             []int{1, 2, 3},
		Antes:             []int{0, 0, 0},
		BlindsOrStraddles: []int{50, 100, 0},
		MinBet:            100,
		StartingStacks:    []int{20000, 20000, 20000},
		FinishingStacks:   []int{19950, 20150, 19900},
		Winnings:          []int{0, 250, 0},
		Actions: []string{
			"d dh p1 AhKh",
			"d dh p2 7c2d",
			"d dh p3 QsJs",
			"p3 cbr 200",
			"p1 f",
			"p2 cc",
		},
		Players:   []string{"seat-1", "seat-2", "seat-0"},
		HandID:    "01hq3v5k2m8x9n4p6r7s8t9v0w",
		Timestamp: time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, phh.Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"default\"\n" +
		"seat_count = 3\n" +
		"seats = [1, 2, 3]\n" +
		"antes = [0, 0, 0]\n" +
		"blinds_or_straddles = [50, 100, 0]\n" +
		"min_bet = 100\n" +
		"starting_stacks = [20000, 20000, 20000]\n" +
		"finishing_stacks = [19950, 20150, 19900]\n" +
		"winnings = [0, 250, 0]\n" +
		"actions = [\"d dh p1 AhKh\", \"d dh p2 7c2d\", \"d dh p3 QsJs\", \"p3 cbr 200\", \"p1 f\", \"p2 cc\"]\n" +
		"players = [\"seat-1\", \"seat-2\", \"seat-0\"]\n" +
		"hand = \"01hq3v5k2m8x9n4p6r7s8t9v0w\"\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeDateFieldsOnlyWhenSet(t *testing.T) {
	t.Parallel()
	hand := &phh.HandHistory{Variant: phh.Variant, HandID: "h1"}

	out, err := phh.EncodeToBytes(hand)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "day")
	assert.NotContains(t, string(out), "month")
	assert.NotContains(t, string(out), "year")
	assert.NotContains(t, string(out), "seat_count")

	hand.Day, hand.Month, hand.Year = 14, 11, 2025
	out, err = phh.EncodeToBytes(hand)
	require.NoError(t, err)
	assert.Contains(t, string(out), "day = 14\n")
	assert.Contains(t, string(out), "month = 11\n")
	assert.Contains(t, string(out), "year = 2025\n")

	var back phh.HandHistory
	require.NoError(t, phh.Decode(bytes.NewReader(out), &back))
	assert.Equal(t, 2025, back.Year)
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()
	_, err := phh.EncodeToBytes(nil)
	assert.Error(t, err)
}
