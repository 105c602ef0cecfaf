package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:     "spaces ignored",
			input:    "2c 3d",
			expected: []Card{{Suit: Clubs, Rank: Two}, {Suit: Diamonds, Rank: Three}},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardFormatting(t *testing.T) {
	t.Parallel()
	c := NewCard(Hearts, Ten)
	assert.Equal(t, "T♥", c.String())
	assert.Equal(t, "Th", c.Short())
	assert.True(t, c.IsRed())
	assert.Equal(t, "AsTh", FormatCards([]Card{NewCard(Spades, Ace), c}))
	assert.False(t, Card{}.Valid())
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustParseCards("invalid") })
}
