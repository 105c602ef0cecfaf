package game

import (
	"fmt"
	"slices"
	"strings"
)

// Blinds is the small/big blind pair posted each hand
type Blinds struct {
	Small int
	Big   int
}

func (b Blinds) String() string {
	return fmt.Sprintf("%d/%d", b.Small, b.Big)
}

// blindTiers are the recognized blind levels
var blindTiers = map[string]Blinds{
	"10/25":  {Small: 10, Big: 25},
	"25/50":  {Small: 25, Big: 50},
	"50/100": {Small: 50, Big: 100},
}

// ParseBlinds looks up a recognized tier such as "50/100"
func ParseBlinds(tier string) (Blinds, error) {
	b, ok := blindTiers[strings.TrimSpace(tier)]
	if !ok {
		return Blinds{}, fmt.Errorf("%q (want one of %s): %w", tier, strings.Join(BlindTiers(), ", "), ErrUnknownBlinds)
	}
	return b, nil
}

// BlindTiers lists the recognized tiers, smallest first
func BlindTiers() []string {
	tiers := make([]string, 0, len(blindTiers))
	for k := range blindTiers {
		tiers = append(tiers, k)
	}
	slices.SortFunc(tiers, func(a, b string) int {
		return blindTiers[a].Big - blindTiers[b].Big
	})
	return tiers
}
