package games

import (
	"math/rand"
)

// Slots spins three weighted reels. Triple sevens pay 25x, any other triple
// pays 8x, a pair pays 2x.
type Slots struct{}

func (Slots) Name() string { return "slots" }

type slotSymbol struct {
	name   string
	weight int
}

// Heavier symbols land more often; seven is the rare jackpot symbol.
var slotReel = []slotSymbol{
	{"cherry", 5},
	{"lemon", 5},
	{"orange", 4},
	{"bell", 3},
	{"bar", 2},
	{"seven", 1},
}

var slotReelWeight = func() int {
	total := 0
	for _, s := range slotReel {
		total += s.weight
	}
	return total
}()

func (Slots) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	reels := []string{
		spinReel(rng),
		spinReel(rng),
		spinReel(rng),
	}

	return &Result{
		Multiplier: slotsMultiplier(reels[0], reels[1], reels[2]),
		Details: map[string]any{
			"reels": reels,
		},
	}, nil
}

func spinReel(rng *rand.Rand) string {
	draw := rng.Intn(slotReelWeight)
	for _, s := range slotReel {
		draw -= s.weight
		if draw < 0 {
			return s.name
		}
	}
	return slotReel[len(slotReel)-1].name
}

func slotsMultiplier(a, b, c string) float64 {
	switch {
	case a == b && b == c && a == "seven":
		return 25
	case a == b && b == c:
		return 8
	case a == b || b == c || a == c:
		return 2
	default:
		return 0
	}
}
