package games

import (
	"fmt"
	"math/rand"
)

// HighLow deals a face-up card (1..13) and a hidden card. The player guesses
// whether the hidden card is higher or lower; a correct guess pays 2x, and a
// tie loses.
type HighLow struct{}

func (HighLow) Name() string { return "highlow" }

func (HighLow) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	guess := params["guess"]
	if guess != "higher" && guess != "lower" {
		return nil, fmt.Errorf("%w: guess must be \"higher\" or \"lower\"", ErrBadParams)
	}

	first := rng.Intn(13) + 1
	second := rng.Intn(13) + 1

	return &Result{
		Multiplier: highLowMultiplier(guess, first, second),
		Details: map[string]any{
			"guess":  guess,
			"first":  first,
			"second": second,
		},
	}, nil
}

func highLowMultiplier(guess string, first, second int) float64 {
	won := (guess == "higher" && second > first) ||
		(guess == "lower" && second < first)
	if won {
		return 2
	}
	return 0
}
