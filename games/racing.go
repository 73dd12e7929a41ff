package games

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Racing runs a five-lane race. Backing the winning lane pays 4.75x.
type Racing struct{}

func (Racing) Name() string { return "racing" }

const (
	racingLanes      = 5
	racingMultiplier = 4.75
)

func (Racing) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	lane, err := strconv.Atoi(params["lane"])
	if err != nil || lane < 1 || lane > racingLanes {
		return nil, fmt.Errorf("%w: lane must be between 1 and %d", ErrBadParams, racingLanes)
	}

	winner := rng.Intn(racingLanes) + 1

	multiplier := 0.0
	if lane == winner {
		multiplier = racingMultiplier
	}

	return &Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"lane":   lane,
			"winner": winner,
		},
	}, nil
}
