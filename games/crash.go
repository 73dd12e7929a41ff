package games

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// Crash draws a crash point from a heavy-tailed distribution. The player
// names a cashout multiplier up front and wins that multiplier if the round
// crashes at or above it.
type Crash struct{}

func (Crash) Name() string { return "crash" }

const (
	crashMinCashout = 1.01
	crashMaxCashout = 100.0
	crashHouseShare = 0.97
	crashCeiling    = 1000.0
)

func (Crash) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	cashout, err := strconv.ParseFloat(params["cashout"], 64)
	if err != nil || cashout < crashMinCashout || cashout > crashMaxCashout {
		return nil, fmt.Errorf("%w: cashout must be between %.2f and %.0f", ErrBadParams, crashMinCashout, crashMaxCashout)
	}

	crashPoint := crashPoint(rng.Float64())

	multiplier := 0.0
	if crashPoint >= cashout {
		multiplier = cashout
	}

	return &Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"cashout":     cashout,
			"crash_point": math.Round(crashPoint*100) / 100,
		},
	}, nil
}

// crashPoint maps a uniform draw to a crash multiplier. The distribution
// gives P(crash >= m) = crashHouseShare/m, so a cashout at m wins with
// probability crashHouseShare/m and the game returns crashHouseShare of
// stakes in expectation.
func crashPoint(u float64) float64 {
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	point := crashHouseShare / (1 - u)
	if point < 1 {
		return 1
	}
	if point > crashCeiling {
		return crashCeiling
	}
	return point
}
