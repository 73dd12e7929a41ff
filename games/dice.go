package games

import (
	"fmt"
	"math/rand"
)

// Dice rolls two dice. "high" wins on a total of 8-12, "low" on 2-6, both
// paying 2x; "seven" pays 5x on an exact 7.
type Dice struct{}

func (Dice) Name() string { return "dice" }

func (Dice) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	bet := params["bet"]

	die1 := rng.Intn(6) + 1
	die2 := rng.Intn(6) + 1
	total := die1 + die2

	multiplier, err := diceMultiplier(bet, total)
	if err != nil {
		return nil, err
	}

	return &Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"bet":   bet,
			"dice":  []int{die1, die2},
			"total": total,
		},
	}, nil
}

func diceMultiplier(bet string, total int) (float64, error) {
	switch bet {
	case "high":
		if total > 7 {
			return 2, nil
		}
		return 0, nil
	case "low":
		if total < 7 {
			return 2, nil
		}
		return 0, nil
	case "seven":
		if total == 7 {
			return 5, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: unknown dice bet %q", ErrBadParams, bet)
	}
}
