package games

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Roulette draws a number from 0..36. Color and parity bets pay 2x on match;
// an exact-number bet pays 35x. Zero is green and loses every outside bet.
type Roulette struct{}

func (Roulette) Name() string { return "roulette" }

var rouletteReds = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func (Roulette) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	bet := params["bet"]
	if bet == "" {
		return nil, fmt.Errorf("%w: missing bet", ErrBadParams)
	}

	draw := rng.Intn(37)

	multiplier, err := rouletteMultiplier(bet, draw)
	if err != nil {
		return nil, err
	}

	return &Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"bet":    bet,
			"number": draw,
			"color":  rouletteColor(draw),
		},
	}, nil
}

// rouletteMultiplier returns the payout multiplier for a bet against a drawn
// number.
func rouletteMultiplier(bet string, draw int) (float64, error) {
	switch bet {
	case "red":
		if rouletteReds[draw] {
			return 2, nil
		}
		return 0, nil
	case "black":
		if draw != 0 && !rouletteReds[draw] {
			return 2, nil
		}
		return 0, nil
	case "odd":
		if draw != 0 && draw%2 == 1 {
			return 2, nil
		}
		return 0, nil
	case "even":
		if draw != 0 && draw%2 == 0 {
			return 2, nil
		}
		return 0, nil
	}

	number, err := strconv.Atoi(bet)
	if err != nil || number < 0 || number > 36 {
		return 0, fmt.Errorf("%w: unknown roulette bet %q", ErrBadParams, bet)
	}
	if number == draw {
		return 35, nil
	}
	return 0, nil
}

func rouletteColor(n int) string {
	switch {
	case n == 0:
		return "green"
	case rouletteReds[n]:
		return "red"
	default:
		return "black"
	}
}
