package games

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Mines hides mines on a 5x5 board. The player declares how many cells to
// uncover; surviving every pick pays a multiplier that grows with both the
// mine count and the number of picks.
type Mines struct{}

func (Mines) Name() string { return "mines" }

const (
	minesBoardSize  = 25
	minesHouseShare = 0.97
)

func (Mines) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	mines, err := strconv.Atoi(params["mines"])
	if err != nil || mines < 1 || mines > minesBoardSize-1 {
		return nil, fmt.Errorf("%w: mines must be between 1 and %d", ErrBadParams, minesBoardSize-1)
	}
	picks, err := strconv.Atoi(params["picks"])
	if err != nil || picks < 1 || picks > minesBoardSize-mines {
		return nil, fmt.Errorf("%w: picks must be between 1 and %d", ErrBadParams, minesBoardSize-mines)
	}

	// Uncover cells one at a time; each pick draws from the cells that
	// remain on the board.
	survived := 0
	for i := 0; i < picks; i++ {
		remaining := minesBoardSize - i
		if rng.Intn(remaining) < mines {
			break
		}
		survived++
	}

	multiplier := 0.0
	if survived == picks {
		multiplier = minesMultiplier(mines, picks)
	}

	return &Result{
		Multiplier: multiplier,
		Details: map[string]any{
			"mines":     mines,
			"picks":     picks,
			"uncovered": survived,
		},
	}, nil
}

// minesMultiplier is the near-fair payout for surviving picks cells: the
// inverse of the survival probability, scaled by the house share.
func minesMultiplier(mines, picks int) float64 {
	multiplier := 1.0
	for i := 0; i < picks; i++ {
		safe := float64(minesBoardSize - mines - i)
		total := float64(minesBoardSize - i)
		multiplier *= total / safe
	}
	return multiplier * minesHouseShare
}
