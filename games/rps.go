package games

import (
	"fmt"
	"math/rand"
)

// RPS plays rock-paper-scissors against the house. A win pays 2x and a tie
// returns the stake.
type RPS struct{}

func (RPS) Name() string { return "rps" }

var rpsMoves = []string{"rock", "paper", "scissors"}

// rpsBeats maps each move to the move it defeats.
var rpsBeats = map[string]string{
	"rock":     "scissors",
	"paper":    "rock",
	"scissors": "paper",
}

func (RPS) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	move := params["move"]
	if _, ok := rpsBeats[move]; !ok {
		return nil, fmt.Errorf("%w: move must be rock, paper or scissors", ErrBadParams)
	}

	house := rpsMoves[rng.Intn(3)]

	return &Result{
		Multiplier: rpsMultiplier(move, house),
		Details: map[string]any{
			"move":       move,
			"house_move": house,
		},
	}, nil
}

func rpsMultiplier(move, house string) float64 {
	switch {
	case move == house:
		return 1
	case rpsBeats[move] == house:
		return 2
	default:
		return 0
	}
}
