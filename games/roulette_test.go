package games

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouletteMultiplier_ColorBets(t *testing.T) {
	tests := []struct {
		name     string
		bet      string
		draw     int
		expected float64
	}{
		{"red bet on red number", "red", 1, 2},
		{"red bet on black number", "red", 2, 0},
		{"red bet on zero", "red", 0, 0},
		{"black bet on black number", "black", 2, 2},
		{"black bet on red number", "black", 1, 0},
		{"black bet on zero", "black", 0, 0},
		{"odd bet on odd number", "odd", 13, 2},
		{"odd bet on even number", "odd", 14, 0},
		{"odd bet on zero", "odd", 0, 0},
		{"even bet on even number", "even", 14, 2},
		{"even bet on odd number", "even", 13, 0},
		{"even bet on zero", "even", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multiplier, err := rouletteMultiplier(tt.bet, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, multiplier)
		})
	}
}

func TestRouletteMultiplier_ExactNumber(t *testing.T) {
	multiplier, err := rouletteMultiplier("17", 17)
	require.NoError(t, err)
	assert.Equal(t, float64(35), multiplier)

	multiplier, err = rouletteMultiplier("17", 18)
	require.NoError(t, err)
	assert.Equal(t, float64(0), multiplier)

	// Zero is a valid exact-number bet
	multiplier, err = rouletteMultiplier("0", 0)
	require.NoError(t, err)
	assert.Equal(t, float64(35), multiplier)
}

func TestRouletteMultiplier_BadBets(t *testing.T) {
	for _, bet := range []string{"green", "37", "-1", "seventeen", ""} {
		_, err := rouletteMultiplier(bet, 10)
		assert.True(t, errors.Is(err, ErrBadParams), "bet %q should be rejected", bet)
	}
}

func TestRouletteColor(t *testing.T) {
	assert.Equal(t, "green", rouletteColor(0))
	assert.Equal(t, "red", rouletteColor(1))
	assert.Equal(t, "black", rouletteColor(2))
	assert.Equal(t, "red", rouletteColor(36))
}

func TestRoulette_RedBlackPartition(t *testing.T) {
	// Exactly 18 reds, and 1..36 splits evenly between red and black
	assert.Len(t, rouletteReds, 18)

	blacks := 0
	for n := 1; n <= 36; n++ {
		if !rouletteReds[n] {
			blacks++
		}
	}
	assert.Equal(t, 18, blacks)
}

func TestRoulette_Resolve(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	result, err := Roulette{}.Resolve(rng, map[string]string{"bet": "red"})
	require.NoError(t, err)

	number := result.Details["number"].(int)
	assert.GreaterOrEqual(t, number, 0)
	assert.LessOrEqual(t, number, 36)
	assert.Contains(t, []float64{0, 2}, result.Multiplier)
	assert.Equal(t, rouletteColor(number), result.Details["color"])
}

func TestRoulette_Resolve_MissingBet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Roulette{}.Resolve(rng, map[string]string{})
	assert.True(t, errors.Is(err, ErrBadParams))
}

func TestRoulette_Resolve_Deterministic(t *testing.T) {
	first, err := Roulette{}.Resolve(rand.New(rand.NewSource(7)), map[string]string{"bet": "odd"})
	require.NoError(t, err)
	second, err := Roulette{}.Resolve(rand.New(rand.NewSource(7)), map[string]string{"bet": "odd"})
	require.NoError(t, err)

	assert.Equal(t, first.Details["number"], second.Details["number"])
	assert.Equal(t, first.Multiplier, second.Multiplier)
}
