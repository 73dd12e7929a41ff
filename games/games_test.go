package games

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StandardGames(t *testing.T) {
	registry := NewRegistry()

	expected := []string{
		"blackjack", "crash", "dice", "highlow", "mines",
		"racing", "roulette", "rps", "slots",
	}
	assert.Equal(t, expected, registry.Names())

	for _, name := range expected {
		g, ok := registry.Get(name)
		require.True(t, ok, "game %s should be registered", name)
		assert.Equal(t, name, g.Name())
	}

	_, ok := registry.Get("poker")
	assert.False(t, ok)
}

func TestRegistry_Empty(t *testing.T) {
	registry := NewEmptyRegistry()
	assert.Empty(t, registry.Names())

	registry.Register(Dice{})
	assert.Equal(t, []string{"dice"}, registry.Names())
}

func TestDiceMultiplier(t *testing.T) {
	tests := []struct {
		bet      string
		total    int
		expected float64
	}{
		{"high", 8, 2},
		{"high", 12, 2},
		{"high", 7, 0},
		{"high", 6, 0},
		{"low", 2, 2},
		{"low", 6, 2},
		{"low", 7, 0},
		{"seven", 7, 5},
		{"seven", 8, 0},
	}

	for _, tt := range tests {
		multiplier, err := diceMultiplier(tt.bet, tt.total)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, multiplier, "bet %s on total %d", tt.bet, tt.total)
	}

	_, err := diceMultiplier("eleven", 11)
	assert.True(t, errors.Is(err, ErrBadParams))
}

func TestHighLowMultiplier(t *testing.T) {
	assert.Equal(t, float64(2), highLowMultiplier("higher", 5, 9))
	assert.Equal(t, float64(2), highLowMultiplier("lower", 9, 5))
	assert.Equal(t, float64(0), highLowMultiplier("higher", 9, 5))
	assert.Equal(t, float64(0), highLowMultiplier("lower", 5, 9))
	// Ties lose either way
	assert.Equal(t, float64(0), highLowMultiplier("higher", 7, 7))
	assert.Equal(t, float64(0), highLowMultiplier("lower", 7, 7))
}

func TestHighLow_BadGuess(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := HighLow{}.Resolve(rng, map[string]string{"guess": "same"})
	assert.True(t, errors.Is(err, ErrBadParams))
}

func TestRPSMultiplier(t *testing.T) {
	assert.Equal(t, float64(2), rpsMultiplier("rock", "scissors"))
	assert.Equal(t, float64(2), rpsMultiplier("paper", "rock"))
	assert.Equal(t, float64(2), rpsMultiplier("scissors", "paper"))
	assert.Equal(t, float64(1), rpsMultiplier("rock", "rock"))
	assert.Equal(t, float64(0), rpsMultiplier("rock", "paper"))
}

func TestSlotsMultiplier(t *testing.T) {
	assert.Equal(t, float64(25), slotsMultiplier("seven", "seven", "seven"))
	assert.Equal(t, float64(8), slotsMultiplier("cherry", "cherry", "cherry"))
	assert.Equal(t, float64(2), slotsMultiplier("cherry", "cherry", "bar"))
	assert.Equal(t, float64(2), slotsMultiplier("bar", "cherry", "bar"))
	assert.Equal(t, float64(0), slotsMultiplier("cherry", "lemon", "bar"))
}

func TestMinesMultiplier(t *testing.T) {
	// One pick with one mine: survival odds 24/25, payout 25/24 * 0.97
	expected := 25.0 / 24.0 * 0.97
	assert.InDelta(t, expected, minesMultiplier(1, 1), 1e-9)

	// Multiplier grows with both mines and picks
	assert.Greater(t, minesMultiplier(5, 1), minesMultiplier(1, 1))
	assert.Greater(t, minesMultiplier(1, 5), minesMultiplier(1, 1))
}

func TestMines_Resolve_BadParams(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	cases := []map[string]string{
		{"mines": "0", "picks": "1"},
		{"mines": "25", "picks": "1"},
		{"mines": "24", "picks": "2"}, // only one safe cell
		{"mines": "3", "picks": "0"},
		{"picks": "1"},
	}
	for _, params := range cases {
		_, err := Mines{}.Resolve(rng, params)
		assert.True(t, errors.Is(err, ErrBadParams), "params %v should be rejected", params)
	}
}

func TestMines_Resolve_LossOrFullPayout(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	// Many plays: the multiplier is always either 0 or the full table value
	for i := 0; i < 50; i++ {
		result, err := Mines{}.Resolve(rng, map[string]string{"mines": "5", "picks": "3"})
		require.NoError(t, err)
		if result.Multiplier != 0 {
			assert.InDelta(t, minesMultiplier(5, 3), result.Multiplier, 1e-9)
			assert.Equal(t, 3, result.Details["uncovered"])
		}
	}
}

func TestCrashPoint(t *testing.T) {
	// Low draws crash immediately at the floor
	assert.Equal(t, 1.0, crashPoint(0))

	// P(crash >= 2) should be 0.97/2: the draw at u = 1 - 0.97/2 maps to 2
	assert.InDelta(t, 2.0, crashPoint(1-0.97/2), 1e-9)

	// Tail is clamped at the ceiling, and u=1 does not divide by zero
	assert.Equal(t, 1000.0, crashPoint(0.9999999))
	assert.False(t, math.IsInf(crashPoint(1), 1))
}

func TestCrash_Resolve(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	result, err := Crash{}.Resolve(rng, map[string]string{"cashout": "2.0"})
	require.NoError(t, err)
	assert.Contains(t, []float64{0, 2.0}, result.Multiplier)

	_, err = Crash{}.Resolve(rng, map[string]string{"cashout": "1.0"})
	assert.True(t, errors.Is(err, ErrBadParams))
	_, err = Crash{}.Resolve(rng, map[string]string{"cashout": "500"})
	assert.True(t, errors.Is(err, ErrBadParams))
}

func TestBlackjackHandValue(t *testing.T) {
	assert.Equal(t, 21, handValue([]int{1, 10}))  // soft ace
	assert.Equal(t, 12, handValue([]int{1, 1}))   // one ace promotes
	assert.Equal(t, 14, handValue([]int{1, 10, 3}))
	assert.Equal(t, 20, handValue([]int{10, 10}))
	assert.Equal(t, 25, handValue([]int{10, 10, 5}))
}

func TestBlackjackMultiplier(t *testing.T) {
	assert.Equal(t, 2.5, blackjackMultiplier(21, 18, true, false))
	assert.Equal(t, 1.0, blackjackMultiplier(21, 21, true, true))
	assert.Equal(t, 0.0, blackjackMultiplier(22, 18, false, false)) // player bust
	assert.Equal(t, 2.0, blackjackMultiplier(18, 22, false, false)) // dealer bust
	assert.Equal(t, 2.0, blackjackMultiplier(20, 18, false, false))
	assert.Equal(t, 1.0, blackjackMultiplier(19, 19, false, false)) // push
	assert.Equal(t, 0.0, blackjackMultiplier(18, 20, false, false))
}

func TestBlackjack_Resolve_DealerRules(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	result, err := Blackjack{}.Resolve(rng, map[string]string{})
	require.NoError(t, err)

	// Both hands drew to at least 17
	assert.GreaterOrEqual(t, result.Details["player_total"].(int), 17)
	assert.GreaterOrEqual(t, result.Details["dealer_total"].(int), 17)
}

func TestRacing_Resolve(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	result, err := Racing{}.Resolve(rng, map[string]string{"lane": "3"})
	require.NoError(t, err)
	assert.Contains(t, []float64{0, 4.75}, result.Multiplier)

	winner := result.Details["winner"].(int)
	assert.GreaterOrEqual(t, winner, 1)
	assert.LessOrEqual(t, winner, 5)

	_, err = Racing{}.Resolve(rng, map[string]string{"lane": "6"})
	assert.True(t, errors.Is(err, ErrBadParams))
	_, err = Racing{}.Resolve(rng, map[string]string{})
	assert.True(t, errors.Is(err, ErrBadParams))
}

func TestSpinReel_AllSymbolsReachable(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[spinReel(rng)] = true
	}
	for _, s := range slotReel {
		assert.True(t, seen[s.name], "symbol %s never drawn", s.name)
	}
}
