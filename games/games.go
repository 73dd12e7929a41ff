// Package games implements the wagering mini-games. Each game is a pure odds
// table: given an RNG and the player's parameters it resolves to a payout
// multiplier and a detail map. Debiting the stake and crediting the payout is
// the wager service's job; games never touch balances.
package games

import (
	"errors"
	"math/rand"
	"sort"
)

// ErrBadParams indicates the caller supplied missing or malformed game
// parameters.
var ErrBadParams = errors.New("invalid game parameters")

// Result is the resolved outcome of a single play. A multiplier of 0 means
// the stake is lost; the payout is stake * Multiplier.
type Result struct {
	Multiplier float64
	Details    map[string]any
}

// Game resolves a play from an explicit RNG source. Implementations must be
// deterministic given the RNG, so seeded tests can replay outcomes.
type Game interface {
	Name() string
	Resolve(rng *rand.Rand, params map[string]string) (*Result, error)
}

// Registry holds the available games by name.
type Registry struct {
	games map[string]Game
}

// NewRegistry returns a registry with the standard game set.
func NewRegistry() *Registry {
	r := &Registry{games: make(map[string]Game)}
	r.Register(Roulette{})
	r.Register(Dice{})
	r.Register(Crash{})
	r.Register(Blackjack{})
	r.Register(Slots{})
	r.Register(Mines{})
	r.Register(HighLow{})
	r.Register(RPS{})
	r.Register(Racing{})
	return r
}

// NewEmptyRegistry returns a registry with no games registered.
func NewEmptyRegistry() *Registry {
	return &Registry{games: make(map[string]Game)}
}

// Register adds a game to the registry, replacing any game with the same name.
func (r *Registry) Register(g Game) {
	r.games[g.Name()] = g
}

// Get returns the named game, or false if it is not registered.
func (r *Registry) Get(name string) (Game, bool) {
	g, ok := r.games[name]
	return g, ok
}

// Names returns the registered game names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.games))
	for name := range r.games {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
