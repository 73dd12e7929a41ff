package games

import (
	"math/rand"
)

// Blackjack plays one heads-up round against the dealer from an infinite
// shoe. Both hands draw to 17 under dealer rules. A win pays 2x, a push
// returns the stake, and a natural blackjack pays 2.5x.
type Blackjack struct{}

func (Blackjack) Name() string { return "blackjack" }

func (Blackjack) Resolve(rng *rand.Rand, params map[string]string) (*Result, error) {
	player := []int{drawCard(rng), drawCard(rng)}
	dealer := []int{drawCard(rng), drawCard(rng)}

	playerNatural := handValue(player) == 21
	dealerNatural := handValue(dealer) == 21

	player = drawTo17(rng, player)
	dealer = drawTo17(rng, dealer)

	return &Result{
		Multiplier: blackjackMultiplier(handValue(player), handValue(dealer), playerNatural, dealerNatural),
		Details: map[string]any{
			"player":       player,
			"dealer":       dealer,
			"player_total": handValue(player),
			"dealer_total": handValue(dealer),
		},
	}, nil
}

// drawCard returns a card value 1..10 with face cards counting 10, matching
// per-rank odds of a real deck.
func drawCard(rng *rand.Rand) int {
	rank := rng.Intn(13) + 1
	if rank > 10 {
		return 10
	}
	return rank
}

// handValue totals a hand, counting one ace as 11 when it does not bust.
func handValue(hand []int) int {
	total := 0
	aces := 0
	for _, card := range hand {
		total += card
		if card == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		total += 10
	}
	return total
}

func drawTo17(rng *rand.Rand, hand []int) []int {
	for handValue(hand) < 17 {
		hand = append(hand, drawCard(rng))
	}
	return hand
}

func blackjackMultiplier(player, dealer int, playerNatural, dealerNatural bool) float64 {
	switch {
	case playerNatural && dealerNatural:
		return 1
	case playerNatural:
		return 2.5
	case player > 21:
		return 0
	case dealer > 21:
		return 2
	case player > dealer:
		return 2
	case player == dealer:
		return 1
	default:
		return 0
	}
}
