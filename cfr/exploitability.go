package cfr

import (
	"math/rand"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/internal/randutil"
	"github.com/pokergto/engine/poker"
)

// exploitabilitySamples is the number of fixed-seed self-play hands
// averaged into one Exploitability() estimate. The game tree is too large
// to enumerate exactly, so this is itself a Monte Carlo approximation of
// the best-response value spec §4.7 describes.
const exploitabilitySamples = 64

// exploitabilitySeed is fixed (not derived from the trainer's running RNG)
// so that repeated calls mid-training measure against the same hands,
// isolating drift in the strategy itself rather than in sample noise.
const exploitabilitySeed = 0x4558504c4f4954 // "EXPLOIT" in hex, arbitrary but stable

// Exploitability estimates distance from Nash equilibrium: for each player,
// the per-hand value of a best response to the opponent's average strategy,
// averaged over the sampled hands and then across both players (spec §4.7's
// stopping heuristic).
func (t *Trainer) Exploitability() float64 {
	sampler := randutil.New(exploitabilitySeed)

	total := 0.0
	for i := 0; i < exploitabilitySamples; i++ {
		deck := poker.NewDeck(legacyRand(sampler.Int64()))
		names := []string{"P0", "P1"}
		button := sampler.IntN(2)

		for brPlayer := 0; brPlayer < 2; brPlayer++ {
			handDeck := *deck
			hand := game.NewHand(legacyRand(sampler.Int64()), names, button, t.train.SmallBlind, t.train.BigBlind,
				game.WithUniformChips(t.train.StartingStack), game.WithDeck(&handDeck))
			total += t.bestResponseValue(hand, brPlayer, 0, legacyRand(sampler.Int64()))
		}
	}
	return total / float64(2*exploitabilitySamples)
}

// bestResponseValue recurses like traverse, but brPlayer always picks the
// child with the highest value (an exact best response) while the opponent
// plays their current average strategy rather than being sampled or
// branched over.
func (t *Trainer) bestResponseValue(hand *game.HandState, brPlayer int, depth int, rng *rand.Rand) float64 {
	if hand.IsComplete() {
		return settleUtility(hand, brPlayer)
	}
	if depth >= t.abs.DepthBudget {
		return estimateUtility(hand, brPlayer, rng)
	}

	seat := hand.ActivePlayer
	if seat < 0 {
		return settleUtility(hand, brPlayer)
	}

	decisions := t.tree.decisionsFor(hand, seat)
	if len(decisions) == 0 {
		return settleUtility(hand, brPlayer)
	}

	if seat == brPlayer {
		best := 0.0
		for i, d := range decisions {
			child := cloneHand(hand)
			if err := child.Execute(seat, d.action, d.amount); err != nil {
				continue
			}
			v := t.bestResponseValue(child, brPlayer, depth+1, rng)
			if i == 0 || v > best {
				best = v
			}
		}
		return best
	}

	key := t.bucket.InfoSet(hand, seat, hand.History)
	entry := t.regrets.Get(key, len(decisions))
	strategy := entry.AverageStrategy()

	expected := 0.0
	for i, d := range decisions {
		prob := strategy[i]
		if prob <= 0 {
			continue
		}
		child := cloneHand(hand)
		if err := child.Execute(seat, d.action, d.amount); err != nil {
			continue
		}
		expected += prob * t.bestResponseValue(child, brPlayer, depth+1, rng)
	}
	return expected
}
