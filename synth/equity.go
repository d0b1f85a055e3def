package synth

import (
	"math/rand"

	"github.com/pokergto/engine/abstract"
	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

// bucketEquity approximates preflop win probability per hand bucket, used
// instead of a full Equity Estimator run (spec §4.9 step 2: "bucket equity
// for preflop") since a preflop range-vs-range enumeration has no board to
// narrow it and is needlessly expensive for a number the abstraction
// already buckets coarsely. Ordered strongest-first, same as
// abstract.Abstractor's own declaration order (mirrored by mcts.bucketOrder
// for the analogous rollout-bias table).
var bucketEquity = map[abstract.HandBucket]float64{
	abstract.PremiumPair:       0.85,
	abstract.HighPair:          0.78,
	abstract.MidPair:           0.68,
	abstract.LowPair:           0.58,
	abstract.PremiumSuited:     0.64,
	abstract.PremiumOffsuit:    0.61,
	abstract.BroadwaySuited:    0.59,
	abstract.BroadwayOffsuit:   0.55,
	abstract.GoodSuited:        0.54,
	abstract.SuitedConnector:   0.52,
	abstract.DecentSuited:      0.49,
	abstract.DecentOffsuit:     0.46,
	abstract.SpeculativeSuited: 0.45,
	abstract.MediocreOffsuit:   0.41,
	abstract.WeakSuited:        0.40,
	abstract.WeakOffsuit:       0.36,
	abstract.Trash:             0.32,
}

// heroEquity computes seat's win probability in hand's current state:
// bucket equity preflop, the real Equity Estimator (against a uniform
// range of unseen cards) postflop.
func heroEquity(hand *game.HandState, seat int, tolerance float64, rng *rand.Rand) (float64, error) {
	abstractor := abstract.NewAbstractor()
	hole := hand.Players[seat].HoleCards

	if hand.Street == game.Preflop {
		bucket := abstractor.PreflopBucket(hole)
		if v, ok := bucketEquity[bucket]; ok {
			return v, nil
		}
		return 0.5, nil
	}

	cards := unpackCards(hole)
	if len(cards) != 2 {
		return 0.5, nil
	}
	heroPair := [2]poker.Card{cards[0], cards[1]}
	board := unpackCards(hand.Board)

	dead := hole
	for _, c := range board {
		dead.AddCard(c)
	}
	opp := uniformOpponentRange(dead)

	return equity.Estimate(heroPair, board, opp, tolerance, rng)
}

// uniformOpponentRange weights every combo of cards not already dead
// equally. Duplicated from cfr/tree.go's randomOpponentRange of the same
// name/purpose, consistent with this package's other small independent
// adaptations of cfr/mcts helpers.
func uniformOpponentRange(dead poker.Hand) *equity.Range {
	r := equity.NewRange()
	var unseen []poker.Card
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := poker.NewCard(rank, suit)
			if !dead.HasCard(c) {
				unseen = append(unseen, c)
			}
		}
	}
	for i := 0; i < len(unseen); i++ {
		for j := i + 1; j < len(unseen); j++ {
			r.AddCombo(unseen[i], unseen[j], 1)
		}
	}
	return r
}
