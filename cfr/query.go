package cfr

import "github.com/pokergto/engine/game"

// Decision mirrors the package-private decision type for callers outside
// cfr (the decision synthesizer) that need to align a queried strategy with
// concrete legal actions.
type Decision struct {
	Action game.Action
	Amount int
}

// Strategy returns the trainer's current average strategy for seat's legal
// decisions at hand's present state, index-aligned with the returned
// decisions. It looks up (and lazily creates) the regret entry for the
// bucketed info set but does not advance training.
func (t *Trainer) Strategy(hand *game.HandState, seat int) ([]Decision, []float64) {
	decisions := t.tree.decisionsFor(hand, seat)
	if len(decisions) == 0 {
		return nil, nil
	}

	key := t.bucket.InfoSet(hand, seat, hand.History)
	entry := t.regrets.Get(key, len(decisions))
	avg := entry.AverageStrategy()

	out := make([]Decision, len(decisions))
	for i, d := range decisions {
		out[i] = Decision{Action: d.action, Amount: d.amount}
	}
	return out, avg
}
