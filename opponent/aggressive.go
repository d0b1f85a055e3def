package opponent

import (
	"math/rand"

	"github.com/pokergto/engine/game"
)

// AggressiveRaiseFrequency is how often Aggressive raises when Raise is
// legal, matching sdk/bots/aggressive/handler.go's "raises 70% of the time
// when possible."
const AggressiveRaiseFrequency = 0.7

// Aggressive raises to the table minimum most of the time when it can,
// otherwise calls, otherwise folds.
type Aggressive struct{}

func (Aggressive) Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return 0, 0, err
	}
	if has(legal, game.Raise) && rng.Float64() < AggressiveRaiseFrequency {
		return game.Raise, minRaiseTo(hand, seat), nil
	}
	return checkOrCall(legal), 0, nil
}
