package opponent

import (
	"math/rand"

	"github.com/pokergto/engine/game"
)

// CallingStation always checks or calls, never folding voluntarily and
// never raising, per sdk/bots/callingstation/handler.go's "calling station
// strategy that always calls or checks."
type CallingStation struct{}

func (CallingStation) Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return 0, 0, err
	}
	if has(legal, game.Check) {
		return game.Check, 0, nil
	}
	if has(legal, game.Call) {
		return game.Call, 0, nil
	}
	return game.Fold, 0, nil
}
