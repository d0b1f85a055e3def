package opponent

import (
	"math/rand"

	"github.com/pokergto/engine/game"
)

// Random picks uniformly among its currently legal actions, raising to the
// table minimum whenever Raise is the one picked — sdk/bots/random/
// handler.go's "random strategy that makes random valid actions", adapted
// from its simplified raise-only protocol (no separate "bet") to this
// engine's identical Raise-collapses-bet convention.
type Random struct{}

func (Random) Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return 0, 0, err
	}
	action := legal[rng.Intn(len(legal))]
	amount := 0
	switch action {
	case game.Raise:
		amount = minRaiseTo(hand, seat)
	case game.AllIn:
		amount = allInAmount(hand, seat)
	}
	return action, amount, nil
}
