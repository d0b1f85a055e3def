// Package opponent provides simple playing styles that can sit across the
// table from the decision engine. Most are adapted from the teacher's
// websocket bot handlers (sdk/bots/*) into direct game.HandState actors: no
// protocol, no client connection, just an Agent asked to act on its own
// turn. Useful for self-play simulation and for exercising the engine
// package end to end without a real network opponent. Remote (remote.go)
// is the one exception: it does sit behind a wire protocol, for the case
// where the opponent genuinely is an out-of-process bot.
package opponent

import (
	"math/rand"
	"slices"

	"github.com/pokergto/engine/game"
)

// Agent decides one action for seat in hand. It must return one of the
// actions hand.LegalActions(seat) currently offers; amount is interpreted
// the same way game.HandState.Execute interprets it (ignored except for
// Raise, where it is the target total per-street commitment; AllIn always
// commits the whole stack).
type Agent interface {
	Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error)
}

// has reports whether legal contains action.
func has(legal []game.Action, action game.Action) bool {
	return slices.Contains(legal, action)
}

// checkOrCall returns Check if legal, else Call, else Fold — the universal
// "do the cheapest non-losing thing" fallback every bot in this package
// reaches for when its preferred action isn't on offer.
func checkOrCall(legal []game.Action) game.Action {
	if has(legal, game.Check) {
		return game.Check
	}
	if has(legal, game.Call) {
		return game.Call
	}
	return game.Fold
}

// minRaiseTo computes the smallest legal raise-to amount for seat, clamped
// to its stack — the same calculation synth/synthesizer.go's nashPicks and
// defaultAmount each perform independently for their own purposes.
func minRaiseTo(hand *game.HandState, seat int) int {
	player := hand.Players[seat]
	target := hand.Betting.CurrentBet + hand.Betting.MinRaise
	stack := player.Chips + player.Bet
	if target > stack {
		target = stack
	}
	return target
}

func allInAmount(hand *game.HandState, seat int) int {
	player := hand.Players[seat]
	return player.Chips + player.Bet
}
