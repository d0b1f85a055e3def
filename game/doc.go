// Package game implements the betting state machine for No-Limit Hold'em
// hands: seating and blinds, legal-action computation, action execution,
// street advancement, and pot settlement (including side pots and exact
// tie splits).
//
// The main type is HandState, which owns the authoritative GameState for an
// in-progress hand. Callers never mutate street, pots, or actionOn directly;
// every transition goes through Execute, which validates the action against
// LegalActions and then calls advance internally.
//
// # Basic Usage
//
//	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
//	h := game.NewHand(rng, []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
//	if err := h.Execute(h.ActivePlayer, game.Call, 0); err != nil {
//	    // err wraps one of pokererr.ErrIllegalAction, ErrUnknownPlayer, ErrHandEnded
//	}
//	if h.IsComplete() {
//	    payouts := h.Settle()
//	}
//
// # Architecture
//
// HandState delegates to specialized components:
//   - BettingRound: per-street betting state and legal-action computation.
//   - PotManager: main/side pot collection and eligibility tracking.
//   - poker.Deck: shuffled cards with an injectable RNG.
//   - poker.BestOf7 / poker.CompareHands: showdown hand strength.
//
// Each hand is independent and stateless relative to any other hand.
package game
