package synth

import (
	"github.com/pokergto/engine/abstract"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/nash"
)

// Modality names which solver answered a decision, surfaced on
// DecisionProfile so callers (and tests) can see the routing choice spec
// §4.9 step 3 describes.
type Modality string

const (
	ModalityNash Modality = "nash"
	ModalityCFR  Modality = "cfr"
	ModalityMCTS Modality = "mcts"
)

// nashPosition maps a seat to the push/fold table's three-way position
// enum. Only the button, small blind, and big blind are recognized; any
// other seat (early/middle position at a full table) falls outside the
// table's covered universe.
func nashPosition(hand *game.HandState, seat int) (nash.Position, bool) {
	switch seat {
	case hand.Button:
		// Heads-up: the button also posts the small blind, so this case
		// wins ahead of the SmallBlindSeat case below.
		return nash.BTN, true
	case hand.SmallBlindSeat():
		return nash.SB, true
	case hand.BigBlindSeat():
		return nash.BB, true
	default:
		return "", false
	}
}

// recognizeSituation classifies the preflop action facing seat into one of
// the three situations the Nash table distributes over, per spec §4.6/§4.9.
// A 3-bet-or-wider pot (more than one raise/shove before seat acts) isn't
// covered by the push/fold table, so it reports unrecognized.
func recognizeSituation(hand *game.HandState) (nash.Situation, bool) {
	raises, calls := 0, 0
	for _, rec := range hand.History {
		if rec.Street != game.Preflop {
			continue
		}
		switch rec.Action {
		case game.Raise, game.AllIn:
			raises++
		case game.Call:
			calls++
		}
	}
	switch {
	case raises >= 2:
		return "", false
	case raises == 1:
		return nash.VsPush, true
	case calls > 0:
		return nash.VsLimp, true
	default:
		return nash.Open, true
	}
}

// effectiveStackBB is the shortest stack among seats still live in the
// hand, in big blinds — the standard push/fold convention that the
// shortest stack governs shove/fold math for everyone at the table.
func effectiveStackBB(hand *game.HandState) float64 {
	bb := hand.Betting.BigBlind
	if bb <= 0 {
		return 0
	}
	shortest := -1
	for _, p := range hand.Players {
		if p.Folded {
			continue
		}
		total := p.Chips + p.Bet
		if shortest < 0 || total < shortest {
			shortest = total
		}
	}
	if shortest < 0 {
		return 0
	}
	return float64(shortest) / float64(bb)
}

// nashEligible reports whether hand's current decision for seat falls
// inside the Nash table's covered range: preflop, a recognized position and
// situation, and a stack depth the push/fold table actually models (spec
// §4.9 step 3). The table's bucket universe tops out at 40bb; stacks much
// deeper than that play a post-flop game the push/fold chart doesn't
// capture, so routing falls through to CFR/MCTS instead of silently
// snapping a 100bb stack down to the 40bb bucket.
func nashEligible(hand *game.HandState, seat int) (nash.Key, bool) {
	if hand.Street != game.Preflop {
		return nash.Key{}, false
	}
	pos, ok := nashPosition(hand, seat)
	if !ok {
		return nash.Key{}, false
	}
	sit, ok := recognizeSituation(hand)
	if !ok {
		return nash.Key{}, false
	}
	stackBB := effectiveStackBB(hand)
	if stackBB <= 0 || stackBB > 50 {
		return nash.Key{}, false
	}
	notation, err := holeCardsToNotation(hand.Players[seat].HoleCards)
	if err != nil {
		return nash.Key{}, false
	}
	return nash.Key{
		Notation:  notation,
		Position:  pos,
		Situation: sit,
		Stack:     nash.ForStack(stackBB),
	}, true
}

// cfrEligible reports whether the decision is a deep-postflop spot CFR's
// shallow, abstracted real-time tree can still resolve well: a late street
// with few cards left to come, per spec §4.9 step 3's "river, turn with few
// draws, depth manageable." A wet/very-wet turn board carries enough live
// draws that a one-card-to-come abstraction would badly misprice it, so
// only a dry or semi-wet turn routes to CFR; river has no card left to
// come at all.
func cfrEligible(hand *game.HandState) bool {
	switch hand.Street {
	case game.River:
		return true
	case game.Turn:
		texture := abstract.AnalyzeBoardTexture(hand.Board)
		return texture == abstract.Dry || texture == abstract.SemiWet
	default:
		return false
	}
}
