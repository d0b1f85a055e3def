package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pokergto/engine/poker"
	"github.com/pokergto/engine/pokererr"
)

func handOf(t *testing.T, cards ...string) poker.Hand {
	t.Helper()
	var h poker.Hand
	for _, c := range cards {
		card, err := poker.ParseCard(c)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c, err)
		}
		h.AddCard(card)
	}
	return h
}

func newTestHand(t *testing.T, names []string, button, sb, bb, chips int) *HandState {
	t.Helper()
	return NewHand(rand.New(rand.NewSource(42)), names, button, sb, bb, WithUniformChips(chips))
}

// S3: BB option. 3-handed, blinds 0.5/1 (rounded to 1/2 in integer chips
// here), BTN calls, SB calls: action must reach BB with check and raise
// legal but not fold away the option, and checking must advance the street.
func TestBBOptionPreflop(t *testing.T) {
	h := newTestHand(t, []string{"BTN", "SB", "BB"}, 0, 1, 2, 100)

	if h.ActivePlayer != 0 {
		t.Fatalf("expected BTN (seat 0) to act first 3-handed, got seat %d", h.ActivePlayer)
	}
	if err := h.Execute(0, Call, 0); err != nil {
		t.Fatalf("BTN call: %v", err)
	}
	if err := h.Execute(1, Call, 0); err != nil {
		t.Fatalf("SB call: %v", err)
	}

	if h.ActivePlayer != 2 {
		t.Fatalf("expected action on BB (seat 2), got seat %d", h.ActivePlayer)
	}
	legal, err := h.LegalActions(2)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	if !containsAction(legal, Check) || !containsAction(legal, Raise) {
		t.Fatalf("expected BB option to include check and raise, got %v", legal)
	}
	if containsAction(legal, Fold) {
		t.Fatalf("fold must not be offered with nothing to call, got %v", legal)
	}

	if err := h.Execute(2, Check, 0); err != nil {
		t.Fatalf("BB check: %v", err)
	}
	if h.Street != Flop {
		t.Fatalf("expected street to advance to flop after BB checks, got %v", h.Street)
	}
}

// S3 continued: if BB raises to 4x the big blind, BTN and SB (both committed
// one big blind after calling) each owe 3x the big blind more to call.
func TestBBOptionRaise(t *testing.T) {
	h := newTestHand(t, []string{"BTN", "SB", "BB"}, 0, 1, 2, 100)
	mustExecute(t, h, 0, Call, 0)
	mustExecute(t, h, 1, Call, 0)
	mustExecute(t, h, 2, Raise, 8)

	toCallBTN := h.Betting.CurrentBet - h.Players[0].Bet
	toCallSB := h.Betting.CurrentBet - h.Players[1].Bet
	if toCallBTN != 6 {
		t.Errorf("expected BTN to owe 3x the big blind (6), owes %d", toCallBTN)
	}
	if toCallSB != 6 {
		t.Errorf("expected SB to owe 3x the big blind (6), owes %d", toCallSB)
	}
}

// S4: min-raise legality. currentBet 2 (BB posted), actor stack 10: raising
// to 3 is rejected (min is 4), to 4 is accepted, to 10 is accepted and
// marks the actor all-in.
func TestMinRaiseLegality(t *testing.T) {
	h := newTestHand(t, []string{"A", "B"}, 0, 1, 2, 10)
	// Heads-up: button (seat 0) posts SB and acts first preflop.
	actor := h.ActivePlayer

	if err := h.Execute(actor, Raise, 3); !errors.Is(err, pokererr.ErrIllegalAction) {
		t.Fatalf("expected ErrIllegalAction for sub-minimum raise, got %v", err)
	}
	if h.Betting.CurrentBet != 2 {
		t.Fatalf("rejected raise must not mutate state, currentBet = %d", h.Betting.CurrentBet)
	}

	if err := h.Execute(actor, Raise, 4); err != nil {
		t.Fatalf("raise to 4 should be accepted: %v", err)
	}
	if h.Betting.CurrentBet != 4 {
		t.Fatalf("expected currentBet 4, got %d", h.Betting.CurrentBet)
	}
}

func TestMinRaiseFullStackRaiseMarksAllIn(t *testing.T) {
	h := newTestHand(t, []string{"A", "B"}, 0, 1, 2, 10)
	actor := h.ActivePlayer

	if err := h.Execute(actor, Raise, 10); err != nil {
		t.Fatalf("all-in raise for the full stack should be accepted: %v", err)
	}
	if !h.Players[actor].AllInFlag {
		t.Fatalf("expected actor to be marked all-in after shoving their whole stack")
	}
}

// Spec §4.5: all-in is always offered alongside any other legal action
// while the player holds chips, not just when the stack is too short to
// cover a call or a min-raise.
func TestAllInAlwaysOfferedAlongsideRaise(t *testing.T) {
	h := newTestHand(t, []string{"A", "B"}, 0, 1, 2, 100)
	// Heads-up: button (seat 0) posts SB and acts first preflop, facing BB's
	// bet of 2 with a deep stack that covers both a call and a raise.
	actor := h.ActivePlayer

	legal, err := h.LegalActions(actor)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	if !containsAction(legal, Call) || !containsAction(legal, Raise) {
		t.Fatalf("expected Call and Raise both legal, got %v", legal)
	}
	if !containsAction(legal, AllIn) {
		t.Fatalf("expected AllIn to be offered alongside Call/Raise, got %v", legal)
	}

	mustExecute(t, h, actor, Call, 0)

	// BB now faces no further bet to call (button only called), so it gets
	// check/raise, but AllIn must still be offered alongside them.
	bb := (actor + 1) % len(h.Players)
	legal, err = h.LegalActions(bb)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	if !containsAction(legal, Check) || !containsAction(legal, Raise) {
		t.Fatalf("expected Check and Raise both legal, got %v", legal)
	}
	if !containsAction(legal, AllIn) {
		t.Fatalf("expected AllIn to be offered alongside Check/Raise, got %v", legal)
	}
}

// S5: side pots. A (20, all-in) vs B (50) vs C (50): main pot {A,B,C} at 20
// each = 60, side pot {B,C} at 30 each = 60.
func TestSidePots(t *testing.T) {
	players := []*Player{
		{Seat: 0, Name: "A", TotalBet: 20, AllInFlag: true},
		{Seat: 1, Name: "B", TotalBet: 50},
		{Seat: 2, Name: "C", TotalBet: 50},
	}
	pm := NewPotManager(players)
	pm.CalculateSidePots(players)
	pots := pm.GetPots()

	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %d", len(pots))
	}
	if pots[0].Amount != 60 || len(pots[0].Eligible) != 3 {
		t.Errorf("main pot = %+v, want amount 60 eligible [0 1 2]", pots[0])
	}
	if pots[1].Amount != 60 || len(pots[1].Eligible) != 2 {
		t.Errorf("side pot = %+v, want amount 60 eligible [1 2]", pots[1])
	}
}

func TestExecuteUnknownPlayer(t *testing.T) {
	h := newTestHand(t, []string{"A", "B"}, 0, 1, 2, 100)
	if err := h.Execute(5, Call, 0); !errors.Is(err, pokererr.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestExecuteOutOfTurnIsIllegal(t *testing.T) {
	h := newTestHand(t, []string{"A", "B", "C"}, 0, 1, 2, 100)
	notOnAct := (h.ActivePlayer + 1) % len(h.Players)
	if err := h.Execute(notOnAct, Call, 0); !errors.Is(err, pokererr.ErrIllegalAction) {
		t.Fatalf("expected ErrIllegalAction for out-of-turn action, got %v", err)
	}
}

// Invariant 5: after any Execute, the history grows by exactly one entry.
func TestHistoryGrowsByOneEntryPerExecute(t *testing.T) {
	h := newTestHand(t, []string{"A", "B", "C"}, 0, 1, 2, 100)
	before := len(h.History)
	if err := h.Execute(h.ActivePlayer, Call, 0); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(h.History) != before+1 {
		t.Fatalf("expected history to grow by 1, went from %d to %d", before, len(h.History))
	}
}

// Exact tie-split: two players with an identical king-high hand should
// split the pot evenly, with an odd remainder to the earliest seat after
// the dealer.
func TestSettleSplitsExactTies(t *testing.T) {
	h := newTestHand(t, []string{"A", "B"}, 0, 1, 2, 100)
	board := handOf(t, "2c", "7d", "9h", "Jc", "Qs")
	h.Board = board
	h.Street = Showdown
	h.Players[0].HoleCards = handOf(t, "Ks", "4h")
	h.Players[1].HoleCards = handOf(t, "Kh", "4d")
	h.Players[0].Bet = 0
	h.Players[1].Bet = 0
	h.PotManager = &PotManager{pots: []Pot{{Amount: 101, Eligible: []int{0, 1}}}}

	payouts := h.Settle()
	if payouts[0]+payouts[1] != 101 {
		t.Fatalf("expected full pot distributed, got %d", payouts[0]+payouts[1])
	}
	if payouts[1] != 51 {
		t.Fatalf("expected the odd chip to go to seat 1, the first seat after the dealer, got %v", payouts)
	}
}

func mustExecute(t *testing.T, h *HandState, seat int, action Action, amount int) {
	t.Helper()
	if err := h.Execute(seat, action, amount); err != nil {
		t.Fatalf("Execute(seat=%d, action=%v, amount=%d): %v", seat, action, amount, err)
	}
}
