package engine_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pokergto/engine"
	"github.com/pokergto/engine/config"
	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	resolved, err := config.EngineConfig{}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Keep MCTS fast enough for a test.
	resolved.Search.MaxIterations = 200
	resolved.Search.TimeBudget = time.Second

	e, err := engine.New(resolved)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

func TestNewGameAndGetState(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h := engine.NewGame(rng, []string{"hero", "villain"}, 1, 2, game.WithUniformChips(200))

	state := h.GetState()
	if len(state.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(state.Players))
	}
	if state.Pot != 3 { // small blind 1 + big blind 2, heads-up
		t.Fatalf("expected pot of 3 (blinds), got %d", state.Pot)
	}
	if state.Street != game.Preflop {
		t.Fatalf("expected preflop, got %s", state.Street)
	}
	if state.ActionOn < 0 {
		t.Fatal("expected a player on action at the start of a hand")
	}
	for _, p := range state.Players {
		if len(p.HoleCards) != 2 {
			t.Fatalf("seat %d: expected 2 hole cards, got %d", p.Seat, len(p.HoleCards))
		}
	}
}

func TestLegalActionsAndExecuteAction(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	h := engine.NewGame(rng, []string{"hero", "villain"}, 1, 2, game.WithUniformChips(200))

	state := h.GetState()
	legal, err := h.LegalActions(state.ActionOn)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	if len(legal) == 0 {
		t.Fatal("expected at least one legal action for the player on action")
	}

	if err := h.ExecuteAction(state.ActionOn, game.Fold, 0); err != nil {
		t.Fatalf("ExecuteAction(Fold): %v", err)
	}
	after := h.GetState()
	if after.ActionOn != -1 {
		t.Fatal("a heads-up fold should end the hand")
	}
}

func TestExecuteActionRejectsIllegalAction(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	h := engine.NewGame(rng, []string{"hero", "villain"}, 1, 2, game.WithUniformChips(200))
	state := h.GetState()

	other := 1 - state.ActionOn
	if err := h.ExecuteAction(other, game.Fold, 0); err == nil {
		t.Fatal("expected an error when the wrong seat acts")
	}
}

func TestSolveReturnsWellFormedProfile(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(4))
	h := engine.NewGame(rng, []string{"hero", "villain"}, 1, 2, game.WithUniformChips(200))
	state := h.GetState()

	profile, err := e.Solve(h, state.ActionOn, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	legal, _ := h.LegalActions(state.ActionOn)
	if len(profile.Actions) != len(legal) {
		t.Fatalf("expected one profile row per legal action, got %d for %d legal actions", len(profile.Actions), len(legal))
	}
	if _, ok := profile.Optimal(); !ok {
		t.Fatal("expected exactly one optimal action")
	}
}

func TestEvaluateHandRejectsPreflop(t *testing.T) {
	ace := mustParse(t, "As")
	king := mustParse(t, "Ks")
	if _, err := engine.EvaluateHand([2]poker.Card{ace, king}, nil); err == nil {
		t.Fatal("expected an error for a preflop (boardless) evaluation")
	}
}

func TestEvaluateHandScoresFlopOnward(t *testing.T) {
	hole := [2]poker.Card{mustParse(t, "As"), mustParse(t, "Ks")}
	board := []poker.Card{mustParse(t, "Qs"), mustParse(t, "Js"), mustParse(t, "Ts")}

	score, err := engine.EvaluateHand(hole, board)
	if err != nil {
		t.Fatalf("EvaluateHand: %v", err)
	}
	if score.Type() != poker.StraightFlush {
		t.Fatalf("expected a royal flush on this board, got %s", score.String())
	}
}

func TestEquityAgainstFixedCombo(t *testing.T) {
	hole := [2]poker.Card{mustParse(t, "As"), mustParse(t, "Ad")}
	board := []poker.Card{mustParse(t, "2c"), mustParse(t, "7d"), mustParse(t, "9h")}

	opp := equity.NewRange()
	opp.AddCombo(mustParse(t, "Kh"), mustParse(t, "Kd"), 1)

	rng := rand.New(rand.NewSource(5))
	win, err := engine.Equity(hole, board, opp, 0.02, rng)
	if err != nil {
		t.Fatalf("Equity: %v", err)
	}
	if win < 0.5 {
		t.Fatalf("pocket aces vs pocket kings on a blank board should favor hero, got %.3f", win)
	}
}

func mustParse(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}
