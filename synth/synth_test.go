package synth

import (
	"math/rand"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/pokergto/engine/cfr"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/mcts"
	"github.com/pokergto/engine/nash"
	"github.com/pokergto/engine/poker"
)

func newCardMust(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func cardsToHand(cards ...poker.Card) poker.Hand {
	return poker.NewHand(cards...)
}

func newHeadsUpHand(button int, chips int, seed int64) *game.HandState {
	rng := rand.New(rand.NewSource(seed))
	return game.NewHand(rng, []string{"hero", "villain"}, button, 1, 2, game.WithUniformChips(chips))
}

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()

	table, err := nash.NewTable()
	if err != nil {
		t.Fatalf("nash.NewTable: %v", err)
	}

	trainer, err := cfr.NewTrainer(cfr.DefaultAbstraction(), cfr.DefaultTrainingConfig())
	if err != nil {
		t.Fatalf("cfr.NewTrainer: %v", err)
	}

	mctsCfg := mcts.DefaultConfig()
	mctsCfg.MaxIterations = 100
	mctsCfg.TimeBudget = time.Hour
	mctsCfg.MaxDepth = 6
	clock := quartz.NewMock(t)
	searcher, err := mcts.NewSearcher(mctsCfg, clock)
	if err != nil {
		t.Fatalf("mcts.NewSearcher: %v", err)
	}

	return NewSynthesizer(DefaultConfig(), table, trainer, searcher, clock)
}

func assertWellFormedProfile(t *testing.T, hand *game.HandState, seat int, profile DecisionProfile) {
	t.Helper()

	legal, err := hand.LegalActions(seat)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	if len(profile.Actions) != len(legal) {
		t.Fatalf("expected %d entries (one per legal action), got %d", len(legal), len(profile.Actions))
	}

	sum := profile.FrequencySum()
	if sum < 99 || sum > 101 {
		t.Fatalf("frequencies should sum to 100±1, got %.4f", sum)
	}

	optimalCount := 0
	for _, a := range profile.Actions {
		if a.IsOptimal {
			optimalCount++
		}
		if a.Explanation == "" {
			t.Errorf("action %v has no explanation", a.Action)
		}
	}
	if optimalCount != 1 {
		t.Fatalf("expected exactly one optimal action, got %d", optimalCount)
	}
}

func TestSolvePreflopRoutesToNash(t *testing.T) {
	s := newTestSynthesizer(t)
	hand := newHeadsUpHand(0, 20*2, 7) // 20bb effective stacks, heads-up: button==seat 0

	profile, err := s.Solve(hand, hand.ActivePlayer, rand.New(rand.NewSource(1)), time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if profile.Modality != ModalityNash {
		t.Fatalf("expected a short-stack heads-up preflop open to route to Nash, got %s", profile.Modality)
	}
	assertWellFormedProfile(t, hand, hand.ActivePlayer, profile)
}

func TestSolveDeepStackPreflopFallsThroughToMCTS(t *testing.T) {
	s := newTestSynthesizer(t)
	hand := newHeadsUpHand(0, 200*2, 9) // 200bb: outside the Nash table's covered range

	profile, err := s.Solve(hand, hand.ActivePlayer, rand.New(rand.NewSource(2)), time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if profile.Modality != ModalityMCTS {
		t.Fatalf("a 200bb preflop stack should skip the push/fold table and CFR and route to MCTS, got %s", profile.Modality)
	}
	assertWellFormedProfile(t, hand, hand.ActivePlayer, profile)
}

func TestRecognizeSituationUnrecognizedAfterThreeBet(t *testing.T) {
	hand := newHeadsUpHand(0, 40*2, 3)
	hand.History = append(hand.History,
		game.ActionRecord{Street: game.Preflop, Seat: 0, Action: game.Raise, Amount: 6},
		game.ActionRecord{Street: game.Preflop, Seat: 1, Action: game.Raise, Amount: 20},
	)
	if _, ok := recognizeSituation(hand); ok {
		t.Fatal("a 3-bet pot should not be a recognized push/fold situation")
	}
}

func TestHoleCardsToNotation(t *testing.T) {
	ace := newCardMust(t, "As")
	king := newCardMust(t, "Kh")
	hole := cardsToHand(ace, king)

	n, err := holeCardsToNotation(hole)
	if err != nil {
		t.Fatalf("holeCardsToNotation: %v", err)
	}
	if n.Suited || n.Pair {
		t.Fatalf("AKo is neither suited nor a pair, got %+v", n)
	}
	if n.High != 14 || n.Low != 13 {
		t.Fatalf("expected High=14 (A), Low=13 (K), got %+v", n)
	}
	if n.String() != "AKo" {
		t.Fatalf("expected canonical notation AKo, got %s", n.String())
	}
}
