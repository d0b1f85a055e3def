package mcts_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/mcts"
)

func TestConfigValidate(t *testing.T) {
	cfg := mcts.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := cfg
	bad.WideningAlpha = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range widening alpha")
	}
}

func newHeadsUpHand(seed int64) *game.HandState {
	rng := rand.New(rand.NewSource(seed))
	return game.NewHand(rng, []string{"hero", "villain"}, 0, 1, 2, game.WithUniformChips(40))
}

// TestSearchReturnsLegalAction exercises a full search with a mock clock
// frozen at its starting instant, so the run is bounded purely by
// MaxIterations (spec §8-style determinism for a clock-gated search),
// mirroring the teacher's own quartz.NewMock test-clock pattern.
func TestSearchReturnsLegalAction(t *testing.T) {
	cfg := mcts.DefaultConfig()
	cfg.MaxIterations = 200
	cfg.TimeBudget = time.Hour
	cfg.MaxDepth = 6

	clock := quartz.NewMock(t)
	searcher, err := mcts.NewSearcher(cfg, clock)
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}

	hand := newHeadsUpHand(7)
	rng := rand.New(rand.NewSource(11))

	result, err := searcher.Search(hand, hand.ActivePlayer, rng)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Iterations != cfg.MaxIterations {
		t.Fatalf("expected %d iterations with a frozen clock, got %d", cfg.MaxIterations, result.Iterations)
	}

	legal, err := hand.LegalActions(hand.ActivePlayer)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	found := false
	for _, a := range legal {
		if a == result.Action {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("recommended action %v is not among legal actions %v", result.Action, legal)
	}
	if len(result.Visits) == 0 {
		t.Fatal("expected at least one explored root action")
	}
}

// TestSearchBoundedByMaxIterations confirms a mock clock that never advances
// still bounds a search: MaxIterations alone should terminate it promptly
// regardless of how large TimeBudget is configured.
func TestSearchBoundedByMaxIterations(t *testing.T) {
	cfg := mcts.DefaultConfig()
	cfg.MaxIterations = 25
	cfg.TimeBudget = 24 * time.Hour
	cfg.MaxDepth = 4

	clock := quartz.NewMock(t)
	searcher, err := mcts.NewSearcher(cfg, clock)
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}

	hand := newHeadsUpHand(3)
	rng := rand.New(rand.NewSource(4))

	result, err := searcher.Search(hand, hand.ActivePlayer, rng)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Iterations != cfg.MaxIterations {
		t.Fatalf("expected MaxIterations (%d) to bound the search, got %d", cfg.MaxIterations, result.Iterations)
	}
}
