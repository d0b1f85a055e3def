package cfr_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/pokergto/engine/cfr"
)

func TestAbstractionConfigValidate(t *testing.T) {
	abs := cfr.DefaultAbstraction()
	if err := abs.Validate(); err != nil {
		t.Fatalf("default abstraction should validate: %v", err)
	}

	bad := abs
	bad.DepthBudget = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected an error for a zero depth budget")
	}
}

func TestTrainingConfigValidate(t *testing.T) {
	train := cfr.DefaultTrainingConfig()
	if err := train.Validate(); err != nil {
		t.Fatalf("default training config should validate: %v", err)
	}

	bad := train
	bad.BigBlind = bad.SmallBlind
	if err := bad.Validate(); err == nil {
		t.Fatal("expected an error when big blind doesn't exceed small blind")
	}
}

func TestInfoSetKeyStringIsStableAndDistinguishesHistory(t *testing.T) {
	a := cfr.InfoSetKey{Street: cfr.StreetFlop, Player: 1, HoleBucket: 3, BoardBucket: 1, PotBucket: 2, ToCallBucket: 0, History: "x"}
	b := a
	b.History = "xr"

	if a.String() == b.String() {
		t.Fatal("distinct action histories must not collapse to the same info-set key")
	}
	if a.String() != (cfr.InfoSetKey{Street: cfr.StreetFlop, Player: 1, HoleBucket: 3, BoardBucket: 1, PotBucket: 2, ToCallBucket: 0, History: "x"}).String() {
		t.Fatal("identical keys must render identically")
	}
}

// TestRegretEntryMatchingPennies exercises the regret-matching core in
// isolation against a two-action zero-sum game with a known Nash
// equilibrium (50/50), standing in for spec §8 S7's convergence property
// without the cost of a full self-play tree.
func TestRegretEntryMatchingPennies(t *testing.T) {
	table := cfr.NewRegretTable()
	key := cfr.InfoSetKey{Street: cfr.StreetPreflop, Player: 0}

	const iterations = 2000
	for i := 1; i <= iterations; i++ {
		entry := table.Get(key, 2)
		strategy := entry.Strategy()

		// Opponent always plays the counter-strategy: utility for action 0
		// is +1 when opponent is on action 1 and vice versa, a symmetric
		// zero-sum game whose unique equilibrium is uniform.
		util := []float64{1 - 2*strategy[0], 1 - 2*strategy[1]}
		nodeUtil := strategy[0]*util[0] + strategy[1]*util[1]
		regret := []float64{util[0] - nodeUtil, util[1] - nodeUtil}

		entry.Update(regret, strategy, 1.0, cfr.RegretUpdateOptions{ClampNegativeRegrets: true, Iteration: i})
	}

	avg := table.Get(key, 2).AverageStrategy()
	if math.Abs(avg[0]-0.5) > 0.05 || math.Abs(avg[1]-0.5) > 0.05 {
		t.Fatalf("average strategy %v did not converge near uniform", avg)
	}
}

func TestBlueprintSaveLoadRoundTrip(t *testing.T) {
	abs := cfr.DefaultAbstraction()
	key := cfr.InfoSetKey{Street: cfr.StreetRiver, Player: 1}
	bp := &cfr.Blueprint{
		GeneratedAt: time.Now().UTC(),
		Iterations:  10,
		Abstraction: abs,
		Strategies: map[string][]float64{
			key.String(): {0.1, 0.4, 0.5},
		},
	}
	path := filepath.Join(t.TempDir(), "blueprint.json")
	bp.Version = 1
	if err := bp.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := cfr.LoadBlueprint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	strat, ok := loaded.Strategy(key)
	if !ok {
		t.Fatal("expected stored strategy to round-trip")
	}
	if len(strat) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(strat))
	}
}

// TestTrainerRunProducesRegretEntries smoke-tests the full pipeline: a tiny
// training run over the real betting state machine must populate the
// regret table and produce a blueprint without error.
func TestTrainerRunProducesRegretEntries(t *testing.T) {
	abs := cfr.DefaultAbstraction()
	abs.DepthBudget = 2
	train := cfr.DefaultTrainingConfig()
	train.Iterations = 8
	train.ParallelTables = 2
	train.ExploitabilityEvery = 0
	train.StartingStack = 20

	trainer, err := cfr.NewTrainer(abs, train)
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}

	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if trainer.RegretTableSize() == 0 {
		t.Fatal("expected at least one information set to be visited")
	}

	bp := trainer.Blueprint()
	if len(bp.Strategies) != trainer.RegretTableSize() {
		t.Fatalf("blueprint strategy count %d != regret table size %d", len(bp.Strategies), trainer.RegretTableSize())
	}
	for _, strat := range bp.Strategies {
		sum := 0.0
		for _, p := range strat {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("average strategy %v does not sum to 1", strat)
		}
	}
}

// TestNewTrainerFromBlueprintMatchesTrainedStrategies verifies that
// reconstructing a trainer from a saved blueprint answers Strategy queries
// with exactly the strategies that were trained, not a freshly-reset uniform
// distribution.
func TestNewTrainerFromBlueprintMatchesTrainedStrategies(t *testing.T) {
	abs := cfr.DefaultAbstraction()
	abs.DepthBudget = 2
	train := cfr.DefaultTrainingConfig()
	train.Iterations = 8
	train.ParallelTables = 2
	train.ExploitabilityEvery = 0
	train.StartingStack = 20

	trainer, err := cfr.NewTrainer(abs, train)
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	bp := trainer.Blueprint()
	if len(bp.Strategies) == 0 {
		t.Fatal("expected at least one trained information set")
	}

	loaded, err := cfr.NewTrainerFromBlueprint(bp)
	if err != nil {
		t.Fatalf("NewTrainerFromBlueprint: %v", err)
	}
	if loaded.RegretTableSize() != trainer.RegretTableSize() {
		t.Fatalf("reconstructed regret table size %d != original %d", loaded.RegretTableSize(), trainer.RegretTableSize())
	}

	loadedBP := loaded.Blueprint()
	for key, want := range bp.Strategies {
		got, ok := loadedBP.Strategies[key]
		if !ok {
			t.Fatalf("reconstructed blueprint is missing key %q", key)
		}
		if len(got) != len(want) {
			t.Fatalf("key %q: strategy length %d != %d", key, len(got), len(want))
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-9 {
				t.Fatalf("key %q: strategy[%d] = %v, want %v", key, i, got[i], want[i])
			}
		}
	}
}

func TestTrainerRunRespectsContextCancellation(t *testing.T) {
	abs := cfr.DefaultAbstraction()
	train := cfr.DefaultTrainingConfig()
	train.Iterations = 1_000_000
	train.ParallelTables = 1

	trainer, err := cfr.NewTrainer(abs, train)
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := trainer.Run(ctx, nil); err == nil {
		t.Fatal("expected Run to report the canceled context")
	}
}
