package cfr

import (
	"errors"
	"fmt"
)

// SamplingMode controls how non-traversing-player actions are handled during
// a single CFR iteration.
type SamplingMode uint8

const (
	// SamplingExternal samples one action at opponent nodes from the current
	// strategy and recurses into every action at the traversing player's
	// nodes (external-sampling MCCFR).
	SamplingExternal SamplingMode = iota
	// SamplingFullTraversal recurses into every action at every node
	// (vanilla CFR); exact but exponential in tree width.
	SamplingFullTraversal
)

func (m SamplingMode) String() string {
	switch m {
	case SamplingExternal:
		return "external"
	case SamplingFullTraversal:
		return "full"
	default:
		return "unknown"
	}
}

// AbstractionConfig shapes the coarse representation the solver reasons
// over: how a real GameState collapses into the HoleBucket/BoardBucket pair
// of an InfoSetKey, how deep a real-time tree is allowed to go before its
// terminal nodes fall back to an equity estimate, and which bet sizes the
// action abstraction exposes.
type AbstractionConfig struct {
	// PotBucketCount and ToCallBucketCount discretize the pot size and the
	// amount owed into that many threshold buckets.
	PotBucketCount    int
	ToCallBucketCount int

	// BetSizing lists bet fractions of pot exposed as raise actions,
	// strictly increasing. Spec §4.7's typical action budget is a single
	// 2/3-pot raise; wider configs add more granularity at training cost.
	BetSizing []float64

	// DepthBudget caps decision levels below the root before a node is
	// treated as terminal and scored by an equity estimate rather than
	// continued to real showdown.
	DepthBudget int

	// MaxActionsPerNode caps the branching factor of any node (fold/check
	// or call counted separately from raises).
	MaxActionsPerNode int
}

// Validate ensures the abstraction is well-formed before training begins.
func (c AbstractionConfig) Validate() error {
	if c.PotBucketCount <= 0 {
		return errors.New("cfr: pot bucket count must be > 0")
	}
	if c.ToCallBucketCount <= 0 {
		return errors.New("cfr: to-call bucket count must be > 0")
	}
	if c.DepthBudget <= 0 {
		return errors.New("cfr: depth budget must be > 0")
	}
	if c.MaxActionsPerNode < 2 {
		return errors.New("cfr: max actions per node must allow at least fold/call")
	}
	last := 0.0
	for i, v := range c.BetSizing {
		if v <= 0 {
			return fmt.Errorf("cfr: bet sizing[%d] must be > 0", i)
		}
		if v <= last {
			return fmt.Errorf("cfr: bet sizing[%d] must be strictly increasing", i)
		}
		last = v
	}
	return nil
}

// TrainingConfig aggregates parameters that control a CFR training run.
type TrainingConfig struct {
	Iterations int
	// Seed deterministically derives every table's RNG (via
	// internal/randutil), so repeated runs with the same seed and config
	// reproduce the same average strategy (spec §8 round-trip property).
	Seed int64

	// ParallelTables runs that many independent self-play tables per
	// iteration, concurrently, each traversing from a fresh deck shuffle.
	ParallelTables int

	// ExploitabilityEvery, when > 0, triggers a best-response exploitability
	// pass after that many iterations (spec §4.7's stopping heuristic).
	ExploitabilityEvery int
	ProgressEvery       int

	SmallBlind    int
	BigBlind      int
	StartingStack int

	Sampling SamplingMode

	// UseCFRPlus clamps regrets at zero (CFR+), which removes the need to
	// track negative regret and speeds convergence.
	UseCFRPlus bool

	// LinearAveraging weights later iterations' strategy contribution more
	// heavily, per the standard linear-CFR averaging scheme.
	LinearAveraging bool
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("cfr: iterations must be > 0")
	}
	if c.ParallelTables <= 0 {
		return errors.New("cfr: parallel tables must be > 0")
	}
	if c.ExploitabilityEvery < 0 {
		return errors.New("cfr: exploitability interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("cfr: progress interval cannot be negative")
	}
	if c.SmallBlind <= 0 {
		return errors.New("cfr: small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("cfr: big blind must be greater than small blind")
	}
	if c.StartingStack <= 0 {
		return errors.New("cfr: starting stack must be > 0")
	}
	if c.Sampling > SamplingFullTraversal {
		return errors.New("cfr: invalid sampling mode")
	}
	return nil
}

// DefaultAbstraction matches spec §4.7's "typically 3 decision levels" depth
// budget and a single 2/3-pot raise action.
func DefaultAbstraction() AbstractionConfig {
	return AbstractionConfig{
		PotBucketCount:    5,
		ToCallBucketCount: 5,
		BetSizing:         []float64{2.0 / 3.0},
		DepthBudget:       3,
		MaxActionsPerNode: 3,
	}
}

// DefaultTrainingConfig returns a minimal configuration suitable for a toy
// self-play run (spec §8 S7's 10,000-iteration scenario).
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:          10_000,
		Seed:                1,
		ParallelTables:      1,
		ExploitabilityEvery: 1000,
		ProgressEvery:       0,
		SmallBlind:          1,
		BigBlind:            2,
		StartingStack:       200,
		Sampling:            SamplingExternal,
		UseCFRPlus:          true,
		LinearAveraging:     true,
	}
}
