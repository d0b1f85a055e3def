// Package config loads the engine's construction-time configuration (CFR
// abstraction and training parameters, MCTS search budget, equity
// tolerance) from an HCL file, adapted from the teacher's internal/server
// HCL loader (spec §6: "configuration... is passed at construction,"
// never read from environment variables at solve time).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/pokergto/engine/cfr"
	"github.com/pokergto/engine/mcts"
)

// EngineConfig is the root HCL document: one block per solver/abstraction
// concern. Each is a pointer so gohcl treats the block itself as optional
// (0 or 1) — a file only needs to declare the blocks it wants to override,
// unlike the teacher's server/table/bot blocks which are always required.
type EngineConfig struct {
	Abstraction *AbstractionBlock `hcl:"abstraction,block"`
	Training    *TrainingBlock    `hcl:"training,block"`
	Search      *SearchBlock      `hcl:"search,block"`
	Equity      *EquityBlock      `hcl:"equity,block"`
}

// AbstractionBlock mirrors cfr.AbstractionConfig.
type AbstractionBlock struct {
	PotBuckets        int       `hcl:"pot_buckets,optional"`
	ToCallBuckets     int       `hcl:"to_call_buckets,optional"`
	BetSizing         []float64 `hcl:"bet_sizing,optional"`
	DepthBudget       int       `hcl:"depth_budget,optional"`
	MaxActionsPerNode int       `hcl:"max_actions_per_node,optional"`
}

// TrainingBlock mirrors cfr.TrainingConfig.
type TrainingBlock struct {
	Iterations          int    `hcl:"iterations,optional"`
	Seed                int64  `hcl:"seed,optional"`
	ParallelTables      int    `hcl:"parallel_tables,optional"`
	ExploitabilityEvery int    `hcl:"exploitability_every,optional"`
	ProgressEvery       int    `hcl:"progress_every,optional"`
	SmallBlind          int    `hcl:"small_blind,optional"`
	BigBlind            int    `hcl:"big_blind,optional"`
	StartingStack       int    `hcl:"starting_stack,optional"`
	Sampling            string `hcl:"sampling,optional"` // "external" or "full"
	UseCFRPlus          bool   `hcl:"use_cfr_plus,optional"`
	LinearAveraging     bool   `hcl:"linear_averaging,optional"`
}

// SearchBlock mirrors mcts.Config.
type SearchBlock struct {
	ExplorationConstant float64 `hcl:"exploration_constant,optional"`
	UsePUCT             bool    `hcl:"use_puct,optional"`
	WideningK           float64 `hcl:"widening_k,optional"`
	WideningAlpha       float64 `hcl:"widening_alpha,optional"`
	RolloutEpsilon      float64 `hcl:"rollout_epsilon,optional"`
	MaxIterations       int     `hcl:"max_iterations,optional"`
	TimeBudgetMS        int     `hcl:"time_budget_ms,optional"`
	MaxDepth            int     `hcl:"max_depth,optional"`
}

// EquityBlock configures the Equity Estimator and the Decision Synthesizer.
type EquityBlock struct {
	Tolerance float64 `hcl:"tolerance,optional"`
}

// Load reads filename and decodes it into an EngineConfig. A missing file
// is not an error: the zero-value blocks below all fall back to their
// package defaults in Resolve, matching the teacher's
// LoadServerConfig("falls back to DefaultServerConfig when absent").
func Load(filename string) (EngineConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return EngineConfig{}, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return EngineConfig{}, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	var cfg EngineConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return EngineConfig{}, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}
	return cfg, nil
}

// Resolved bundles the three solver packages' own validated config types,
// ready to hand to cfr.NewTrainer/mcts.NewSearcher/abstract usage.
type Resolved struct {
	Abstraction     cfr.AbstractionConfig
	Training        cfr.TrainingConfig
	Search          mcts.Config
	EquityTolerance float64
}

// Resolve overlays c's set fields onto each package's own defaults, then
// validates every block through its owning package (cfr/mcts), so a bad
// config file fails fast at load time rather than surfacing as a
// mysterious solver error later.
func (c EngineConfig) Resolve() (Resolved, error) {
	abs := cfr.DefaultAbstraction()
	if b := c.Abstraction; b != nil {
		if b.PotBuckets > 0 {
			abs.PotBucketCount = b.PotBuckets
		}
		if b.ToCallBuckets > 0 {
			abs.ToCallBucketCount = b.ToCallBuckets
		}
		if len(b.BetSizing) > 0 {
			abs.BetSizing = b.BetSizing
		}
		if b.DepthBudget > 0 {
			abs.DepthBudget = b.DepthBudget
		}
		if b.MaxActionsPerNode > 0 {
			abs.MaxActionsPerNode = b.MaxActionsPerNode
		}
	}
	if err := abs.Validate(); err != nil {
		return Resolved{}, err
	}

	train := cfr.DefaultTrainingConfig()
	if b := c.Training; b != nil {
		if b.Iterations > 0 {
			train.Iterations = b.Iterations
		}
		if b.Seed != 0 {
			train.Seed = b.Seed
		}
		if b.ParallelTables > 0 {
			train.ParallelTables = b.ParallelTables
		}
		if b.ExploitabilityEvery > 0 {
			train.ExploitabilityEvery = b.ExploitabilityEvery
		}
		if b.ProgressEvery > 0 {
			train.ProgressEvery = b.ProgressEvery
		}
		if b.SmallBlind > 0 {
			train.SmallBlind = b.SmallBlind
		}
		if b.BigBlind > 0 {
			train.BigBlind = b.BigBlind
		}
		if b.StartingStack > 0 {
			train.StartingStack = b.StartingStack
		}
		switch b.Sampling {
		case "full":
			train.Sampling = cfr.SamplingFullTraversal
		case "external", "":
			train.Sampling = cfr.SamplingExternal
		default:
			return Resolved{}, fmt.Errorf("config: unknown sampling mode %q", b.Sampling)
		}
		if b.UseCFRPlus {
			train.UseCFRPlus = true
		}
		if b.LinearAveraging {
			train.LinearAveraging = true
		}
	}
	if err := train.Validate(); err != nil {
		return Resolved{}, err
	}

	search := mcts.DefaultConfig()
	if b := c.Search; b != nil {
		if b.ExplorationConstant > 0 {
			search.ExplorationConstant = b.ExplorationConstant
		}
		if b.UsePUCT {
			search.UsePUCT = true
		}
		if b.WideningK > 0 {
			search.WideningK = b.WideningK
		}
		if b.WideningAlpha > 0 {
			search.WideningAlpha = b.WideningAlpha
		}
		if b.RolloutEpsilon > 0 {
			search.RolloutEpsilon = b.RolloutEpsilon
		}
		if b.MaxIterations > 0 {
			search.MaxIterations = b.MaxIterations
		}
		if b.TimeBudgetMS > 0 {
			search.TimeBudget = time.Duration(b.TimeBudgetMS) * time.Millisecond
		}
		if b.MaxDepth > 0 {
			search.MaxDepth = b.MaxDepth
		}
	}
	if err := search.Validate(); err != nil {
		return Resolved{}, err
	}

	tolerance := 0.01
	if b := c.Equity; b != nil && b.Tolerance > 0 {
		tolerance = b.Tolerance
	}

	return Resolved{Abstraction: abs, Training: train, Search: search, EquityTolerance: tolerance}, nil
}
