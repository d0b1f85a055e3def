package mcts

import (
	"errors"
	"time"
)

// Config tunes one Searcher. Unlike cfr's AbstractionConfig, the search
// space here is the real (non-abstracted) action set, so there is no
// bucket-count knob — only exploration, widening, and budget parameters
// (spec §4.8).
type Config struct {
	// ExplorationConstant is UCB1's C (default √2). Ignored when UsePUCT is
	// set, where it instead scales the prior term.
	ExplorationConstant float64
	// UsePUCT selects the prior-weighted selection rule over plain UCB1.
	UsePUCT bool
	// WideningK and WideningAlpha bound a node's visible children to
	// ceil(k * visits^alpha), so sparsely visited nodes see few actions and
	// popular branches broaden as they accumulate visits.
	WideningK     float64
	WideningAlpha float64
	// RolloutEpsilon is the rollout policy's exploration rate: with this
	// probability it ignores the bucket-biased heuristic and picks a
	// uniformly random legal action instead.
	RolloutEpsilon float64
	// MaxIterations bounds search length even if the time budget allows
	// more; TimeBudget bounds wall-clock time even if iterations remain.
	MaxIterations int
	TimeBudget    time.Duration
	// MaxDepth bounds simulate-phase recursion so a deep multi-way pot
	// can't run away before a showdown or fold terminates it.
	MaxDepth int
}

func (c Config) Validate() error {
	if c.ExplorationConstant <= 0 {
		return errors.New("mcts: ExplorationConstant must be positive")
	}
	if c.WideningK <= 0 || c.WideningAlpha <= 0 || c.WideningAlpha > 1 {
		return errors.New("mcts: WideningK must be positive and WideningAlpha must be in (0, 1]")
	}
	if c.RolloutEpsilon < 0 || c.RolloutEpsilon > 1 {
		return errors.New("mcts: RolloutEpsilon must be in [0, 1]")
	}
	if c.MaxIterations <= 0 {
		return errors.New("mcts: MaxIterations must be positive")
	}
	if c.TimeBudget <= 0 {
		return errors.New("mcts: TimeBudget must be positive")
	}
	if c.MaxDepth <= 0 {
		return errors.New("mcts: MaxDepth must be positive")
	}
	return nil
}

// DefaultConfig matches spec §4.8's stated defaults: UCB1 with C = √2, and
// a conservative iteration/time budget suitable for a tens-to-hundreds of
// milliseconds response.
func DefaultConfig() Config {
	return Config{
		ExplorationConstant: 1.41421356237,
		UsePUCT:             false,
		WideningK:           2.0,
		WideningAlpha:       0.4,
		RolloutEpsilon:      0.1,
		MaxIterations:       20000,
		TimeBudget:          150 * time.Millisecond,
		MaxDepth:            40,
	}
}
