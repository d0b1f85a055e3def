package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pokergto/engine/nash"
)

// PushFoldCmd looks up the frozen Nash push/fold distribution for a hand
// notation, position, and preflop situation at a given effective stack
// depth, per spec §4.6. It replaces an earlier offline table-codegen tool:
// nash.NewTable builds its full 9,126-entry table in-process, so there is
// nothing left to precompute or generate a source file for.
type PushFoldCmd struct {
	Hand      string  `arg:"" help:"Hand notation, e.g. AKs, 72o, TT"`
	Position  string  `enum:"BTN,SB,BB" default:"BTN" help:"Acting position"`
	Situation string  `enum:"open,vs_push,vs_limp" default:"open" help:"Preflop situation facing the hero"`
	StackBB   float64 `default:"20" help:"Effective stack depth in big blinds"`
}

func (c *PushFoldCmd) Run(logger *log.Logger) error {
	notation, err := nash.ParseNotation(c.Hand)
	if err != nil {
		return fmt.Errorf("push-fold: %w", err)
	}

	stack := nash.ForStack(c.StackBB)
	key := nash.Key{
		Notation:  notation,
		Position:  nash.Position(c.Position),
		Situation: nash.Situation(c.Situation),
		Stack:     stack,
	}

	table, err := nash.NewTable()
	if err != nil {
		return fmt.Errorf("push-fold: building table: %w", err)
	}

	dist := table.Distribution(key)
	logger.Info("push-fold lookup", "hand", notation, "position", key.Position, "situation", key.Situation, "stack_bucket", stack)
	fmt.Printf("fold=%.1f%%  limp=%.1f%%  min-raise=%.1f%%  all-in=%.1f%%\n",
		dist.FoldPct, dist.LimpPct, dist.MinRaisePct, dist.AllInPct)
	return nil
}
