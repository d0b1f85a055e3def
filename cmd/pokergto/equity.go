package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pokergto/engine"
	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/poker"
)

// EquityCmd estimates hero's win probability against a villain range
// notation (e.g. "JJ+, AQs+"), per spec §6's equity operation.
type EquityCmd struct {
	Hole      string  `arg:"" help:"Hero's two hole cards, e.g. 'AsAd'"`
	Range     string  `arg:"" help:"Villain range notation, e.g. 'JJ+,AQs+'"`
	Board     string  `short:"b" help:"0 to 5 known board cards, e.g. 'Td7s8h'"`
	Tolerance float64 `default:"0.01" help:"Monte Carlo standard-error stopping threshold"`
	Seed      int64   `default:"0" help:"RNG seed (0 derives one from the current time)"`
}

func (c *EquityCmd) Run(logger *log.Logger) error {
	holeTokens, err := parseCardString(c.Hole)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}
	if len(holeTokens) != 2 {
		return fmt.Errorf("equity: expected exactly 2 hole cards, got %d", len(holeTokens))
	}
	hole, err := parseCards(holeTokens)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}

	boardTokens, err := parseCardString(c.Board)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}
	board, err := parseCards(boardTokens)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}

	villain, err := equity.ParseRange(c.Range)
	if err != nil {
		return fmt.Errorf("equity: parsing range %q: %w", c.Range, err)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	win, err := engine.Equity([2]poker.Card{hole[0], hole[1]}, board, villain, c.Tolerance, rng)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}

	logger.Info("equity estimate", "hole", c.Hole, "range", c.Range, "combos", villain.Size(), "seed", seed)
	fmt.Printf("%.4f\n", win)
	return nil
}
