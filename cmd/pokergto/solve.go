package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pokergto/engine"
	"github.com/pokergto/engine/config"
	"github.com/pokergto/engine/game"
)

// SolveCmd deals a fresh hand and solves the decision for whichever player
// is on action, exercising the full engine.New/NewGame/Solve path from the
// command line.
type SolveCmd struct {
	Players    []string      `default:"hero,villain" help:"Comma-separated player names"`
	SmallBlind int           `default:"1" help:"Small blind amount"`
	BigBlind   int           `default:"2" help:"Big blind amount"`
	StartChips int           `default:"200" help:"Starting chip count per player"`
	Seed       int64         `default:"0" help:"RNG seed (0 derives one from the current time)"`
	TimeBudget time.Duration `default:"500ms" help:"Deadline for search-based solving"`
	ConfigFile string        `help:"Optional HCL engine configuration file"`
	Blueprint  string        `help:"Path to a blueprint saved by train-cfr; enables the CFR route without retraining"`
}

func (c *SolveCmd) Run(logger *log.Logger) error {
	if len(c.Players) < 2 {
		return fmt.Errorf("solve: at least 2 players are required, got %d", len(c.Players))
	}

	var cfg config.EngineConfig
	if c.ConfigFile != "" {
		var err error
		cfg, err = config.Load(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	e, err := engine.New(resolved)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	if c.Blueprint != "" {
		e, err = e.WithBlueprint(c.Blueprint)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		logger.Info("loaded blueprint", "path", c.Blueprint)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	h := engine.NewGame(rng, c.Players, c.SmallBlind, c.BigBlind, game.WithUniformChips(c.StartChips))
	state := h.GetState()
	if state.ActionOn < 0 {
		return fmt.Errorf("solve: dealt hand has no player on action")
	}

	logger.Info("solving", "player", state.Players[state.ActionOn].Name, "street", state.Street, "pot", state.Pot)

	profile, err := e.Solve(h, state.ActionOn, time.Now().Add(c.TimeBudget))
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	for _, entry := range profile.Actions {
		marker := " "
		if entry.IsOptimal {
			marker = "*"
		}
		fmt.Printf("%s %-6s amount=%-5d freq=%6.2f%% ev=%8.2f  %s\n",
			marker, entry.Action, entry.Amount, entry.Frequency, entry.EV, entry.Explanation)
	}
	logger.Info("solved", "modality", profile.Modality)
	return nil
}
