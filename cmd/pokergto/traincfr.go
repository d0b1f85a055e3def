package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/pokergto/engine/cfr"
	"github.com/pokergto/engine/config"
)

// TrainCFRCmd runs a CFR self-play training loop to the configured number
// of iterations (or until interrupted) and saves the resulting blueprint,
// per spec §4.7 and §9's "iterative solvers should expose progress
// callbacks."
type TrainCFRCmd struct {
	ConfigFile string `help:"Optional HCL engine configuration file (training block)"`
	Output     string `default:"blueprint.json" help:"Path to write the trained blueprint"`
}

func (c *TrainCFRCmd) Run(logger *log.Logger) error {
	var cfgFile config.EngineConfig
	if c.ConfigFile != "" {
		var err error
		cfgFile, err = config.Load(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("train-cfr: %w", err)
		}
	}
	resolved, err := cfgFile.Resolve()
	if err != nil {
		return fmt.Errorf("train-cfr: %w", err)
	}

	trainer, err := cfr.NewTrainer(resolved.Abstraction, resolved.Training)
	if err != nil {
		return fmt.Errorf("train-cfr: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("interrupted, saving blueprint so far")
		cancel()
	}()

	logger.Info("training started", "iterations", resolved.Training.Iterations, "sampling", resolved.Training.Sampling)

	err = trainer.Run(ctx, func(p cfr.Progress) {
		logger.Info("training progress",
			"iteration", p.Iteration,
			"info_sets", p.RegretTableSize,
			"exploitability", p.Exploitability,
			"iteration_time", p.Stats.IterationTime)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("train-cfr: %w", err)
	}

	bp := trainer.Blueprint()
	if err := bp.Save(c.Output); err != nil {
		return fmt.Errorf("train-cfr: saving blueprint: %w", err)
	}

	logger.Info("blueprint saved", "path", c.Output, "iterations", bp.Iterations, "info_sets", len(bp.Strategies))
	return nil
}
