package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pokergto/engine/poker"
)

// EvaluateCmd scores a made hand from 2 hole cards plus 3 to 5 board cards,
// per spec §6's evaluate_hand.
type EvaluateCmd struct {
	Hole  string `arg:"" help:"Two hole cards, e.g. 'AsKd'"`
	Board string `short:"b" help:"3 to 5 community board cards, e.g. 'QhJcTh'"`
}

func (c *EvaluateCmd) Run(logger *log.Logger) error {
	holeTokens, err := parseCardString(c.Hole)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if len(holeTokens) != 2 {
		return fmt.Errorf("evaluate: expected exactly 2 hole cards, got %d", len(holeTokens))
	}
	hole, err := parseCards(holeTokens)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	boardTokens, err := parseCardString(c.Board)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	board, err := parseCards(boardTokens)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	cards := append(append([]poker.Card{}, hole...), board...)
	score, err := poker.EvaluateBest(cards...)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	logger.Info("evaluated hand", "hole", c.Hole, "board", c.Board, "category", score.Type(), "score", uint32(score))
	fmt.Println(score)
	return nil
}
