// Package engine is the pokergto decision engine's facade: the small,
// language-neutral surface spec §6 describes (new_game, get_state,
// legal_actions, execute_action, solve, evaluate_hand, equity), wired on
// top of the game/cfr/mcts/nash/synth packages. No state is persisted
// across process restarts; everything lives in the returned GameHandle
// for the caller to hold.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pokergto/engine/cfr"
	"github.com/pokergto/engine/config"
	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/mcts"
	"github.com/pokergto/engine/nash"
	"github.com/pokergto/engine/poker"
	"github.com/pokergto/engine/pokererr"
	"github.com/pokergto/engine/synth"
)

// Engine bundles the process-wide immutable solving resources: the Nash
// push/fold table, a CFR trainer (nil if training was skipped or failed —
// Solve then falls back to MCTS, per spec §7's graceful-downgrade rule),
// and an MCTS searcher template. These are safe to share across every
// GameHandle the caller creates.
type Engine struct {
	synth *synth.Synthesizer
}

// New constructs an Engine from resolved configuration. It always builds
// the Nash table and an MCTS searcher (both cheap and never fail on valid
// config); the CFR trainer is optional and supplied separately via
// WithTrainer, since training it is a potentially expensive, separate step
// from simply standing up the engine.
func New(resolved config.Resolved) (*Engine, error) {
	table, err := nash.NewTable()
	if err != nil {
		return nil, fmt.Errorf("engine: building nash table: %w", err)
	}
	searcher, err := mcts.NewSearcher(resolved.Search, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: building mcts searcher: %w", err)
	}

	synthCfg := synth.Config{EquityTolerance: resolved.EquityTolerance}
	return &Engine{synth: synth.NewSynthesizer(synthCfg, table, nil, searcher, nil)}, nil
}

// WithTrainer returns a copy of the engine with its CFR trainer set,
// enabling the CFR route in Solve for eligible decisions (spec §4.9's
// turn/river routing). Call after a separate training run, typically from
// the train-cfr CLI subcommand or a loaded checkpoint.
func (e *Engine) WithTrainer(trainer *cfr.Trainer) *Engine {
	cp := *e
	cp.synth = e.synth.WithTrainer(trainer)
	return &cp
}

// WithBlueprint loads a previously saved CFR blueprint from path and
// enables the CFR route using it, without running a fresh training pass.
// This is the common case for a deployed engine: train offline with
// train-cfr, then start solving against the saved result.
func (e *Engine) WithBlueprint(path string) (*Engine, error) {
	bp, err := cfr.LoadBlueprint(path)
	if err != nil {
		return nil, fmt.Errorf("engine: loading blueprint: %w", err)
	}
	trainer, err := cfr.NewTrainerFromBlueprint(bp)
	if err != nil {
		return nil, fmt.Errorf("engine: reconstructing trainer from blueprint: %w", err)
	}
	return e.WithTrainer(trainer), nil
}

// GameHandle is a single in-progress hand plus the RNG it was dealt with.
// It owns no shared state: discarding it (letting it be garbage collected)
// is the only "close" operation this engine needs, matching spec §6's "no
// persisted state."
type GameHandle struct {
	hand *game.HandState
	rng  *rand.Rand
}

// NewGame deals a new hand for the given player names, seated with button
// at seat 0, using smallBlind/bigBlind and (by default) 1000 chips per
// player — override with game.WithChips/game.WithUniformChips. rng drives
// both the shuffle and every later Solve call's Monte Carlo sampling;
// callers that need reproducible play should pass a seeded one (spec §5:
// "the PRNG is per-invocation and must be seedable for tests").
func NewGame(rng *rand.Rand, players []string, smallBlind, bigBlind int, opts ...game.HandOption) *GameHandle {
	hand := game.NewHand(rng, players, 0, smallBlind, bigBlind, opts...)
	return &GameHandle{hand: hand, rng: rng}
}

// PlayerState is one seat's externally visible state.
type PlayerState struct {
	Seat      int
	Name      string
	Chips     int
	Bet       int
	TotalBet  int
	Folded    bool
	AllIn     bool
	HoleCards []poker.Card
}

// GameState is a read-only snapshot of a GameHandle, per spec §3's
// GameState data model.
type GameState struct {
	Players    []PlayerState
	Board      []poker.Card
	Pot        int
	CurrentBet int
	Street     game.Street
	ActionOn   int // -1 once the hand is over
	History    []game.ActionRecord
}

// GetState projects h's current authoritative state into a read-only
// snapshot. The snapshot does not alias h's internal slices, so mutating
// it (or a later ExecuteAction on h) cannot corrupt the other.
func (h *GameHandle) GetState() GameState {
	hand := h.hand
	players := make([]PlayerState, len(hand.Players))
	for i, p := range hand.Players {
		players[i] = PlayerState{
			Seat:      p.Seat,
			Name:      p.Name,
			Chips:     p.Chips,
			Bet:       p.Bet,
			TotalBet:  p.TotalBet,
			Folded:    p.Folded,
			AllIn:     p.AllInFlag,
			HoleCards: unpackHand(p.HoleCards),
		}
	}

	actionOn := hand.ActivePlayer
	if hand.IsComplete() {
		actionOn = -1
	}

	history := make([]game.ActionRecord, len(hand.History))
	copy(history, hand.History)

	return GameState{
		Players:    players,
		Board:      unpackHand(hand.Board),
		Pot:        potTotal(hand),
		CurrentBet: hand.Betting.CurrentBet,
		Street:     hand.Street,
		ActionOn:   actionOn,
		History:    history,
	}
}

// LegalActions returns the actions available to playerId right now.
func (h *GameHandle) LegalActions(playerID int) ([]game.Action, error) {
	return h.hand.LegalActions(playerID)
}

// ExecuteAction validates and applies one player action to h. amount is
// ignored for every action except bet/raise (target total per-street
// commitment) per spec §6's action encoding.
func (h *GameHandle) ExecuteAction(playerID int, action game.Action, amount int) error {
	return h.hand.Execute(playerID, action, amount)
}

// Solve answers "what should playerId do right now," routing to the Nash
// table, the CFR trainer, or the IS-MCTS searcher and normalizing the
// result into a DecisionProfile covering every currently legal action
// (spec §4.9). deadline bounds how long a search-based route may run;
// expiry yields the best-so-far strategy rather than an error (spec §7).
func (e *Engine) Solve(h *GameHandle, playerID int, deadline time.Time) (synth.DecisionProfile, error) {
	return e.synth.Solve(h.hand, playerID, h.rng, deadline)
}

// EvaluateHand scores a made hand from 2 hole cards plus 0 to 5 board
// cards, per spec §6's evaluate_hand. Fewer than 3 board cards (preflop)
// has no well-defined 5-card hand, so that case is rejected rather than
// silently scored on 2 cards.
func EvaluateHand(hole [2]poker.Card, board []poker.Card) (poker.HandScore, error) {
	if len(board) < 3 {
		return 0, fmt.Errorf("engine: evaluate_hand requires at least a flop (3 board cards), got %d: %w", len(board), pokererr.ErrInvalidState)
	}
	cards := append([]poker.Card{hole[0], hole[1]}, board...)
	score, err := poker.EvaluateBest(cards...)
	if err != nil {
		return 0, fmt.Errorf("engine: %w: %w", err, pokererr.ErrInvalidState)
	}
	return score, nil
}

// Equity estimates hero's win probability against opponentRange, per spec
// §6's equity: exact enumeration of the remaining board when few cards are
// unknown and the range is narrow, Monte Carlo rollout otherwise. tolerance
// bounds the Monte Carlo estimate's standard error; rng must be supplied by the
// caller for reproducibility.
func Equity(hole [2]poker.Card, board []poker.Card, opponentRange *equity.Range, tolerance float64, rng *rand.Rand) (float64, error) {
	return equity.Estimate(hole, board, opponentRange, tolerance, rng)
}

func potTotal(hand *game.HandState) int {
	total := hand.PotManager.Total()
	for _, p := range hand.Players {
		total += p.Bet
	}
	return total
}

// unpackHand expands a poker.Hand bitset into its constituent cards.
// Duplicated (rather than exported from package poker) per this
// codebase's established pattern of small per-package unpacking helpers
// (cfr/tree.go's unpackAll, synth/notation.go's unpackCards).
func unpackHand(hand poker.Hand) []poker.Card {
	var cards []poker.Card
	for suit := uint8(0); suit < 4; suit++ {
		mask := hand.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				cards = append(cards, poker.NewCard(rank, suit))
			}
		}
	}
	return cards
}
