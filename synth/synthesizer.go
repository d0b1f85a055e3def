package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/coder/quartz"

	"github.com/pokergto/engine/cfr"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/mcts"
	"github.com/pokergto/engine/nash"
)

// Config bounds the synthesizer's ambient numerics: how tight the postflop
// equity estimate must converge. It has no frequency floor; small generated
// frequencies stay in the profile as they are.
type Config struct {
	EquityTolerance float64
}

// DefaultConfig mirrors the equity package's own test tolerance for a
// reasonably tight but fast Monte Carlo estimate.
func DefaultConfig() Config {
	return Config{EquityTolerance: 0.01}
}

// Synthesizer routes one decision to the Nash table, the CFR trainer, or
// the IS-MCTS searcher, then renders the chosen modality's answer as a
// DecisionProfile covering exactly the legal actions (spec §4.9).
type Synthesizer struct {
	cfg    Config
	nash   *nash.Table
	trader *cfr.Trainer // nil disables the CFR route; MCTS covers every decision it would have
	mcts   *mcts.Searcher
	clock  quartz.Clock
}

// NewSynthesizer wires the three modalities together. trainer may be nil —
// the CFR route is then simply never selected, per spec §7's "CFR failure
// downgrades to Nash table or a heuristic EV calculator" graceful-fallback
// rule (here widened to cover "CFR unavailable"). clock defaults to a real
// wall clock; tests inject quartz.NewMock for a deterministic deadline,
// mirroring the same pattern mcts.NewSearcher already uses.
func NewSynthesizer(cfg Config, table *nash.Table, trainer *cfr.Trainer, searcher *mcts.Searcher, clock quartz.Clock) *Synthesizer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Synthesizer{cfg: cfg, nash: table, trader: trainer, mcts: searcher, clock: clock}
}

// WithTrainer returns a copy of s with its CFR trainer replaced, enabling
// (or disabling, if trainer is nil) the CFR route without touching the
// Nash table or MCTS searcher. Used by the root facade to attach a
// trainer after a separate training run completes.
func (s *Synthesizer) WithTrainer(trainer *cfr.Trainer) *Synthesizer {
	cp := *s
	cp.trader = trainer
	return &cp
}

// modalityPick is one raw (action, amount, frequency) triple as reported by
// whichever modality answered the decision, before normalization against
// the actual legal action list.
type modalityPick struct {
	amount    int
	frequency float64 // percent, 0-100
}

// Solve answers spec §4.9's algorithm for seat's decision in hand: compute
// pot odds and hero equity, route to a modality, and normalize its output
// into a DecisionProfile covering exactly the current legal actions.
func (s *Synthesizer) Solve(hand *game.HandState, seat int, rng *rand.Rand, deadline time.Time) (DecisionProfile, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return DecisionProfile{}, err
	}
	if len(legal) == 0 {
		return DecisionProfile{}, fmt.Errorf("synth: no legal actions for seat %d", seat)
	}

	player := hand.Players[seat]
	pot := float64(potSize(hand))
	toCall := float64(hand.Betting.CurrentBet - player.Bet)
	if toCall < 0 {
		toCall = 0
	}

	equity, err := heroEquity(hand, seat, s.cfg.EquityTolerance, rng)
	if err != nil {
		return DecisionProfile{}, err
	}

	sit := situation{equity: equity, pot: pot, toCall: toCall, totalInvested: float64(player.TotalBet)}

	picks, modality := s.route(hand, seat, rng, deadline)

	entries := make([]ActionEntry, 0, len(legal))
	for _, a := range legal {
		entry := s.buildEntry(hand, seat, a, picks, sit)
		entries = append(entries, entry)
	}

	normalizeFrequencies(entries)
	normalizeOrder(entries)
	markOptimal(entries)

	bb := hand.Betting.BigBlind
	for i := range entries {
		entries[i].Explanation = explain(entries[i], bb)
	}

	return DecisionProfile{Actions: entries, Modality: modality}, nil
}

// route implements spec §4.9 step 3, returning the winning modality's raw
// per-action picks (keyed by game.Action; multiple raise sizes from a
// modality collapse to one aggregated Raise pick, see cfrPicks/mctsPicks).
func (s *Synthesizer) route(hand *game.HandState, seat int, rng *rand.Rand, deadline time.Time) (map[game.Action]modalityPick, Modality) {
	if key, ok := nashEligible(hand, seat); ok && s.nash != nil {
		return nashPicks(s.nash.Distribution(key), hand, seat), ModalityNash
	}

	if s.trader != nil && cfrEligible(hand) {
		if decisions, probs := s.trader.Strategy(hand, seat); len(decisions) > 0 {
			return cfrPicks(decisions, probs), ModalityCFR
		}
	}

	searcher := s.mcts
	if remaining := deadline.Sub(s.clock.Now()); remaining > 0 {
		searcher = searcher.WithDeadline(remaining)
	}

	result, err := searcher.Search(hand, seat, rng)
	if err != nil {
		// The searcher validates its own decision list from hand.LegalActions,
		// so a failure here means seat has no legal action at all; Solve
		// already checked that above, so this should be unreachable in
		// practice. Degrade to an empty pick set rather than propagate, per
		// spec §7's "solver errors are swallowed internally where a graceful
		// fallback exists."
		return map[game.Action]modalityPick{}, ModalityMCTS
	}
	return mctsPicks(result), ModalityMCTS
}

func nashPicks(dist nash.NashAction, hand *game.HandState, seat int) map[game.Action]modalityPick {
	player := hand.Players[seat]
	toCall := hand.Betting.CurrentBet - player.Bet

	picks := map[game.Action]modalityPick{
		game.Fold: {amount: 0, frequency: dist.FoldPct},
	}
	if toCall > 0 {
		picks[game.Call] = modalityPick{amount: toCall, frequency: dist.LimpPct}
	} else {
		picks[game.Check] = modalityPick{amount: 0, frequency: dist.LimpPct}
	}

	minRaiseTo := hand.Betting.CurrentBet + hand.Betting.MinRaise
	stack := player.Chips + player.Bet
	if minRaiseTo > stack {
		minRaiseTo = stack
	}
	picks[game.Raise] = modalityPick{amount: minRaiseTo, frequency: dist.MinRaisePct}
	picks[game.AllIn] = modalityPick{amount: stack, frequency: dist.AllInPct}
	return picks
}

// cfrPicks aggregates CFR's per-decision strategy into one pick per game
// action, summing frequency across every raise size the abstraction
// offered and keeping the amount of whichever single decision carried the
// most weight as the representative sizing.
func cfrPicks(decisions []cfr.Decision, probs []float64) map[game.Action]modalityPick {
	picks := make(map[game.Action]modalityPick, len(decisions))
	bestProb := make(map[game.Action]float64, len(decisions))
	for i, d := range decisions {
		pick := picks[d.Action]
		pick.frequency += probs[i] * 100
		if probs[i] > bestProb[d.Action] {
			bestProb[d.Action] = probs[i]
			pick.amount = d.Amount
		}
		picks[d.Action] = pick
	}
	return picks
}

func mctsPicks(result mcts.Result) map[game.Action]modalityPick {
	total := 0
	for _, st := range result.Stats {
		total += st.Visits
	}
	if total == 0 {
		return map[game.Action]modalityPick{}
	}

	picks := make(map[game.Action]modalityPick, len(result.Stats))
	bestRaiseVisits := -1
	for _, st := range result.Stats {
		freq := float64(st.Visits) / float64(total) * 100
		if st.Action == game.Raise {
			existing, ok := picks[game.Raise]
			combined := freq
			if ok {
				combined += existing.frequency
			}
			amount := existing.amount
			if st.Visits > bestRaiseVisits {
				bestRaiseVisits = st.Visits
				amount = st.Amount
			}
			picks[game.Raise] = modalityPick{amount: amount, frequency: combined}
			continue
		}
		picks[st.Action] = modalityPick{amount: st.Amount, frequency: freq}
	}
	return picks
}

// buildEntry renders one legal action's row: frequency from the routed
// modality if it covered this action (0 otherwise), EV always from the
// shared estimator so every row is comparable on the same basis regardless
// of which modality answered.
func (s *Synthesizer) buildEntry(hand *game.HandState, seat int, action game.Action, picks map[game.Action]modalityPick, sit situation) ActionEntry {
	player := hand.Players[seat]
	pick, ok := picks[action]
	amount := pick.amount
	freq := pick.frequency
	if !ok {
		freq = 0
		amount = defaultAmount(hand, seat, action)
	}

	var ev float64
	switch action {
	case game.Fold:
		ev = foldEV(sit)
	case game.Check:
		ev = checkEV(sit)
	case game.Call:
		ev = callEV(sit)
	case game.Raise, game.AllIn:
		cost := float64(amount - player.Bet)
		futurePot := sit.pot + 2*cost
		ev = betOrRaiseEV(sit, cost, futurePot)
	}

	return ActionEntry{Action: action, Amount: amount, Frequency: freq, EV: ev}
}

// defaultAmount picks a representative sizing for a legal action the
// routed modality's output didn't cover, so its row still has a meaningful
// EV even at zero frequency.
func defaultAmount(hand *game.HandState, seat int, action game.Action) int {
	player := hand.Players[seat]
	switch action {
	case game.Raise:
		target := hand.Betting.CurrentBet + hand.Betting.MinRaise
		stack := player.Chips + player.Bet
		if target > stack {
			target = stack
		}
		return target
	case game.AllIn:
		return player.Chips + player.Bet
	case game.Call:
		return hand.Betting.CurrentBet - player.Bet
	default:
		return 0
	}
}

// normalizeFrequencies rescales entries to sum to exactly 100, preserving
// relative weights; an all-zero set (the routed modality covered none of
// the legal actions, which should not happen in practice) falls back to a
// uniform split so the profile still satisfies invariant 9.
func normalizeFrequencies(entries []ActionEntry) {
	total := 0.0
	for _, e := range entries {
		total += e.Frequency
	}
	if total <= 0 {
		even := 100 / float64(len(entries))
		for i := range entries {
			entries[i].Frequency = even
		}
		return
	}
	scale := 100 / total
	for i := range entries {
		entries[i].Frequency *= scale
	}
}

// markOptimal sets is_optimal on the single highest-EV entry, breaking ties
// by frequency then canonical action order (spec §4.9 step 5).
func markOptimal(entries []ActionEntry) {
	if len(entries) == 0 {
		return
	}
	best := 0
	for i := 1; i < len(entries); i++ {
		if better(entries[i], entries[best]) {
			best = i
		}
	}
	entries[best].IsOptimal = true
}

func better(a, b ActionEntry) bool {
	if a.EV != b.EV {
		return a.EV > b.EV
	}
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	return canonicalOrder[a.Action] < canonicalOrder[b.Action]
}

// potSize totals chips already in the pot plus every player's uncollected
// current-street bet, matching the pot-odds formula's "pot" (spec §4.9
// step 2). Duplicated from cfr/abstraction.go's potSize of the same name
// and purpose.
func potSize(hand *game.HandState) int {
	total := hand.PotManager.Total()
	for _, p := range hand.Players {
		total += p.Bet
	}
	return total
}
