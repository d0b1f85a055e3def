// Package synth implements the Decision Synthesizer (spec §4.9): it routes
// a live decision to the Nash push/fold table, the CFR blueprint, or the
// IS-MCTS searcher, then renders whichever modality answers into a single
// DecisionProfile covering every action the state machine currently allows.
package synth

import (
	"fmt"
	"sort"

	"github.com/pokergto/engine/game"
)

// ActionEntry is one action's row in a DecisionProfile: how often the
// synthesizer recommends it, its expected value in chips, whether it is the
// single optimal pick, and a short rationale.
type ActionEntry struct {
	Action      game.Action
	Amount      int
	Frequency   float64 // percent, 0-100
	EV          float64 // chips, from hero's perspective
	IsOptimal   bool
	Explanation string
}

// DecisionProfile is the synthesizer's output for one decision point: an
// ordered list of (action, frequency, ev, is_optimal, explanation) entries,
// one per legal action, with frequencies summing to 100±1 and exactly one
// entry marked optimal (spec §8 invariant 9).
type DecisionProfile struct {
	Actions  []ActionEntry
	Modality Modality
}

// FrequencySum totals the profile's frequencies; a well-formed profile
// reports close to 100.
func (p DecisionProfile) FrequencySum() float64 {
	total := 0.0
	for _, a := range p.Actions {
		total += a.Frequency
	}
	return total
}

// Optimal returns the entry marked is_optimal, if any.
func (p DecisionProfile) Optimal() (ActionEntry, bool) {
	for _, a := range p.Actions {
		if a.IsOptimal {
			return a, true
		}
	}
	return ActionEntry{}, false
}

// canonicalOrder breaks is_optimal ties per spec §4.9 step 5: all-in, raise,
// bet, call, check, fold. This engine's Action enum collapses bet into
// raise, so the ladder has five rungs.
var canonicalOrder = map[game.Action]int{
	game.AllIn: 0,
	game.Raise: 1,
	game.Call:  2,
	game.Check: 3,
	game.Fold:  4,
}

// normalizeOrder sorts entries for display: canonical action order, most
// aggressive first.
func normalizeOrder(entries []ActionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return canonicalOrder[entries[i].Action] < canonicalOrder[entries[j].Action]
	})
}

func explain(a ActionEntry, bigBlind int) string {
	bb := 0.0
	if bigBlind > 0 {
		bb = a.EV / float64(bigBlind)
	}
	rationale := rationaleFor(a)
	return fmt.Sprintf("%.0f%% frequency, %.2f bb EV: %s", a.Frequency, bb, rationale)
}

func rationaleFor(a ActionEntry) string {
	switch {
	case a.Action == game.Fold && a.Frequency >= 50:
		return "fold below pot-odds threshold"
	case a.Action == game.Fold:
		return "occasional fold to cap variance"
	case a.Action == game.Check:
		return "pot control, no bet to beat"
	case a.Action == game.Call && a.Frequency >= 50:
		return "price justifies a call"
	case a.Action == game.Call:
		return "MDF defense"
	case a.Action == game.Raise && a.IsOptimal:
		return "value raise"
	case a.Action == game.Raise:
		return "mixed bluff/value raise"
	case a.Action == game.AllIn:
		return "shove for fold equity and stack pressure"
	default:
		return "situational"
	}
}
