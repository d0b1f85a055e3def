package nash

import (
	"fmt"
	"math/rand"
)

// Key identifies one entry in the frozen push/fold table: a canonical hand
// notation, seat, preflop situation, and stack-depth bucket.
type Key struct {
	Notation  Notation
	Position  Position
	Situation Situation
	Stack     StackBucket
}

func (k Key) string() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.Notation, k.Position, k.Situation, k.Stack)
}

// Table is the process-wide, immutable Nash push/fold lookup: a static map
// from (hand_notation, position, situation, stack_bucket) to a distribution
// over {fold, limp, min-raise, all-in}, as spec §4.6 describes. It is safe
// for concurrent read access from any goroutine once constructed.
type Table struct {
	idx           *index
	defaultAction NashAction
}

var allPositions = []Position{BTN, SB, BB}
var allSituations = []Situation{Open, VsPush, VsLimp}

// NewTable builds the full table over every (notation, position, situation,
// stack bucket) combination — 169 × 3 × 3 × 6 = 9,126 entries — using a
// deterministic strength heuristic (chenScore) shaped by position,
// situation, and stack depth. Construction is a one-time process-wide cost;
// Sample/Distribution are O(1) afterward via the CHD minimal perfect hash.
func NewTable() (*Table, error) {
	notations := allNotations()
	keys := make([]string, 0, len(notations)*len(allPositions)*len(allSituations)*len(stackBuckets))
	actions := make([]NashAction, 0, cap(keys))

	for _, n := range notations {
		for _, pos := range allPositions {
			for _, sit := range allSituations {
				for _, stack := range stackBuckets {
					k := Key{Notation: n, Position: pos, Situation: sit, Stack: stack}
					keys = append(keys, k.string())
					actions = append(actions, generate(k))
				}
			}
		}
	}

	idx, err := buildIndex(keys, actions)
	if err != nil {
		return nil, err
	}

	return &Table{
		idx:           idx,
		defaultAction: NashAction{FoldPct: 100},
	}, nil
}

// Distribution returns the raw frequencies for key. Unrecognized keys (a
// notation outside the 169 canonical hands, or a position/situation outside
// the closed enums) fall back to the configured default, almost always
// "fold 100%" per spec §4.6.
func (t *Table) Distribution(key Key) NashAction {
	key.Stack = ForStack(float64(key.Stack.bigBlinds()))
	action, ok := t.idx.lookup(key.string())
	if !ok {
		return t.defaultAction
	}
	return action
}

// Sample draws a single action from key's distribution.
func (t *Table) Sample(key Key, rng *rand.Rand) Action {
	return t.Distribution(key).Sample(rng)
}

// ActionEVEstimates maps key's frequencies through a published
// piecewise-linear EV schedule (spec §4.6): strong, high-push-frequency
// hands map to large positive EV, trash hands to losses, so the Decision
// Synthesizer can render an EV figure even without invoking CFR/MCTS.
//
// DESIGN.md open question 1 records the decision to keep this heuristic
// schedule rather than solving a local subgame per request.
func (t *Table) ActionEVEstimates(key Key, pot, stack, toCall float64) map[Action]float64 {
	dist := t.Distribution(key)
	pushFreq := dist.AllInPct / 100

	// Piecewise-linear in push frequency: at 0% push (trash), all-in EV is
	// a full stack loss; at 100% push (premium), it approaches pot+stack
	// (everyone folds) scaled down by a realistic continuation-call rate.
	allInEV := -stack + pushFreq*(pot+2*stack)
	limpEV := pushFreq*0.5*pot - (1-pushFreq)*toCall*0.5
	minRaiseEV := pushFreq*0.75*pot - (1-pushFreq)*toCall

	return map[Action]float64{
		// Folding surrenders only what's already in front of hero, already
		// sunk; there's no further EV delta from the act of folding itself.
		Fold:     0,
		Limp:     limpEV,
		MinRaise: minRaiseEV,
		AllIn:    allInEV,
	}
}

// generate computes the push/fold distribution for one key via the Chen
// heuristic, shaped by position looseness, situation, and stack depth.
func generate(k Key) NashAction {
	score := chenScore(k.Notation) + positionBonus(k.Position) - situationPenalty(k.Situation)
	threshold := float64(k.Stack.bigBlinds()) / 2

	const rampWidth = 8.0 // score units over which the strategy mixes rather than being pure
	pushAllAt := threshold + rampWidth/2
	foldAllAt := threshold - rampWidth/2

	var pushFreq float64
	switch {
	case score >= pushAllAt:
		pushFreq = 100
	case score <= foldAllAt:
		pushFreq = 0
	default:
		pushFreq = (score - foldAllAt) / rampWidth * 100
	}

	if k.Situation == VsLimp && pushFreq > 0 && pushFreq < 100 {
		// Facing a limper, medium-strength hands prefer to isolate with a
		// min-raise rather than shove; weak hands already resolved to a
		// pure fold above, so only the mixed band reaches here.
		minRaise := pushFreq * 0.6
		limp := pushFreq * 0.2
		allIn := pushFreq - minRaise - limp
		return NashAction{FoldPct: 100 - pushFreq, LimpPct: limp, MinRaisePct: minRaise, AllInPct: allIn}
	}

	return NashAction{FoldPct: 100 - pushFreq, AllInPct: pushFreq}
}

func positionBonus(p Position) float64 {
	switch p {
	case BTN:
		return 2
	case SB:
		return 0.5
	case BB:
		return 0
	default:
		return 0
	}
}

func situationPenalty(s Situation) float64 {
	switch s {
	case Open:
		return 0
	case VsLimp:
		return 1
	case VsPush:
		return 3 // facing a shove, hero needs a stronger hand to call one off
	default:
		return 0
	}
}
