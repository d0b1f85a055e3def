package mcts

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/coder/quartz"

	"github.com/pokergto/engine/abstract"
	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

// bucketStrength assigns each HandBucket label a strength in [0, 1], used
// only to bias the rollout policy and PUCT's prior term toward aggression
// with strong hands (spec §4.8). Order matches abstract.Abstractor's own
// constant declaration, strongest first.
var bucketOrder = []abstract.HandBucket{
	abstract.PremiumPair, abstract.HighPair, abstract.MidPair, abstract.LowPair,
	abstract.PremiumSuited, abstract.PremiumOffsuit, abstract.BroadwaySuited, abstract.BroadwayOffsuit,
	abstract.GoodSuited, abstract.SuitedConnector, abstract.DecentSuited, abstract.DecentOffsuit,
	abstract.SpeculativeSuited, abstract.MediocreOffsuit, abstract.WeakSuited, abstract.WeakOffsuit,
	abstract.Trash,
}

func bucketStrength(b abstract.HandBucket) float64 {
	for i, candidate := range bucketOrder {
		if candidate == b {
			return 1 - float64(i)/float64(len(bucketOrder)-1)
		}
	}
	return 0.5
}

// Result is the search's recommendation: the highest-visit child action
// (spec §4.8's cancellation rule — "MCTS: highest-visit child"), plus the
// full visit distribution so a caller can render a mixed-strategy profile.
type Result struct {
	Action     game.Action
	Amount     int
	Iterations int
	Visits     map[string]int
	Values     map[string]float64
	// Stats mirrors Visits/Values as an ordered, action-addressable slice so
	// callers outside this package (the decision synthesizer) don't need to
	// parse the string keys Visits/Values are keyed by.
	Stats []ActionStat
}

// ActionStat is one root action's search statistics: how many times it was
// visited and its average backpropagated reward.
type ActionStat struct {
	Action game.Action
	Amount int
	Visits int
	Value  float64
}

// Searcher runs one IS-MCTS search per call; root is rebuilt fresh every
// time (spec §3: "root rebuilt per decision; subtrees are discarded once
// the decision is made").
type Searcher struct {
	cfg        Config
	abstractor *abstract.Abstractor
	clock      quartz.Clock
}

// NewSearcher builds a searcher with the given clock, defaulting to a real
// wall clock; tests inject quartz.NewMock to control the time budget
// deterministically, mirroring the teacher's own test-clock pattern.
func NewSearcher(cfg Config, clock quartz.Clock) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Searcher{cfg: cfg, abstractor: abstract.NewAbstractor(), clock: clock}, nil
}

// WithDeadline returns a shallow copy of the searcher with its time budget
// clamped to at most d, without mutating the original. The decision
// synthesizer uses this to honor a caller-supplied deadline (spec §6's
// solve(h, playerId, deadline_ms)) on top of this searcher's own
// construction-time default.
func (s *Searcher) WithDeadline(d time.Duration) *Searcher {
	cfg := s.cfg
	if d < cfg.TimeBudget {
		cfg.TimeBudget = d
	}
	return &Searcher{cfg: cfg, abstractor: s.abstractor, clock: s.clock}
}

// Search runs iterations until the time budget or MaxIterations is
// exhausted, returning the most-visited legal action from seat's current
// decision point.
func (s *Searcher) Search(hand *game.HandState, seat int, rng *rand.Rand) (Result, error) {
	decisions := s.decisionsFor(hand, seat)
	if len(decisions) == 0 {
		return Result{}, fmt.Errorf("mcts: no legal decisions for seat %d", seat)
	}

	root := newNode(nil, infoSetID(hand, seat), seat, decisions)
	deadline := s.clock.Now().Add(s.cfg.TimeBudget)

	iterations := 0
	for iterations < s.cfg.MaxIterations && s.clock.Now().Before(deadline) {
		determinized := s.determinize(hand, seat, rng)
		s.run(root, determinized, 0, rng)
		iterations++
	}

	return s.result(root, iterations), nil
}

func (s *Searcher) result(root *Node, iterations int) Result {
	visits := make(map[string]int, len(root.widened))
	values := make(map[string]float64, len(root.widened))
	stats := make([]ActionStat, 0, len(root.widened))
	var best decision
	bestVisits := -1
	for _, d := range root.widened {
		child := root.children[d.key()]
		visits[d.key()] = child.visits
		value := 0.0
		if child.visits > 0 {
			value = child.reward / float64(child.visits)
			values[d.key()] = value
		}
		stats = append(stats, ActionStat{Action: d.action, Amount: d.amount, Visits: child.visits, Value: value})
		if child.visits > bestVisits {
			bestVisits = child.visits
			best = d
		}
	}
	return Result{
		Action:     best.action,
		Amount:     best.amount,
		Iterations: iterations,
		Visits:     visits,
		Values:     values,
		Stats:      stats,
	}
}

// run descends the tree by UCB/PUCT selection until it reaches a node with
// untried (or not-yet-widened) decisions, expands one, rolls it out with
// the heuristic policy, and backpropagates the resulting per-seat utility
// vector up the path (spec §4.8 steps 2-5).
func (s *Searcher) run(node *Node, hand *game.HandState, depth int, rng *rand.Rand) []float64 {
	node.visits++

	if hand.IsComplete() || depth >= s.cfg.MaxDepth {
		return s.terminalUtils(hand, rng)
	}
	seat := hand.ActivePlayer
	if seat < 0 {
		return s.terminalUtils(hand, rng)
	}

	if !node.fullyExpanded(s.cfg) {
		return s.expand(node, hand, seat, depth, rng)
	}

	d, child := s.selectChild(node, rng)
	clone := cloneHand(hand)
	if err := clone.Execute(seat, d.action, d.amount); err != nil {
		return s.terminalUtils(hand, rng)
	}
	utils := s.run(child, clone, depth+1, rng)
	child.reward += utils[seat]
	return utils
}

func (s *Searcher) expand(node *Node, hand *game.HandState, seat, depth int, rng *rand.Rand) []float64 {
	d := node.untried[0]
	node.untried = node.untried[1:]
	node.widened = append(node.widened, d)

	clone := cloneHand(hand)
	if err := clone.Execute(seat, d.action, d.amount); err != nil {
		child := newNode(node, "", -1, nil)
		child.visits = 1
		node.children[d.key()] = child
		return s.terminalUtils(hand, rng)
	}

	var childDecisions []decision
	childPlayer := -1
	if !clone.IsComplete() && clone.ActivePlayer >= 0 {
		childPlayer = clone.ActivePlayer
		childDecisions = s.decisionsFor(clone, childPlayer)
	}
	child := newNode(node, infoSetID(clone, seat), childPlayer, childDecisions)
	node.children[d.key()] = child

	utils := s.rollout(clone, depth+1, rng)
	child.visits = 1
	child.reward = utils[seat]
	return utils
}

// selectChild applies UCB1 (or PUCT, when configured) over node's widened
// children, scored from node.player's perspective.
func (s *Searcher) selectChild(node *Node, rng *rand.Rand) (decision, *Node) {
	var best decision
	var bestChild *Node
	bestScore := math.Inf(-1)

	for _, d := range node.widened {
		child := node.children[d.key()]
		if child.visits == 0 {
			return d, child
		}
		exploit := child.reward / float64(child.visits)
		var score float64
		if s.cfg.UsePUCT {
			prior := 1.0 / float64(len(node.widened))
			score = exploit + s.cfg.ExplorationConstant*prior*math.Sqrt(float64(node.visits))/float64(1+child.visits)
		} else {
			score = exploit + s.cfg.ExplorationConstant*math.Sqrt(math.Log(float64(node.visits))/float64(child.visits))
		}
		if score > bestScore {
			bestScore = score
			best = d
			bestChild = child
		}
	}
	if bestChild == nil {
		idx := rng.Intn(len(node.widened))
		best = node.widened[idx]
		bestChild = node.children[best.key()]
	}
	return best, bestChild
}

// rollout plays out a heuristic policy to a real terminal or the depth
// budget, mutating hand in place (it's already a private clone scratch
// instance, not shared with the tree).
func (s *Searcher) rollout(hand *game.HandState, depth int, rng *rand.Rand) []float64 {
	for !hand.IsComplete() && depth < s.cfg.MaxDepth {
		seat := hand.ActivePlayer
		if seat < 0 {
			break
		}
		decisions := s.decisionsFor(hand, seat)
		if len(decisions) == 0 {
			break
		}

		var d decision
		if rng.Float64() < s.cfg.RolloutEpsilon {
			d = decisions[rng.Intn(len(decisions))]
		} else {
			d = s.biasedChoice(hand, seat, decisions, rng)
		}
		if err := hand.Execute(seat, d.action, d.amount); err != nil {
			break
		}
		depth++
	}
	return s.terminalUtils(hand, rng)
}

// biasedChoice weights fold/check/call/raise/all-in by hand strength: a
// strong bucket favors aggression, a weak bucket favors giving up cheaply
// (spec §4.8's rollout policy).
func (s *Searcher) biasedChoice(hand *game.HandState, seat int, decisions []decision, rng *rand.Rand) decision {
	strength := s.seatStrength(hand, seat)
	weights := make([]float64, len(decisions))
	total := 0.0
	for i, d := range decisions {
		w := 1.0
		switch d.action {
		case game.Fold:
			w = 0.2 + 1.3*(1-strength)
		case game.Check, game.Call:
			w = 1.0
		case game.Raise, game.AllIn:
			w = 0.2 + 1.3*strength
		}
		weights[i] = w
		total += w
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return decisions[i]
		}
	}
	return decisions[len(decisions)-1]
}

func (s *Searcher) seatStrength(hand *game.HandState, seat int) float64 {
	player := hand.Players[seat]
	if hand.Street == game.Preflop {
		return bucketStrength(s.abstractor.PreflopBucket(player.HoleCards))
	}
	bucket, _ := s.abstractor.PostflopBucket(player.HoleCards, hand.Board)
	return bucketStrength(bucket)
}

// decisionsFor offers the real action space rather than CFR's coarse
// abstraction: fold/check/call pass through, raises span a finer ladder of
// pot fractions (progressive widening, not a fixed bucket count, bounds
// how many of them selection actually sees at low visit counts).
func (s *Searcher) decisionsFor(hand *game.HandState, seat int) []decision {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return nil
	}

	out := make([]decision, 0, len(legal)+6)
	player := hand.Players[seat]
	haveRaise, haveAllIn := false, false
	for _, a := range legal {
		switch a {
		case game.Fold, game.Check, game.Call:
			out = append(out, decision{action: a})
		case game.Raise:
			haveRaise = true
		case game.AllIn:
			haveAllIn = true
		}
	}
	if haveRaise {
		for _, total := range raiseLadder(hand, player) {
			out = append(out, decision{action: game.Raise, amount: total})
		}
	}
	if haveAllIn {
		out = append(out, decision{action: game.AllIn})
	}
	return out
}

// raiseLadder returns a finer set of raise-to totals than CFR's abstracted
// BetSizing fractions: the real action space IS-MCTS is meant to search
// (spec §4.8: "search over the real (non-abstracted) action space").
var raiseFractions = []float64{0.33, 0.5, 0.75, 1.0, 1.5, 2.0}

func raiseLadder(hand *game.HandState, player *game.Player) []int {
	maxTotal := player.Bet + player.Chips
	minRaise := hand.Betting.MinRaise
	if minRaise <= 0 {
		minRaise = 1
	}
	pot := potSize(hand)

	seen := make(map[int]struct{}, len(raiseFractions))
	totals := make([]int, 0, len(raiseFractions))
	for _, fraction := range raiseFractions {
		raise := int(math.Round(float64(pot) * fraction))
		if raise < minRaise {
			raise = minRaise
		}
		total := hand.Betting.CurrentBet + raise
		if total <= hand.Betting.CurrentBet || total >= maxTotal {
			continue
		}
		if _, ok := seen[total]; ok {
			continue
		}
		seen[total] = struct{}{}
		totals = append(totals, total)
	}
	sort.Ints(totals)
	return totals
}

func potSize(hand *game.HandState) int {
	total := 0
	for _, p := range hand.PotManager.GetPots() {
		total += p.Amount
	}
	for _, p := range hand.Players {
		total += p.Bet
	}
	return total
}

func cloneHand(hand *game.HandState) *game.HandState {
	clone := *hand
	clone.Players = make([]*game.Player, len(hand.Players))
	for i, p := range hand.Players {
		cp := *p
		clone.Players[i] = &cp
	}
	clone.History = append([]game.ActionRecord(nil), hand.History...)
	bettingCopy := *hand.Betting
	bettingCopy.ActedThisRound = append([]bool(nil), hand.Betting.ActedThisRound...)
	clone.Betting = &bettingCopy
	clone.PotManager = hand.PotManager.Clone()
	deckCopy := *hand.Deck
	clone.Deck = &deckCopy
	return &clone
}

// determinize samples the hidden information IS-MCTS treats as unknown:
// every other seat's hole cards and the board cards not yet dealt, drawn
// uniformly from whatever the observing seat hasn't seen (spec §4.8 step
// 1). Public state (bets, history, pot, the observer's own cards, already
// public board cards) is carried through unchanged.
func (s *Searcher) determinize(hand *game.HandState, observer int, rng *rand.Rand) *game.HandState {
	clone := cloneHand(hand)

	dead := append(unpackAll(clone.Board), unpackAll(clone.Players[observer].HoleCards)...)
	deck := poker.NewDeck(rng)
	deck.Exclude(dead)
	deck.ShuffleRemaining()

	for i, p := range clone.Players {
		if i == observer || p.Folded {
			continue
		}
		p.HoleCards = poker.NewHand(deck.Deal(2)...)
	}
	clone.Deck = deck
	return clone
}

func unpack2(h poker.Hand) *[2]poker.Card {
	cards := unpackAll(h)
	if len(cards) != 2 {
		return nil
	}
	return &[2]poker.Card{cards[0], cards[1]}
}

func unpackAll(h poker.Hand) []poker.Card {
	cards := make([]poker.Card, 0, 7)
	for suit := uint8(0); suit < 4; suit++ {
		mask := h.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				cards = append(cards, poker.NewCard(rank, suit))
			}
		}
	}
	return cards
}

func randomOpponentRange(dead poker.Hand) *equity.Range {
	r := equity.NewRange()
	var unseen []poker.Card
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := poker.NewCard(rank, suit)
			if !dead.HasCard(c) {
				unseen = append(unseen, c)
			}
		}
	}
	for i := 0; i < len(unseen); i++ {
		for j := i + 1; j < len(unseen); j++ {
			r.AddCombo(unseen[i], unseen[j], 1)
		}
	}
	return r
}

// terminalUtils returns the per-seat utility vector at a real terminal
// node (settlement) or, past the depth budget, an equity-based estimate
// for every still-live seat — the same cutoff heuristic CFR's tree uses,
// applied here per-player since IS-MCTS backpropagates a full reward
// vector rather than one traversing player's utility (spec §4.7's
// estimator, reused per spec §4.8's shared Equity Estimator dependency).
func (s *Searcher) terminalUtils(hand *game.HandState, rng *rand.Rand) []float64 {
	utils := make([]float64, len(hand.Players))
	if hand.IsComplete() {
		payouts := hand.Settle()
		for i, p := range hand.Players {
			utils[i] = float64(payouts[i] - p.TotalBet)
		}
		return utils
	}

	pot := float64(potSize(hand))
	for i, p := range hand.Players {
		if p.Folded {
			utils[i] = -float64(p.TotalBet)
			continue
		}
		hole := unpack2(p.HoleCards)
		if hole == nil {
			continue
		}
		board := unpackAll(hand.Board)
		opp := randomOpponentRange(p.HoleCards | hand.Board)
		eq, err := equity.Estimate(*hole, board, opp, 0, rng)
		if err != nil {
			continue
		}
		utils[i] = eq*pot - float64(p.TotalBet)
	}
	return utils
}

// infoSetID identifies a node by what the observer actually knows: the
// public board, the action history, and observer's own hole cards — the
// real (non-abstracted) information set IS-MCTS distinguishes nodes by,
// contrasted with CFR's bucketed InfoSetKey (spec §3).
func infoSetID(hand *game.HandState, observer int) string {
	history := make([]byte, 0, len(hand.History))
	for _, rec := range hand.History {
		history = append(history, actionGlyph(rec.Action))
	}
	return fmt.Sprintf("%d|%s|%d|%d", hand.Street, string(history), uint64(hand.Players[observer].HoleCards), observer)
}

func actionGlyph(a game.Action) byte {
	switch a {
	case game.Fold:
		return 'f'
	case game.Check:
		return 'x'
	case game.Call:
		return 'c'
	case game.Raise:
		return 'r'
	case game.AllIn:
		return 'a'
	default:
		return '?'
	}
}
