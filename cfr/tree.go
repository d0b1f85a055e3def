package cfr

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

// decision is one offered action at a node: a game.Action plus, for Raise,
// the target total commitment.
type decision struct {
	action game.Action
	amount int
}

// RealTimeGameTree recurses over a real HandState rather than materializing
// explicit node objects, matching how the betting state machine already
// tracks legality; depth is bounded by AbstractionConfig.DepthBudget, past
// which a node is scored by an equity-based estimate instead of continuing
// to real showdown (spec §4.7).
type RealTimeGameTree struct {
	abs     AbstractionConfig
	bucket  *BucketMapper
	regrets *RegretTable
}

func newRealTimeGameTree(abs AbstractionConfig, bucket *BucketMapper, regrets *RegretTable) *RealTimeGameTree {
	return &RealTimeGameTree{abs: abs, bucket: bucket, regrets: regrets}
}

// traverseOpts carries the per-iteration knobs that don't belong on the tree
// itself (sampling mode, regret-update behavior, RNG).
type traverseOpts struct {
	sampling SamplingMode
	update   RegretUpdateOptions
	sampler  *rand.Rand
}

// traverse implements spec §4.7's training recursion for one (iteration,
// traversing player) pair, returning the traversing player's expected
// utility from hand's current state onward.
func (tr *RealTimeGameTree) traverse(hand *game.HandState, target int, depth int, reachTarget, reachOthers float64, opts traverseOpts) float64 {
	if hand.IsComplete() {
		return settleUtility(hand, target)
	}
	if depth >= tr.abs.DepthBudget {
		return estimateUtility(hand, target, opts.sampler)
	}

	seat := hand.ActivePlayer
	if seat < 0 {
		// No legal actor but the hand isn't complete: every remaining
		// player is all-in and NextStreet already dealt out every street
		// internally, so this can only happen at true showdown.
		return settleUtility(hand, target)
	}

	key := tr.bucket.InfoSet(hand, seat, hand.History)
	decisions := tr.decisionsFor(hand, seat)
	if len(decisions) == 0 {
		return settleUtility(hand, target)
	}

	entry := tr.regrets.Get(key, len(decisions))
	strategy := entry.Strategy()

	if seat == target {
		utils := make([]float64, len(decisions))
		nodeUtil := 0.0
		for i, d := range decisions {
			child := cloneHand(hand)
			if err := child.Execute(seat, d.action, d.amount); err != nil {
				continue
			}
			utils[i] = tr.traverse(child, target, depth+1, reachTarget*strategy[i], reachOthers, opts)
			nodeUtil += strategy[i] * utils[i]
		}

		regrets := make([]float64, len(decisions))
		for i := range decisions {
			regrets[i] = (utils[i] - nodeUtil) * reachOthers
		}
		entry.Update(regrets, strategy, reachTarget, opts.update)
		return nodeUtil
	}

	if opts.sampling == SamplingFullTraversal {
		nodeUtil := 0.0
		for i, d := range decisions {
			prob := strategy[i]
			if prob <= 0 {
				continue
			}
			child := cloneHand(hand)
			if err := child.Execute(seat, d.action, d.amount); err != nil {
				continue
			}
			nodeUtil += prob * tr.traverse(child, target, depth+1, reachTarget, reachOthers*prob, opts)
		}
		return nodeUtil
	}

	idx, prob := sampleIndex(strategy, opts.sampler)
	if prob <= 0 {
		prob = 1.0 / float64(len(decisions))
	}
	child := cloneHand(hand)
	if err := child.Execute(seat, decisions[idx].action, decisions[idx].amount); err != nil {
		return 0
	}
	return tr.traverse(child, target, depth+1, reachTarget, reachOthers*prob, opts)
}

// decisionsFor renders seat's legal actions through the action-budget
// abstraction: fold/check/call pass through verbatim, raises collapse to
// the configured bet-size fractions of pot (plus all-in).
func (tr *RealTimeGameTree) decisionsFor(hand *game.HandState, seat int) []decision {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return nil
	}

	out := make([]decision, 0, tr.abs.MaxActionsPerNode)
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
		for _, total := range tr.raiseTotals(hand, player) {
			out = append(out, decision{action: game.Raise, amount: total})
		}
	}
	if haveAllIn {
		out = append(out, decision{action: game.AllIn})
	}

	if len(out) > tr.abs.MaxActionsPerNode {
		out = out[:tr.abs.MaxActionsPerNode]
	}
	return out
}

func (tr *RealTimeGameTree) raiseTotals(hand *game.HandState, player *game.Player) []int {
	maxTotal := player.Bet + player.Chips
	minRaise := hand.Betting.MinRaise
	if minRaise <= 0 {
		minRaise = 1
	}

	pot := potSize(hand)
	seen := make(map[int]struct{}, len(tr.abs.BetSizing))
	totals := make([]int, 0, len(tr.abs.BetSizing))

	for _, fraction := range tr.abs.BetSizing {
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

// settleUtility is the traversing player's chip delta at a real terminal
// node: chips won at showdown (or by everyone else folding) minus the
// player's total investment this hand.
func settleUtility(hand *game.HandState, seat int) float64 {
	payouts := hand.Settle()
	return float64(payouts[seat] - hand.Players[seat].TotalBet)
}

// estimateUtility scores a node cut off by the depth budget using the
// Equity Estimator against a uniformly random opponent range over every
// card the deck hasn't yet dealt (spec §4.7: "terminal nodes evaluate an
// estimated payoff from the hand bucket via the Equity Estimator").
func estimateUtility(hand *game.HandState, seat int, rng *rand.Rand) float64 {
	player := hand.Players[seat]
	holeCards := unpack2(player.HoleCards)
	if holeCards == nil {
		return 0
	}

	boardCards := unpackUpTo5(hand.Board)
	opp := randomOpponentRange(player.HoleCards | hand.Board)

	eq, err := equity.Estimate(*holeCards, boardCards, opp, 0, rng)
	if err != nil {
		return 0
	}

	pot := float64(potSize(hand))
	return eq*pot - float64(player.TotalBet)
}

func unpack2(h poker.Hand) *[2]poker.Card {
	cards := unpackAll(h)
	if len(cards) != 2 {
		return nil
	}
	return &[2]poker.Card{cards[0], cards[1]}
}

func unpackUpTo5(h poker.Hand) []poker.Card {
	return unpackAll(h)
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

// randomOpponentRange weights every combo of cards not already dead equally,
// i.e. "opponent holds two uniformly random unseen cards."
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

func sampleIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	if len(strategy) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, v := range strategy {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		idx := rng.Intn(len(strategy))
		return idx, 1.0 / float64(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, v := range strategy {
		if v <= 0 {
			continue
		}
		acc += v
		if r <= acc {
			return i, v / total
		}
	}
	return len(strategy) - 1, strategy[len(strategy)-1] / total
}
