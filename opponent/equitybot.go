package opponent

import (
	"math/rand"
	"sync"

	"github.com/pokergto/engine/equity"
	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

// EquityBot folds, calls, or raises by comparing its Monte Carlo equity
// estimate (against a maximally wide opponent range, since this bot has no
// real read on what an in-process opponent holds) to the pot odds it is
// offered — the same shouldFold/calcSPR-driven shape as sdk/bots/complex's
// makeStrategicDecision, simplified down to a single equity-vs-price
// comparison since the teacher's range tables and board-texture bet sizing
// (sdk/analysis's preflop/postflop charts) are this repo's already-adapted
// abstract/nash/cfr packages' job, not a throwaway opponent's.
type EquityBot struct {
	// Tolerance bounds the Monte Carlo estimate's standard error; 0 uses
	// equity.Estimate's own default.
	Tolerance float64
	// RaiseThreshold is the equity above which EquityBot raises instead of
	// just calling/checking, when Raise is legal.
	RaiseThreshold float64
}

// NewEquityBot returns an EquityBot with reasonable defaults: raise with
// better than 65% equity, otherwise play straightforwardly to its price.
func NewEquityBot() EquityBot {
	return EquityBot{Tolerance: 0.02, RaiseThreshold: 0.65}
}

func (b EquityBot) Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return 0, 0, err
	}

	player := hand.Players[seat]
	hole := unpackHand(player.HoleCards)
	if len(hole) != 2 {
		return checkOrCall(legal), 0, nil
	}
	board := unpackHand(hand.Board)

	eq, err := equity.Estimate([2]poker.Card{hole[0], hole[1]}, board, wideRange(), b.Tolerance, rng)
	if err != nil {
		return checkOrCall(legal), 0, nil
	}

	pot := float64(potSize(hand))
	toCall := float64(hand.Betting.CurrentBet - player.Bet)

	threshold := b.RaiseThreshold
	if threshold <= 0 {
		threshold = 0.65
	}

	if toCall <= 0 {
		if has(legal, game.Raise) && eq > threshold {
			return game.Raise, minRaiseTo(hand, seat), nil
		}
		return checkOrCall(legal), 0, nil
	}

	required := toCall / (pot + toCall)
	if eq < required {
		return game.Fold, 0, nil
	}
	if has(legal, game.Raise) && eq > threshold {
		return game.Raise, minRaiseTo(hand, seat), nil
	}
	if has(legal, game.Call) {
		return game.Call, 0, nil
	}
	return game.Fold, 0, nil
}

// potSize duplicates cfr/abstraction.go's and synth/synthesizer.go's
// identically named and purposed helper.
func potSize(hand *game.HandState) int {
	total := hand.PotManager.Total()
	for _, p := range hand.Players {
		total += p.Bet
	}
	return total
}

// unpackHand duplicates engine.go's unpackHand of the same name and
// purpose — this package has no dependency on the engine package, so the
// small bitset-unpacking helper is repeated rather than introducing one.
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

// wideRangeNotation approximates "opponent could have any two cards": every
// pair plus every suited/offsuit combo from rank 2 up at every top rank,
// which together enumerate all 1,326 starting hands.
const wideRangeNotation = "22+,A2+,K2+,Q2+,J2+,T2+,92+,82+,72+,62+,52+,42+,32+"

var (
	wideRangeOnce  sync.Once
	wideRangeCache *equity.Range
)

// wideRange lazily parses and caches the maximally wide opponent range so
// repeated EquityBot.Act calls don't reparse it every decision; sync.Once
// makes this safe when several goroutines call Act at once.
func wideRange() *equity.Range {
	wideRangeOnce.Do(func() {
		r, err := equity.ParseRange(wideRangeNotation)
		if err != nil {
			panic("opponent: wideRangeNotation failed to parse: " + err.Error())
		}
		wideRangeCache = r
	})
	return wideRangeCache
}
