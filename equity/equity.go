package equity

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pokergto/engine/poker"
	"github.com/pokergto/engine/pokererr"
)

// Result accumulates weighted win/tie/loss mass across enumerated or sampled
// outcomes. Unlike a plain simulation counter, weights needn't be integers:
// exact enumeration contributes fractional mass per opponent combo weight.
type Result struct {
	Win, Tie, Total float64
}

// Equity returns hero's share of the pot, (Win + Tie) / Total. Callers add a
// tie into Tie as its 1/N split share: enumerate and runBatch compare hero
// against one opponent combo at a time, so each tie adds half its weight.
func (r Result) Equity() float64 {
	if r.Total == 0 {
		return 0
	}
	return (r.Win + r.Tie) / r.Total
}

// exactEnumerationUnknownThreshold caps the number of unknown community
// cards for which brute-force runout enumeration is attempted.
const exactEnumerationUnknownThreshold = 2

// exactEnumerationComboLimit caps the opponent range size for exact
// enumeration; wider ranges fall back to Monte Carlo even with few unknowns,
// since exact enumeration is O(runouts * comboCount).
const exactEnumerationComboLimit = 60

// defaultTolerance is the standard-error stopping threshold used when a
// caller passes a non-positive tolerance.
const defaultTolerance = 0.005

// maxMonteCarloSamples bounds runtime when the standard error never closes
// on a tight tolerance (e.g. a near coin-flip spot).
const maxMonteCarloSamples = 200_000

// Estimate computes hero's equity against opp, given hero's two hole cards
// and 0-5 board cards. Unknown community cards are completed either by
// exact enumeration (few unknowns, narrow range) or Monte Carlo sampling
// (otherwise), stopping when the running standard error falls under
// tolerance or the sample cap is hit. A non-positive tolerance uses a
// sensible default.
func Estimate(hero [2]poker.Card, board []poker.Card, opp *Range, tolerance float64, rng *rand.Rand) (float64, error) {
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("equity: board has %d cards, want at most 5: %w", len(board), pokererr.ErrInvalidState)
	}

	heroHand := poker.NewHand(hero[0], hero[1])
	if heroHand.CountCards() != 2 {
		return 0, fmt.Errorf("equity: hero hole cards must be distinct: %w", pokererr.ErrInvalidState)
	}
	boardHand := poker.NewHand(board...)
	if boardHand.CountCards() != len(board) {
		return 0, fmt.Errorf("equity: board cards must be distinct: %w", pokererr.ErrInvalidState)
	}
	if heroHand&boardHand != 0 {
		return 0, fmt.Errorf("equity: hero cards overlap the board: %w", pokererr.ErrInvalidState)
	}
	if opp == nil || opp.Size() == 0 {
		return 0, fmt.Errorf("equity: opponent range is empty: %w", pokererr.ErrInvalidState)
	}

	dead := heroHand | boardHand
	unknown := 5 - len(board)

	if unknown <= exactEnumerationUnknownThreshold && opp.Size() <= exactEnumerationComboLimit {
		return enumerate(heroHand, boardHand, dead, unknown, opp)
	}
	return monteCarlo(heroHand, boardHand, dead, unknown, opp, tolerance, rng)
}

func remainingDeck(dead poker.Hand) []poker.Card {
	cards := make([]poker.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := poker.NewCard(rank, suit)
			if !dead.HasCard(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// enumerate brute-forces every runout of the missing board cards and every
// compatible opponent combo, weighting by combo weight within each runout.
func enumerate(heroHand, boardHand, dead poker.Hand, unknown int, opp *Range) (float64, error) {
	deck := remainingDeck(dead)
	combos := opp.Combos()

	var total Result
	runouts := chooseK(len(deck), unknown)
	if runouts == 0 {
		runouts = 1
	}

	var walk func(start int, picked []poker.Card)
	walk = func(start int, picked []poker.Card) {
		if len(picked) == unknown {
			finalBoard := boardHand
			for _, c := range picked {
				finalBoard.AddCard(c)
			}
			heroScore := poker.Evaluate7Cards(heroHand | finalBoard)

			var weightSum float64
			var win, tie float64
			for _, oppHand := range combos {
				if oppHand&(dead|finalBoard) != 0 {
					continue
				}
				w := opp.Weight(oppHand)
				if w <= 0 {
					continue
				}
				oppScore := poker.Evaluate7Cards(oppHand | finalBoard)
				switch poker.CompareHands(heroScore, oppScore) {
				case 1:
					win += w
				case 0:
					tie += w / 2
				}
				weightSum += w
			}
			if weightSum > 0 {
				total.Win += win / weightSum
				total.Tie += tie / weightSum
				total.Total++
			}
			return
		}
		for i := start; i < len(deck); i++ {
			walk(i+1, append(picked, deck[i]))
		}
	}
	walk(0, make([]poker.Card, 0, unknown))

	return total.Equity(), nil
}

func chooseK(n, k int) int {
	if k == 0 {
		return 1
	}
	if k > n {
		return 0
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// monteCarloWorkers caps how many goroutines split each sampling batch,
// mirroring internal/evaluator/equity.go's "don't exceed CPU cores... cap
// at 8 for diminishing returns."
func monteCarloWorkers() int {
	w := runtime.NumCPU()
	if w > 8 {
		w = 8
	}
	if w < 1 {
		w = 1
	}
	return w
}

// batchResult accumulates one worker's share of a sampling batch, mirroring
// internal/evaluator/equity.go's workerResult.
type batchResult struct {
	win, tie, n float64
}

// runBatch draws samples opponent-combo/runout pairs and scores each,
// matching monteCarlo's inner loop body but operating on its own RNG so it
// can run concurrently with sibling workers.
func runBatch(heroHand, boardHand, dead poker.Hand, unknown int, combos []poker.Hand, cumWeight []float64, totalWeight float64, samples int, rng *rand.Rand) batchResult {
	var res batchResult
	for b := 0; b < samples; b++ {
		oppHand, ok := sampleCombo(combos, cumWeight, totalWeight, dead, rng)
		if !ok {
			continue
		}
		finalBoard := boardHand
		deck := remainingDeck(dead | oppHand)
		for i := 0; i < unknown; i++ {
			j := rng.Intn(len(deck))
			finalBoard.AddCard(deck[j])
			deck[j] = deck[len(deck)-1]
			deck = deck[:len(deck)-1]
		}

		heroScore := poker.Evaluate7Cards(heroHand | finalBoard)
		oppScore := poker.Evaluate7Cards(oppHand | finalBoard)
		res.n++
		switch poker.CompareHands(heroScore, oppScore) {
		case 1:
			res.win++
		case 0:
			res.tie += 0.5
		}
	}
	return res
}

// monteCarlo samples runouts and opponent combos without replacement,
// fanning each batch across monteCarloWorkers() goroutines (grounded on
// internal/evaluator/equity.go's errgroup worker pool) and re-estimating
// standard error after every batch until it drops under tolerance or the
// sample cap is reached.
func monteCarlo(heroHand, boardHand, dead poker.Hand, unknown int, opp *Range, tolerance float64, rng *rand.Rand) (float64, error) {
	combos := opp.Combos()
	cumWeight := make([]float64, len(combos))
	var totalWeight float64
	for i, h := range combos {
		totalWeight += opp.Weight(h)
		cumWeight[i] = totalWeight
	}
	if totalWeight <= 0 {
		return 0, fmt.Errorf("equity: opponent range has no positive weight: %w", pokererr.ErrInvalidState)
	}

	const batch = 500
	workers := monteCarloWorkers()
	var win, tie, n float64

	for samples := 0; samples < maxMonteCarloSamples; samples += batch {
		perWorker := batch / workers
		remainder := batch % workers

		g, _ := errgroup.WithContext(context.Background())
		results := make([]batchResult, workers)
		for w := 0; w < workers; w++ {
			workerSamples := perWorker
			if w < remainder {
				workerSamples++
			}
			// Each worker gets its own RNG seeded from rng before the
			// fan-out starts, so results stay deterministic for a given
			// seed regardless of goroutine scheduling order.
			workerRng := rand.New(rand.NewSource(rng.Int63()))
			idx := w
			samplesForWorker := workerSamples
			g.Go(func() error {
				results[idx] = runBatch(heroHand, boardHand, dead, unknown, combos, cumWeight, totalWeight, samplesForWorker, workerRng)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			win += r.win
			tie += r.tie
			n += r.n
		}

		if n == 0 {
			continue
		}
		equity := (win + tie) / n
		se := math.Sqrt(equity * (1 - equity) / n)
		if se < tolerance {
			break
		}
	}

	if n == 0 {
		return 0, fmt.Errorf("equity: no valid opponent combo was reachable: %w", pokererr.ErrInvalidState)
	}
	return (win + tie) / n, nil
}

// sampleCombo draws a weighted-random opponent combo that doesn't collide
// with dead cards, retrying a bounded number of times before giving up.
func sampleCombo(combos []poker.Hand, cumWeight []float64, totalWeight float64, dead poker.Hand, rng *rand.Rand) (poker.Hand, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		target := rng.Float64() * totalWeight
		idx := 0
		for idx < len(cumWeight) && cumWeight[idx] < target {
			idx++
		}
		if idx >= len(combos) {
			idx = len(combos) - 1
		}
		hand := combos[idx]
		if hand&dead == 0 {
			return hand, true
		}
	}
	return 0, false
}
