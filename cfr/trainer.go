package cfr

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/internal/randutil"
	"github.com/pokergto/engine/poker"
)

var errBlueprintNil = errors.New("cfr: blueprint is nil")

// TraversalStats captures instrumentation for one completed iteration.
type TraversalStats struct {
	IterationTime time.Duration
}

// Progress is emitted periodically during Run so a caller can schedule
// training under a deadline (spec §9: "iterative solvers should expose
// progress callbacks").
type Progress struct {
	Iteration       int
	RegretTableSize int
	Exploitability  float64 // -1 until the first ExploitabilityEvery checkpoint
	Stats           TraversalStats
}

// Trainer orchestrates CFR iterations over the betting state machine's real
// HandState, training a two-player average strategy per spec §4.7.
type Trainer struct {
	abs      AbstractionConfig
	train    TrainingConfig
	bucket   *BucketMapper
	regrets  *RegretTable
	tree     *RealTimeGameTree
	iter     atomic.Int64
	rngSeed  int64
	lastExpl atomic.Value // float64
}

// NewTrainer constructs a trainer from validated abstraction/training
// configs. Only two-player hands are supported: CFR's regret accumulation
// here assumes a single opponent's reach probability, per spec §4.7's
// worked recursion.
func NewTrainer(abs AbstractionConfig, train TrainingConfig) (*Trainer, error) {
	if err := abs.Validate(); err != nil {
		return nil, err
	}
	if err := train.Validate(); err != nil {
		return nil, err
	}

	bucket, err := NewBucketMapper(abs)
	if err != nil {
		return nil, err
	}

	seed := train.Seed
	if seed == 0 {
		seed = 1
	}

	regrets := NewRegretTable()
	t := &Trainer{
		abs:     abs,
		train:   train,
		bucket:  bucket,
		regrets: regrets,
		tree:    newRealTimeGameTree(abs, bucket, regrets),
		rngSeed: seed,
	}
	t.lastExpl.Store(-1.0)
	return t, nil
}

// NewTrainerFromBlueprint reconstructs a query-only Trainer from a
// previously saved Blueprint, so a CLI or long-lived process can answer
// Strategy lookups against a pretrained solve without paying for a fresh
// training run first. It rebuilds the same tree/bucket machinery NewTrainer
// would for bp.Abstraction, then seeds the regret table's average
// strategies directly from bp.Strategies rather than accumulating them via
// traversal. The result adapts sdk/solver/runtime/policy.go's load-and-query
// Policy onto this package's own Trainer/RegretTable rather than a separate
// wrapper type, since Trainer.Strategy already does everything Policy's
// ActionWeights did. Run is still usable afterwards (e.g. to keep refining a
// checkpointed blueprint), in which case the seeded entries simply become
// the starting point for further regret accumulation.
func NewTrainerFromBlueprint(bp *Blueprint) (*Trainer, error) {
	if bp == nil {
		return nil, errBlueprintNil
	}
	if err := bp.Abstraction.Validate(); err != nil {
		return nil, err
	}

	bucket, err := NewBucketMapper(bp.Abstraction)
	if err != nil {
		return nil, err
	}

	regrets := NewRegretTable()
	for key, strategy := range bp.Strategies {
		regrets.seedAverageStrategy(key, strategy)
	}

	t := &Trainer{
		abs:     bp.Abstraction,
		train:   DefaultTrainingConfig(),
		bucket:  bucket,
		regrets: regrets,
		tree:    newRealTimeGameTree(bp.Abstraction, bucket, regrets),
		rngSeed: 1,
	}
	t.iter.Store(int64(bp.Iterations))
	t.lastExpl.Store(-1.0)
	return t, nil
}

// Run executes the configured number of iterations, each a full self-play
// hand traversed once per player, fanned across ParallelTables concurrent
// workers via errgroup. The context is checked before each batch: a canceled
// context stops Run before the next batch starts, while a batch already in
// flight runs to completion.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	batch := t.train.ProgressEvery
	if batch <= 0 {
		batch = max(t.train.Iterations/100, 1)
	}

	start := int(t.iter.Load())
	for i := start; i < t.train.Iterations; i += t.train.ParallelTables {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batchSize := min(t.train.ParallelTables, t.train.Iterations-i)
		iterStart := time.Now()
		if err := t.runBatch(ctx, i, batchSize); err != nil {
			return err
		}
		elapsed := time.Since(iterStart)

		iter := int(t.iter.Add(int64(batchSize)))

		if t.train.ExploitabilityEvery > 0 && iter%t.train.ExploitabilityEvery < batchSize {
			t.lastExpl.Store(t.Exploitability())
		}

		if progress != nil && iter%batch < batchSize {
			progress(Progress{
				Iteration:       iter,
				RegretTableSize: t.regrets.Size(),
				Exploitability:  t.lastExpl.Load().(float64),
				Stats:           TraversalStats{IterationTime: elapsed},
			})
		}
	}
	return nil
}

func (t *Trainer) runBatch(ctx context.Context, startIter, size int) error {
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < size; i++ {
		iterSeed := t.rngSeed + int64(startIter+i)
		g.Go(func() error {
			t.singleIteration(iterSeed)
			return nil
		})
	}
	return g.Wait()
}

func (t *Trainer) singleIteration(seed int64) {
	tableRNG := randutil.New(seed)
	deck := poker.NewDeck(legacyRand(tableRNG.Int64()))
	names := []string{"P0", "P1"}
	button := tableRNG.IntN(2)

	opts := traverseOpts{
		sampling: t.train.Sampling,
		sampler:  legacyRand(tableRNG.Int64()),
		update: RegretUpdateOptions{
			ClampNegativeRegrets: t.train.UseCFRPlus,
			LinearAveraging:      t.train.LinearAveraging,
			Iteration:            int(t.iter.Load()) + 1,
		},
	}

	for player := 0; player < len(names); player++ {
		handDeck := *deck
		hand := game.NewHand(legacyRand(tableRNG.Int64()), names, button, t.train.SmallBlind, t.train.BigBlind,
			game.WithUniformChips(t.train.StartingStack), game.WithDeck(&handDeck))
		t.tree.traverse(hand, player, 0, 1.0, 1.0, opts)
	}
}

// Blueprint materializes the averaged strategy produced so far (spec §4.7:
// "final strategy = normalized strategy_sum per information set").
func (t *Trainer) Blueprint() *Blueprint {
	entries := t.regrets.Entries()
	strategies := make(map[string][]float64, len(entries))
	for key, entry := range entries {
		strategies[key] = entry.AverageStrategy()
	}
	return &Blueprint{
		Version:     blueprintFileVersion,
		GeneratedAt: time.Now().UTC(),
		Iterations:  int(t.iter.Load()),
		Abstraction: t.abs,
		Strategies:  strategies,
	}
}

// Iteration returns how many iterations have completed.
func (t *Trainer) Iteration() int64 { return t.iter.Load() }

// RegretTableSize reports how many distinct information sets have been
// visited so far.
func (t *Trainer) RegretTableSize() int { return t.regrets.Size() }

// legacyRand adapts a rand/v2 draw into a seed for the math/rand.Rand that
// game.NewHand and the equity estimator's sampling path still expect.
func legacyRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
