package cfr

import (
	"fmt"
	"sync"
)

// Street enumerates the betting round within a hand, mirrored here (rather
// than imported from game) because an InfoSetKey must stay stable across
// abstraction changes even if the betting state machine's own Street gains
// values.
type Street uint8

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	default:
		return "unknown"
	}
}

// InfoSetKey is the canonical abstraction key from spec §3: two states that
// produce the same key are indistinguishable to the acting player and must
// share a strategy. History is an abbreviated rendering of the action
// sequence so far this street (see abbreviateHistory), distinguishing e.g.
// "checked to" from "raised into."
type InfoSetKey struct {
	Street       Street
	Player       int
	HoleBucket   int
	BoardBucket  int
	PotBucket    int
	ToCallBucket int
	History      string
}

func (k InfoSetKey) String() string {
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d/%s", k.Street, k.Player, k.HoleBucket, k.BoardBucket, k.PotBucket, k.ToCallBucket, k.History)
}

// RegretEntry accumulates regrets and strategy sums for one information set.
// Slices avoid map churn during a traversal; entries grow lazily to the
// action count of the widest node that has ever reached this key.
type RegretEntry struct {
	RegretSum   []float64
	StrategySum []float64
	Normalising float64
	mu          sync.Mutex
}

// RegretUpdateOptions configures how a single Update call folds a new
// regret/strategy observation into the entry's running sums.
type RegretUpdateOptions struct {
	// ClampNegativeRegrets implements CFR+: regret never goes below zero,
	// which removes the need for separate negative-regret bookkeeping and
	// improves convergence (spec §4.7).
	ClampNegativeRegrets bool
	// LinearAveraging weights the strategy-sum contribution by Iteration,
	// so later iterations (closer to convergence) count more.
	LinearAveraging bool
	Iteration       int
}

func (e *RegretEntry) ensureSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.RegretSum) >= n {
		return
	}
	missing := n - len(e.RegretSum)
	e.RegretSum = append(e.RegretSum, make([]float64, missing)...)
	e.StrategySum = append(e.StrategySum, make([]float64, missing)...)
}

// Strategy returns the current regret-matching distribution: positive
// regrets normalized to sum to 1, or uniform if every regret is ≤ 0 (spec
// §4.7 step 1).
func (e *RegretEntry) Strategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strategyLocked()
}

func (e *RegretEntry) strategyLocked() []float64 {
	strat := make([]float64, len(e.RegretSum))
	total := 0.0
	for i, r := range e.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// Update folds one traversal's observed regret and strategy into the
// entry's cumulative sums (spec §4.7 step 3).
func (e *RegretEntry) Update(regret []float64, strategy []float64, reachWeight float64, opts RegretUpdateOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()

	iterWeight := 1.0
	if opts.LinearAveraging {
		iter := opts.Iteration
		if iter <= 0 {
			iter = 1
		}
		iterWeight = float64(iter)
	}
	weight := reachWeight * iterWeight

	for i := range regret {
		if opts.ClampNegativeRegrets {
			e.RegretSum[i] += regret[i]
			if e.RegretSum[i] < 0 {
				e.RegretSum[i] = 0
			}
		} else {
			e.RegretSum[i] += regret[i]
		}
		e.StrategySum[i] += weight * strategy[i]
	}
	e.Normalising += weight
}

// AverageStrategy returns the normalized strategy-sum, which converges to a
// Nash equilibrium strategy as iterations grow (spec §4.7).
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	strat := make([]float64, len(e.StrategySum))
	if e.Normalising <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / e.Normalising
	}
	return strat
}

// RegretTable is a sharded concurrent map from InfoSetKey to RegretEntry.
// Sharding lets independent self-play tables update disjoint (or
// contended-but-rare) keys without serializing on one global lock.
const regretTableShardCount = 64
const regretTableShardMask = regretTableShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

type RegretTable struct {
	shards [regretTableShardCount]regretShard
}

// NewRegretTable returns an empty table ready for concurrent use.
func NewRegretTable() *RegretTable {
	table := &RegretTable{}
	for i := range table.shards {
		table.shards[i].entries = make(map[string]*RegretEntry)
	}
	return table
}

// Get returns the entry for key, creating it (lazily, per spec §3's CFRNode
// lifecycle) if this is the first traversal to reach it.
func (t *RegretTable) Get(key InfoSetKey, actionCount int) *RegretEntry {
	k := key.String()
	shard := t.shardFor(k)

	shard.mu.RLock()
	entry, ok := shard.entries[k]
	shard.mu.RUnlock()
	if ok {
		entry.ensureSize(actionCount)
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[k]; ok {
		entry.ensureSize(actionCount)
		return entry
	}
	entry = &RegretEntry{}
	entry.ensureSize(actionCount)
	shard.entries[k] = entry
	return entry
}

// seedAverageStrategy installs strategy as keyStr's average strategy
// directly, bypassing regret accumulation entirely. Used to reconstruct a
// queryable RegretTable from a saved Blueprint's strategies, so a trainer
// built from disk answers Strategy calls identically to one that actually
// ran the iterations.
func (t *RegretTable) seedAverageStrategy(keyStr string, strategy []float64) {
	shard := t.shardFor(keyStr)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	sum := make([]float64, len(strategy))
	copy(sum, strategy)
	shard.entries[keyStr] = &RegretEntry{
		RegretSum:   make([]float64, len(strategy)),
		StrategySum: sum,
		Normalising: 1,
	}
}

// Entries snapshots every tracked info set, for serialization or
// introspection (e.g. Blueprint export).
func (t *RegretTable) Entries() map[string]*RegretEntry {
	out := make(map[string]*RegretEntry)
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, v := range shard.entries {
			out[k] = v
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the number of information sets currently tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

func (t *RegretTable) shardFor(key string) *regretShard {
	return &t.shards[hashKey(key)&regretTableShardMask]
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	hash := uint32(offset32)
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
