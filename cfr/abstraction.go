package cfr

import (
	"github.com/pokergto/engine/abstract"
	"github.com/pokergto/engine/game"
)

// handBucketOrder fixes a stable integer index for each abstract.HandBucket
// label, so the same (hole, board) situation always maps to the same
// HoleBucket/BoardBucket integers across a training run — and across
// process restarts loading a serialized Blueprint.
var handBucketOrder = []abstract.HandBucket{
	abstract.PremiumPair, abstract.HighPair, abstract.MidPair, abstract.LowPair,
	abstract.PremiumSuited, abstract.PremiumOffsuit,
	abstract.BroadwaySuited, abstract.BroadwayOffsuit,
	abstract.GoodSuited, abstract.SuitedConnector,
	abstract.DecentSuited, abstract.DecentOffsuit,
	abstract.SpeculativeSuited, abstract.MediocreOffsuit,
	abstract.WeakSuited, abstract.WeakOffsuit, abstract.Trash,
}

func bucketIndex(b abstract.HandBucket) int {
	for i, candidate := range handBucketOrder {
		if candidate == b {
			return i
		}
	}
	return len(handBucketOrder) - 1 // unknown label collapses to the weakest bucket
}

// textureIndex folds BoardTexture into the bucket index space: four texture
// levels per hand bucket keep BoardBucket small and dense.
func textureIndex(hole abstract.HandBucket, texture abstract.BoardTexture) int {
	return bucketIndex(hole)*4 + int(texture)
}

// BucketMapper converts a HandState and acting seat into the coarse
// abstraction CFR trains over, grounded on the Hand Abstractor (spec §4.4)
// rather than re-deriving bucket logic from raw cards.
type BucketMapper struct {
	abstractor *abstract.Abstractor
	config     AbstractionConfig
}

// NewBucketMapper returns a mapper backed by cfg's discretization widths.
func NewBucketMapper(cfg AbstractionConfig) (*BucketMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BucketMapper{abstractor: abstract.NewAbstractor(), config: cfg}, nil
}

// InfoSet computes the canonical abstraction key for seat's current
// decision in hand, including an abbreviated rendering of this street's
// action history (spec §3's InfoSet definition).
func (m *BucketMapper) InfoSet(hand *game.HandState, seat int, history []game.ActionRecord) InfoSetKey {
	player := hand.Players[seat]

	var holeBucket int
	if hand.Board.CountCards() >= 3 {
		base, texture := m.abstractor.PostflopBucket(player.HoleCards, hand.Board)
		holeBucket = textureIndex(base, texture)
	} else {
		holeBucket = bucketIndex(m.abstractor.PreflopBucket(player.HoleCards))
	}

	pot := potSize(hand)
	toCall := 0
	if hand.Betting.CurrentBet > player.Bet {
		toCall = hand.Betting.CurrentBet - player.Bet
	}

	return InfoSetKey{
		Street:       mapStreet(hand.Street),
		Player:       seat,
		HoleBucket:   holeBucket,
		BoardBucket:  boolToInt(hand.Board.CountCards() >= 3),
		PotBucket:    m.potBucket(pot),
		ToCallBucket: m.toCallBucket(toCall),
		History:      abbreviateHistory(history),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func potSize(hand *game.HandState) int {
	total := 0
	for _, pot := range hand.GetPots() {
		total += pot.Amount
	}
	return total
}

func (m *BucketMapper) potBucket(pot int) int {
	return thresholdBucket(pot, m.config.PotBucketCount, 2)
}

func (m *BucketMapper) toCallBucket(toCall int) int {
	return thresholdBucket(toCall, m.config.ToCallBucketCount, 2)
}

// thresholdBucket discretizes v into n buckets doubling in width each step
// (0, base, 3*base, 7*base, ...), giving fine resolution for small values
// and coarse resolution for large ones.
func thresholdBucket(v, n, base int) int {
	bucket := 0
	width := base
	boundary := 0
	for bucket < n-1 {
		boundary += width
		if v <= boundary {
			return bucket
		}
		width *= 2
		bucket++
	}
	return n - 1
}

// abbreviateHistory renders the current street's actions as a short token
// string (e.g. "xr" for check-raise), distinguishing information sets that
// reach the same bucket/pot/toCall triple via different betting lines.
func abbreviateHistory(history []game.ActionRecord) string {
	if len(history) == 0 {
		return ""
	}
	street := history[len(history)-1].Street
	start := len(history)
	for start > 0 && history[start-1].Street == street {
		start--
	}
	abbrev := make([]byte, 0, len(history)-start)
	for _, rec := range history[start:] {
		abbrev = append(abbrev, actionGlyph(rec.Action))
	}
	return string(abbrev)
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

func mapStreet(s game.Street) Street {
	switch s {
	case game.Preflop:
		return StreetPreflop
	case game.Flop:
		return StreetFlop
	case game.Turn:
		return StreetTurn
	default:
		return StreetRiver
	}
}
