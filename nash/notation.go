package nash

import (
	"fmt"
	"strings"
)

// Position is the acting player's seat relative to the button, per spec
// §3's NashAction key. The push/fold table only distinguishes the three
// positions where short-stack shove/fold decisions are sharpest.
type Position string

const (
	BTN Position = "BTN"
	SB  Position = "SB"
	BB  Position = "BB"
)

// Situation is the preflop action facing the hero.
type Situation string

const (
	Open   Situation = "open"
	VsPush Situation = "vs_push"
	VsLimp Situation = "vs_limp"
)

// StackBucket discretizes effective stack depth in big blinds. Buckets are
// the frozen universe the table is built over; ForStack snaps an arbitrary
// depth to its nearest bucket so every lookup key is guaranteed to be a
// member of that universe (required for the minimal perfect hash index to
// behave — CHD only promises correct answers for keys it was built with).
type StackBucket string

const (
	Stack10bb StackBucket = "10bb"
	Stack15bb StackBucket = "15bb"
	Stack20bb StackBucket = "20bb"
	Stack25bb StackBucket = "25bb"
	Stack30bb StackBucket = "30bb"
	Stack40bb StackBucket = "40bb"
)

// stackBuckets is the ordered, frozen bucket universe.
var stackBuckets = []StackBucket{Stack10bb, Stack15bb, Stack20bb, Stack25bb, Stack30bb, Stack40bb}

func (sb StackBucket) bigBlinds() int {
	var bb int
	fmt.Sscanf(string(sb), "%dbb", &bb)
	return bb
}

// ForStack snaps an effective stack size in big blinds to the nearest
// configured bucket.
func ForStack(effectiveBB float64) StackBucket {
	best := stackBuckets[0]
	bestDist := -1.0
	for _, b := range stackBuckets {
		dist := effectiveBB - float64(b.bigBlinds())
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = b
		}
	}
	return best
}

var rankOrder = "23456789TJQKA"

// rankValue returns 2-14 for a canonical rank character (2-9, T, J, Q, K, A).
func rankValue(r byte) (int, error) {
	idx := strings.IndexByte(rankOrder, upperRank(r))
	if idx < 0 {
		return 0, fmt.Errorf("nash: invalid rank %q", r)
	}
	return idx + 2, nil
}

func upperRank(r byte) byte {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func rankChar(v int) byte {
	return rankOrder[v-2]
}

// Notation is a canonical starting-hand label: two ranks high-first, plus
// "s" (suited) or "o" (offsuit) for non-pairs; pairs carry no suffix.
// ParseNotation and its String method round-trip exactly (e.g. "AKs", "72o", "TT").
type Notation struct {
	High, Low int // rank values 2-14, High >= Low
	Suited    bool
	Pair      bool
}

// ParseNotation parses a canonical hand label like "AKs", "72o", or "TT".
func ParseNotation(s string) (Notation, error) {
	if len(s) < 2 || len(s) > 3 {
		return Notation{}, fmt.Errorf("nash: invalid hand notation %q", s)
	}
	r1, err := rankValue(s[0])
	if err != nil {
		return Notation{}, err
	}
	r2, err := rankValue(s[1])
	if err != nil {
		return Notation{}, err
	}
	high, low := r1, r2
	if low > high {
		high, low = low, high
	}

	if high == low {
		if len(s) != 2 {
			return Notation{}, fmt.Errorf("nash: pair notation %q must not carry a suffix", s)
		}
		return Notation{High: high, Low: low, Pair: true}, nil
	}

	if len(s) != 3 {
		return Notation{}, fmt.Errorf("nash: non-pair notation %q must carry s/o", s)
	}
	switch s[2] {
	case 's', 'S':
		return Notation{High: high, Low: low, Suited: true}, nil
	case 'o', 'O':
		return Notation{High: high, Low: low, Suited: false}, nil
	default:
		return Notation{}, fmt.Errorf("nash: invalid suffix %q", s[2])
	}
}

// String renders the canonical notation.
func (n Notation) String() string {
	var b strings.Builder
	b.WriteByte(rankChar(n.High))
	b.WriteByte(rankChar(n.Low))
	if n.Pair {
		return b.String()
	}
	if n.Suited {
		b.WriteByte('s')
	} else {
		b.WriteByte('o')
	}
	return b.String()
}

// allNotations enumerates all 169 canonical starting hands, high-first.
func allNotations() []Notation {
	notations := make([]Notation, 0, 169)
	for high := 14; high >= 2; high-- {
		notations = append(notations, Notation{High: high, Low: high, Pair: true})
	}
	for high := 14; high >= 2; high-- {
		for low := high - 1; low >= 2; low-- {
			notations = append(notations, Notation{High: high, Low: low, Suited: true})
			notations = append(notations, Notation{High: high, Low: low, Suited: false})
		}
	}
	return notations
}
