// Package abstract maps concrete (hole, board) situations to the small set
// of strategic buckets CFR trains over, plus board-texture analysis used to
// refine those buckets postflop.
package abstract

import (
	"math/bits"

	"github.com/pokergto/engine/poker"
)

// BoardTexture is the "wetness" of a board, from driest to most coordinated.
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// FlushInfo describes flush potential on a board.
type FlushInfo struct {
	MaxSuitCount int
	DominantSuit *uint8
	IsMonotone   bool
	IsRainbow    bool
}

// StraightInfo describes straight potential on a board.
type StraightInfo struct {
	ConnectedCards int
	Gaps           int
	HasAce         bool
	BroadwayCards  int
}

// AnalyzeBoardTexture scores how coordinated/dangerous a board is.
func AnalyzeBoardTexture(board poker.Hand) BoardTexture {
	if board.CountCards() < 3 {
		return Dry
	}

	var wetness int

	flushInfo := AnalyzeFlushPotential(board)
	switch {
	case flushInfo.IsMonotone && board.CountCards() >= 3:
		wetness += 4
	case flushInfo.MaxSuitCount >= 4:
		wetness += 4
	case flushInfo.MaxSuitCount == 3:
		wetness += 3
	case flushInfo.MaxSuitCount == 2:
		wetness += 1
	}

	straightInfo := AnalyzeStraightPotential(board)
	switch {
	case straightInfo.ConnectedCards >= 4:
		wetness += 4
	case straightInfo.ConnectedCards == 3:
		wetness += 3
	case straightInfo.ConnectedCards == 2:
		wetness += 1
	}

	if countBoardPairs(board) >= 1 {
		wetness++
	}
	if countHighCards(board) >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		return Dry
	case wetness <= 3:
		return SemiWet
	case wetness <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// AnalyzeFlushPotential reports per-suit concentration on the board.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	var suitCounts [4]int
	var suitMasks [4]uint16

	for suit := uint8(0); suit < 4; suit++ {
		suitMask := board.GetSuitMask(suit)
		suitCounts[suit] = bits.OnesCount16(suitMask)
		suitMasks[suit] = suitMask
	}

	var maxCount int
	var dominantSuit *uint8
	bestRankForSuit := -1
	nonZeroSuits := 0

	for suit := len(suitCounts) - 1; suit >= 0; suit-- {
		count := suitCounts[suit]
		if count == 0 {
			continue
		}
		nonZeroSuits++

		highestRank := bits.Len16(suitMasks[suit]) - 1
		if count > maxCount || (count == maxCount && highestRank > bestRankForSuit) {
			maxCount = count
			bestRankForSuit = highestRank
			suitCopy := uint8(suit)
			dominantSuit = &suitCopy
		}
	}

	cardCount := board.CountCards()
	return FlushInfo{
		MaxSuitCount: maxCount,
		DominantSuit: dominantSuit,
		IsMonotone:   nonZeroSuits == 1 && cardCount >= 3,
		IsRainbow:    nonZeroSuits == cardCount && cardCount >= 3,
	}
}

// AnalyzeStraightPotential reports rank connectivity on the board.
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	cardCount := board.CountCards()
	if cardCount == 0 {
		return StraightInfo{}
	}

	if cardCount == 1 {
		ranks := board.GetRankMask()
		hasAce := (ranks & (1 << poker.Ace)) != 0
		broadway := 0
		if hasAce {
			broadway = 1
		}
		return StraightInfo{ConnectedCards: 1, HasAce: hasAce, BroadwayCards: broadway}
	}

	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		rankMask |= board.GetSuitMask(suit)
	}
	hasAce := (rankMask & (1 << poker.Ace)) != 0

	broadway := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		if rankMask&(1<<rank) != 0 {
			broadway++
		}
	}

	var ranks []int
	for rank := 0; rank < 13; rank++ {
		if rankMask&(1<<rank) != 0 {
			ranks = append(ranks, rank)
		}
	}
	if len(ranks) == 0 {
		return StraightInfo{}
	}

	maxConnected, current, gaps := 1, 1, 0
	for i := 1; i < len(ranks); i++ {
		gap := ranks[i] - ranks[i-1] - 1
		if gap == 0 {
			current++
		} else {
			if current > maxConnected {
				maxConnected = current
			}
			current = 1
			gaps += gap
		}
	}
	if current > maxConnected {
		maxConnected = current
	}

	if hasAce {
		var low []int
		for _, r := range ranks {
			if r <= 3 {
				low = append(low, r)
			}
		}
		if len(low) >= 2 {
			wheel := append([]int{-1}, low...)
			wConnected, wMax := 1, 1
			for i := 1; i < len(wheel); i++ {
				if wheel[i]-wheel[i-1] == 1 {
					wConnected++
				} else {
					if wConnected > wMax {
						wMax = wConnected
					}
					wConnected = 1
				}
			}
			if wConnected > wMax {
				wMax = wConnected
			}
			if wMax > maxConnected {
				maxConnected = wMax
			}
		}
	}

	return StraightInfo{ConnectedCards: maxConnected, Gaps: gaps, HasAce: hasAce, BroadwayCards: broadway}
}

func countBoardPairs(board poker.Hand) int {
	var rankCounts [13]int
	for suit := uint8(0); suit < 4; suit++ {
		suitMask := board.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if suitMask&(1<<rank) != 0 {
				rankCounts[rank]++
			}
		}
	}
	pairs := 0
	for _, count := range rankCounts {
		if count >= 2 {
			pairs++
		}
	}
	return pairs
}

func countHighCards(board poker.Hand) int {
	count := 0
	for suit := uint8(0); suit < 4; suit++ {
		suitMask := board.GetSuitMask(suit)
		count += bits.OnesCount16(suitMask & 0x1F00) // T-A
	}
	return count
}
