package abstract

import (
	"math/bits"
	"slices"

	"github.com/pokergto/engine/poker"
)

// DrawType enumerates the draw categories DetectDraws recognizes.
type DrawType int

const (
	FlushDraw DrawType = iota
	NutFlushDraw
	OpenEndedStraightDraw
	Gutshot
	DoubleGutshot
	ComboDraw
	BackdoorFlush
	BackdoorStraight
	Overcards
	NoDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case NutFlushDraw:
		return "nut flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case DoubleGutshot:
		return "double gutshot"
	case ComboDraw:
		return "combo draw"
	case BackdoorFlush:
		return "backdoor flush"
	case BackdoorStraight:
		return "backdoor straight"
	case Overcards:
		return "overcards"
	case NoDraw:
		return "no draw"
	default:
		return "unknown"
	}
}

// DrawInfo is the outcome of DetectDraws: the draw types present, their
// combined out count (deduplicated via a bitmask so shared outs aren't
// double-counted), and the subset of outs that make the nuts.
type DrawInfo struct {
	Draws   []DrawType
	Outs    int
	NutOuts int
}

// HasStrongDraw reports a flush draw, OESD, or combo draw.
func (d DrawInfo) HasStrongDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case FlushDraw, NutFlushDraw, OpenEndedStraightDraw, ComboDraw:
			return true
		}
	}
	return false
}

// HasWeakDraw reports a gutshot, backdoor draw, or overcards.
func (d DrawInfo) HasWeakDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case Gutshot, BackdoorFlush, BackdoorStraight, Overcards:
			return true
		}
	}
	return false
}

// IsComboDraw reports two or more draws with at least 12 outs combined.
func (d DrawInfo) IsComboDraw() bool {
	return len(d.Draws) >= 2 && d.Outs >= 12
}

// DetectDraws analyzes hole cards against a board for outstanding draws.
func DetectDraws(holeCards, board poker.Hand) DrawInfo {
	if board.CountCards() < 3 {
		return DrawInfo{Draws: []DrawType{NoDraw}}
	}

	var draws []DrawType
	var outsMask, nutOutsMask poker.Hand
	allCards := holeCards | board

	flushInfo := detectFlushDraw(holeCards, board)
	if flushInfo.HasFlushDraw {
		if flushInfo.IsNutFlushDraw {
			draws = append(draws, NutFlushDraw)
			nutOutsMask |= flushInfo.OutsMask
		} else {
			draws = append(draws, FlushDraw)
		}
		outsMask |= flushInfo.OutsMask
	}

	straightInfo := detectStraightDraws(holeCards, board)
	if straightInfo.HasOESD {
		draws = append(draws, OpenEndedStraightDraw)
		outsMask |= straightInfo.OESDOutsMask
	}
	if straightInfo.HasGutshot {
		draws = append(draws, Gutshot)
		outsMask |= straightInfo.GutshotOutsMask
	}

	if board.CountCards() == 3 {
		if detectBackdoorFlush(holeCards, board).HasBackdoorFlush {
			draws = append(draws, BackdoorFlush)
		}
	}

	if !flushInfo.HasFlushDraw && !straightInfo.HasOESD {
		overcards := detectOvercards(holeCards, board, allCards)
		if overcards.HasOvercards {
			draws = append(draws, Overcards)
			outsMask |= overcards.OutsMask
		}
	}

	totalOuts := outsMask.CountCards()
	nutOuts := nutOutsMask.CountCards()

	if len(draws) >= 2 && totalOuts >= 12 {
		draws = append(draws, ComboDraw)
	}
	if len(draws) == 0 {
		draws = []DrawType{NoDraw}
	}

	return DrawInfo{Draws: draws, Outs: totalOuts, NutOuts: nutOuts}
}

type flushDrawInfo struct {
	HasFlushDraw   bool
	IsNutFlushDraw bool
	OutsMask       poker.Hand
}

type straightDrawInfo struct {
	HasOESD         bool
	HasGutshot      bool
	OESDOutsMask    poker.Hand
	GutshotOutsMask poker.Hand
}

type backdoorFlushInfo struct {
	HasBackdoorFlush bool
}

type overcardsInfo struct {
	HasOvercards bool
	OutsMask     poker.Hand
}

func detectFlushDraw(holeCards, board poker.Hand) flushDrawInfo {
	for suit := uint8(0); suit < 4; suit++ {
		holeSuitMask := holeCards.GetSuitMask(suit)
		boardSuitMask := board.GetSuitMask(suit)
		holeCount := bits.OnesCount16(holeSuitMask)
		total := holeCount + bits.OnesCount16(boardSuitMask)

		if total == 4 && holeCount > 0 {
			usedMask := holeSuitMask | boardSuitMask
			availableMask := uint16(0x1FFF) &^ usedMask
			outsMask := poker.Hand(availableMask) << (suit * 13)
			isNut := (holeSuitMask & (1 << poker.Ace)) != 0
			return flushDrawInfo{HasFlushDraw: true, IsNutFlushDraw: isNut, OutsMask: outsMask}
		}
	}
	return flushDrawInfo{}
}

func detectStraightDraws(holeCards, board poker.Hand) straightDrawInfo {
	allCards := holeCards | board
	rankMask := allCards.GetRankMask()
	var info straightDrawInfo

	for start := 0; start <= 9; start++ {
		consecutive := 0
		for i := 0; i < 4; i++ {
			if rankMask&(1<<(start+i)) != 0 {
				consecutive++
			}
		}
		if consecutive == 4 {
			lowRank, highRank := start-1, start+4
			if lowRank >= 0 && highRank <= 12 {
				lowAvailable := (rankMask & (1 << lowRank)) == 0
				highAvailable := (rankMask & (1 << highRank)) == 0
				if lowAvailable && highAvailable {
					info.HasOESD = true
					for suit := uint8(0); suit < 4; suit++ {
						info.OESDOutsMask.AddCard(poker.NewCard(uint8(lowRank), suit))
						info.OESDOutsMask.AddCard(poker.NewCard(uint8(highRank), suit))
					}
				}
			}
		}
	}

	for start := 0; start <= 8; start++ {
		var present []int
		for i := 0; i < 5; i++ {
			if rankMask&(1<<(start+i)) != 0 {
				present = append(present, start+i)
			}
		}
		if len(present) == 4 {
			first, last := present[0], present[len(present)-1]
			if last-first == 3 {
				lowOut, highOut := first-1, last+1
				if first == 0 {
					lowOut = int(poker.Ace)
				}
				hasLow := lowOut >= 0 && lowOut <= int(poker.Ace) && (rankMask&(1<<lowOut)) == 0
				hasHigh := highOut >= 0 && highOut <= int(poker.Ace) && (rankMask&(1<<highOut)) == 0
				if hasLow && hasHigh {
					continue
				}
			}

			needed := make(map[int]bool, 5)
			for i := 0; i < 5; i++ {
				needed[start+i] = true
			}
			var missing int
			for rank := range needed {
				if !slices.Contains(present, rank) {
					missing = rank
					break
				}
			}
			info.HasGutshot = true
			for suit := uint8(0); suit < 4; suit++ {
				info.GutshotOutsMask.AddCard(poker.NewCard(uint8(missing), suit))
			}
			break
		}
	}

	return info
}

func detectBackdoorFlush(holeCards, board poker.Hand) backdoorFlushInfo {
	if board.CountCards() != 3 {
		return backdoorFlushInfo{}
	}
	for suit := uint8(0); suit < 4; suit++ {
		holeCount := bits.OnesCount16(holeCards.GetSuitMask(suit))
		boardCount := bits.OnesCount16(board.GetSuitMask(suit))
		if holeCount >= 1 && holeCount+boardCount == 3 {
			return backdoorFlushInfo{HasBackdoorFlush: true}
		}
	}
	return backdoorFlushInfo{}
}

func detectOvercards(holeCards, board, usedCards poker.Hand) overcardsInfo {
	boardRankMask := board.GetRankMask()
	var highestBoardRank uint8
	for rank := uint8(12); rank > 0; rank-- {
		if boardRankMask&(1<<rank) != 0 {
			highestBoardRank = rank
			break
		}
	}

	holeRankMask := holeCards.GetRankMask()
	var outsMask poker.Hand
	for rank := highestBoardRank + 1; rank <= 12; rank++ {
		if holeRankMask&(1<<rank) != 0 {
			for suit := uint8(0); suit < 4; suit++ {
				card := poker.NewCard(rank, suit)
				if !usedCards.HasCard(card) {
					outsMask |= poker.Hand(card)
				}
			}
		}
	}

	return overcardsInfo{HasOvercards: outsMask.CountCards() > 0, OutsMask: outsMask}
}
