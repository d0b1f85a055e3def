package synth

import (
	"fmt"

	"github.com/pokergto/engine/nash"
	"github.com/pokergto/engine/poker"
)

// holeCardsToNotation converts two concrete hole cards into the Nash
// table's canonical starting-hand label. poker.Card.Rank() runs 0-12
// (Two..Ace); nash.Notation's rank values run 2-14 over the identical
// "23456789TJQKA" ordering, so the conversion is a plain +2 offset.
func holeCardsToNotation(hole poker.Hand) (nash.Notation, error) {
	cards := unpackCards(hole)
	if len(cards) != 2 {
		return nash.Notation{}, fmt.Errorf("synth: expected 2 hole cards, got %d", len(cards))
	}

	r1 := int(cards[0].Rank()) + 2
	r2 := int(cards[1].Rank()) + 2
	high, low := r1, r2
	if low > high {
		high, low = low, high
	}

	if high == low {
		return nash.Notation{High: high, Low: low, Pair: true}, nil
	}
	return nash.Notation{High: high, Low: low, Suited: cards[0].Suit() == cards[1].Suit()}, nil
}

// unpackCards expands a Hand bitset into its individual cards. Duplicated
// from cfr/tree.go's unpackAll rather than exported from cfr, consistent
// with how that helper is itself a from-scratch adaptation rather than a
// shared dependency between packages that otherwise don't interact.
func unpackCards(h poker.Hand) []poker.Card {
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
