package game

import (
	"fmt"

	"github.com/pokergto/engine/poker"
	"github.com/pokergto/engine/pokererr"
)

// ActionRecord is one entry in a hand's action history: who did what, for
// how much, on which street.
type ActionRecord struct {
	Street Street
	Seat   int
	Action Action
	Amount int
}

// HandState is the authoritative state of one in-progress poker hand.
// Callers mutate it only through Execute and ForceFold; every other
// transition (street advancement, pot settlement) happens internally.
type HandState struct {
	Players      []*Player
	Button       int
	Street       Street
	Board        poker.Hand
	PotManager   *PotManager
	ActivePlayer int
	Deck         *poker.Deck
	Betting      *BettingRound
	History      []ActionRecord
}

func (h *HandState) postBlinds(smallBlind, bigBlind int) {
	numPlayers := len(h.Players)
	sbPos := smallBlindSeat(h.Button, numPlayers)
	bbPos := bigBlindSeat(h.Button, numPlayers)

	sb := h.Players[sbPos]
	sb.Bet = min(smallBlind, sb.Chips)
	sb.TotalBet = sb.Bet
	sb.Chips -= sb.Bet

	bb := h.Players[bbPos]
	bb.Bet = min(bigBlind, bb.Chips)
	bb.TotalBet = bb.Bet
	bb.Chips -= bb.Bet

	h.Betting.CurrentBet = bigBlind
}

func (h *HandState) dealHoleCards() {
	for _, p := range h.Players {
		cards := h.Deck.Deal(2)
		p.HoleCards = poker.NewHand(cards...)
	}
}

// BigBlindSeat returns the seat that posted the big blind this hand.
func (h *HandState) BigBlindSeat() int {
	return bigBlindSeat(h.Button, len(h.Players))
}

// SmallBlindSeat returns the seat that posted the small blind this hand.
func (h *HandState) SmallBlindSeat() int {
	return smallBlindSeat(h.Button, len(h.Players))
}

// LegalActions returns the actions available to seat right now. Until the
// hand ends it is non-empty for the seat on action; any other seat gets an
// empty list.
func (h *HandState) LegalActions(seat int) ([]Action, error) {
	if seat < 0 || seat >= len(h.Players) {
		return nil, fmt.Errorf("game: seat %d: %w", seat, pokererr.ErrUnknownPlayer)
	}
	if h.IsComplete() {
		return nil, fmt.Errorf("game: hand is over: %w", pokererr.ErrHandEnded)
	}
	if seat != h.ActivePlayer {
		return []Action{}, nil
	}
	return h.Betting.LegalActions(h.Players[seat]), nil
}

// Execute validates and applies one player action, then advances the hand
// (next actor, next street, or showdown) per spec §4.5. The action history
// grows by exactly one entry on success; on failure the state is unchanged.
func (h *HandState) Execute(seat int, action Action, amount int) error {
	if seat < 0 || seat >= len(h.Players) {
		return fmt.Errorf("game: seat %d: %w", seat, pokererr.ErrUnknownPlayer)
	}
	if h.IsComplete() {
		return fmt.Errorf("game: hand is over: %w", pokererr.ErrHandEnded)
	}
	if seat != h.ActivePlayer {
		return fmt.Errorf("game: seat %d is not on act: %w", seat, pokererr.ErrIllegalAction)
	}

	legal := h.Betting.LegalActions(h.Players[seat])
	if !containsAction(legal, action) {
		return fmt.Errorf("game: %s is not legal for seat %d: %w", action, seat, pokererr.ErrIllegalAction)
	}

	p := h.Players[seat]
	if action == Raise {
		playerTotalChips := p.Chips + p.Bet
		if amount > playerTotalChips {
			return fmt.Errorf("game: raise to %d exceeds stack: %w", amount, pokererr.ErrIllegalAction)
		}
		minLegal := h.Betting.CurrentBet + h.Betting.MinRaise
		if amount < minLegal && amount < playerTotalChips {
			return fmt.Errorf("game: raise to %d below minimum %d: %w", amount, minLegal, pokererr.ErrIllegalAction)
		}
	}

	h.Betting.MarkPlayerActed(seat)
	if h.Street == Preflop && seat == bigBlindSeat(h.Button, len(h.Players)) {
		h.Betting.BBActed = true
	}

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		// already validated as legal: p.Bet == Betting.CurrentBet

	case Call:
		toCall := min(h.Betting.CurrentBet-p.Bet, p.Chips)
		p.Bet += toCall
		p.TotalBet += toCall
		p.Chips -= toCall
		if p.Chips == 0 {
			p.AllInFlag = true
		}

	case Raise:
		raiseAmount := amount - p.Bet
		h.Betting.MinRaise = amount - h.Betting.CurrentBet
		h.Betting.CurrentBet = amount
		h.Betting.LastRaiser = seat

		p.Chips -= raiseAmount
		p.Bet = amount
		p.TotalBet += raiseAmount
		if p.Chips == 0 {
			p.AllInFlag = true
		}

		h.resetActedExcept(seat)

	case AllIn:
		allInAmount := p.Chips
		p.Chips = 0
		p.AllInFlag = true
		p.Bet += allInAmount
		p.TotalBet += allInAmount

		if p.Bet > h.Betting.CurrentBet {
			h.Betting.MinRaise = p.Bet - h.Betting.CurrentBet
			h.Betting.CurrentBet = p.Bet
			h.Betting.LastRaiser = seat
			h.resetActedExcept(seat)
		}
	}

	h.History = append(h.History, ActionRecord{Street: h.Street, Seat: seat, Action: action, Amount: amount})

	h.advance()
	return nil
}

func (h *HandState) resetActedExcept(seat int) {
	for i := range h.Betting.ActedThisRound {
		h.Betting.ActedThisRound[i] = false
	}
	h.Betting.ActedThisRound[seat] = true
}

func containsAction(actions []Action, target Action) bool {
	for _, a := range actions {
		if a == target {
			return true
		}
	}
	return false
}

// ForceFold marks seat folded immediately regardless of turn order, for
// exceptional conditions like disconnects. It still advances the hand
// exactly as Execute(Fold) would.
func (h *HandState) ForceFold(seat int) {
	if seat < 0 || seat >= len(h.Players) {
		return
	}
	player := h.Players[seat]
	if player.Folded || h.IsComplete() {
		return
	}

	player.Folded = true
	h.Betting.MarkPlayerActed(seat)
	h.History = append(h.History, ActionRecord{Street: h.Street, Seat: seat, Action: Fold})

	if h.Street == Preflop && seat == bigBlindSeat(h.Button, len(h.Players)) {
		h.Betting.BBActed = true
	}
	if h.Betting.LastRaiser == seat {
		h.Betting.LastRaiser = -1
	}
	if seat == h.ActivePlayer {
		h.ActivePlayer = h.nextActivePlayer(seat + 1)
	}

	h.advance()
}

func (h *HandState) nextActivePlayer(from int) int {
	numPlayers := len(h.Players)
	for i := 0; i < numPlayers; i++ {
		pos := (from + i) % numPlayers
		if h.Players[pos].Active() {
			return pos
		}
	}
	return -1
}

// advance implements spec §4.5's advance(): move to the next actor, or, if
// the round is over, collect bets and move to the next street (or
// showdown).
func (h *HandState) advance() {
	h.ActivePlayer = h.nextActivePlayer(h.ActivePlayer + 1)
	if h.ActivePlayer == -1 || h.Betting.IsComplete(h.Players, h.Street, h.Button) {
		h.NextStreet()
	}
}

// NextStreet collects bets into the pot ladder, deals the next street's
// board cards (or moves to showdown), and sets the first actor to the left
// of the dealer. If every remaining player is all-in it keeps advancing
// streets (no further betting is possible) until showdown.
func (h *HandState) NextStreet() {
	h.PotManager.CollectBets(h.Players)
	h.PotManager.CalculateSidePots(h.Players)

	for _, p := range h.Players {
		p.Bet = 0
	}
	h.Betting.ResetForNewRound(len(h.Players))

	switch h.Street {
	case Preflop:
		h.Street = Flop
		h.Board |= poker.NewHand(h.Deck.Deal(3)...)
	case Flop:
		h.Street = Turn
		h.Board |= poker.NewHand(h.Deck.Deal(1)...)
	case Turn:
		h.Street = River
		h.Board |= poker.NewHand(h.Deck.Deal(1)...)
	case River:
		h.Street = Showdown
		return
	case Showdown:
		return
	}

	h.ActivePlayer = h.nextActivePlayer((h.Button + 1) % len(h.Players))

	if h.ActivePlayer == -1 && h.Street != Showdown {
		hasPlayers := false
		for _, p := range h.Players {
			if !p.Folded {
				hasPlayers = true
				break
			}
		}
		if hasPlayers {
			h.NextStreet()
		}
	}
}

// GetPots returns the current pot ladder including any uncollected
// in-flight bets.
func (h *HandState) GetPots() []Pot {
	return h.PotManager.GetPotsWithUncollected(h.Players)
}

// IsComplete reports whether the hand has reached showdown or been won by
// every other player folding.
func (h *HandState) IsComplete() bool {
	active := 0
	for _, p := range h.Players {
		if !p.Folded {
			active++
		}
	}
	return h.Street == Showdown || active <= 1
}

// Settle resolves every pot level and returns the chips awarded to each
// seat that won something (gross, not net of the seat's own bets). Winners
// at a pot level are every non-folded, eligible player whose HandScore strictly ties for the best; ties split
// the pot as evenly as integer division allows, with any indivisible
// remainder going to the earliest-positioned winner relative to the
// dealer (spec §4.5 / §9 open question 3 — exact split, not a random
// historical winner).
func (h *HandState) Settle() map[int]int {
	payouts := make(map[int]int)

	for _, pot := range h.GetPots() {
		if len(pot.Eligible) == 0 || pot.Amount == 0 {
			continue
		}
		if len(pot.Eligible) == 1 {
			payouts[pot.Eligible[0]] += pot.Amount
			continue
		}
		live, lastLive := 0, -1
		for _, seat := range pot.Eligible {
			if !h.Players[seat].Folded {
				live++
				lastLive = seat
			}
		}
		if live == 1 {
			payouts[lastLive] += pot.Amount
			continue
		}

		bestRank := poker.HandRank(0)
		var winners []int
		for _, seat := range pot.Eligible {
			p := h.Players[seat]
			if p.Folded {
				continue
			}
			rank := poker.BestOf7(sevenCards(p.HoleCards | h.Board))
			switch poker.CompareHands(rank, bestRank) {
			case 1:
				bestRank = rank
				winners = []int{seat}
			case 0:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		if remainder > 0 {
			payouts[earliestFromButton(winners, h.Button, len(h.Players))] += remainder
		}
	}

	return payouts
}

// GetWinners mirrors Settle's hand comparison but reports winning seats per
// pot index rather than chip amounts, for callers that only need to know
// who won.
func (h *HandState) GetWinners() map[int][]int {
	winners := make(map[int][]int)
	for potIdx, pot := range h.GetPots() {
		if len(pot.Eligible) == 0 {
			continue
		}
		if len(pot.Eligible) == 1 {
			winners[potIdx] = pot.Eligible
			continue
		}

		bestRank := poker.HandRank(0)
		var best []int
		for _, seat := range pot.Eligible {
			p := h.Players[seat]
			if p.Folded {
				continue
			}
			rank := poker.BestOf7(sevenCards(p.HoleCards | h.Board))
			switch poker.CompareHands(rank, bestRank) {
			case 1:
				bestRank = rank
				best = []int{seat}
			case 0:
				best = append(best, seat)
			}
		}
		winners[potIdx] = best
	}
	return winners
}

// earliestFromButton picks the seat in winners that acts soonest after the
// dealer (button+1, button+2, ...), the standard odd-chip rule.
func earliestFromButton(winners []int, button, numPlayers int) int {
	best := winners[0]
	bestOffset := (best - button - 1 + numPlayers) % numPlayers
	for _, seat := range winners[1:] {
		offset := (seat - button - 1 + numPlayers) % numPlayers
		if offset < bestOffset {
			best = seat
			bestOffset = offset
		}
	}
	return best
}

// sevenCards unpacks a 7-card Hand bitset into poker.BestOf7's fixed-size
// array form. Callers only invoke this at showdown, where exactly 7 cards
// (2 hole + 5 board) are always present for any non-folded player.
func sevenCards(hand poker.Hand) [7]poker.Card {
	var cards [7]poker.Card
	i := 0
	for suit := uint8(0); suit < 4 && i < 7; suit++ {
		mask := hand.GetSuitMask(suit)
		for rank := uint8(0); rank < 13 && i < 7; rank++ {
			if mask&(1<<rank) != 0 {
				cards[i] = poker.NewCard(rank, suit)
				i++
			}
		}
	}
	return cards
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
