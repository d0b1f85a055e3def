package game

// Pot is one level of the pot (main or a side pot), with the seats eligible
// to win it and the per-player contribution ceiling that created it.
type Pot struct {
	Amount       int
	Eligible     []int
	MaxPerPlayer int
}

// PotManager collects street bets into pots and splits off side pots at
// each distinct all-in amount, per spec §4.5's "allocate side pots by
// ascending all-in amount."
type PotManager struct {
	pots []Pot
}

// NewPotManager starts with a single pot eligible to every non-folded seat.
func NewPotManager(players []*Player) *PotManager {
	return &PotManager{
		pots: []Pot{{Eligible: eligibleSeats(players)}},
	}
}

func eligibleSeats(players []*Player) []int {
	eligible := make([]int, 0, len(players))
	for _, p := range players {
		if !p.Folded {
			eligible = append(eligible, p.Seat)
		}
	}
	return eligible
}

// Total returns the sum across all pots, excluding any uncollected
// in-flight street bets.
func (pm *PotManager) Total() int {
	total := 0
	for _, pot := range pm.pots {
		total += pot.Amount
	}
	return total
}

// CollectBets moves each player's per-street Bet into the main pot slot and
// zeroes it; CalculateSidePots then redistributes it across pot levels if
// any all-ins occurred this street.
func (pm *PotManager) CollectBets(players []*Player) {
	for _, p := range players {
		if p.Bet > 0 {
			pm.pots[0].Amount += p.Bet
			p.Bet = 0
		}
	}
}

// CalculateSidePots rebuilds the pot ladder from each player's cumulative
// TotalBet, splitting at every distinct all-in amount so that a short
// all-in stack is never eligible for chips beyond what it contributed.
func (pm *PotManager) CalculateSidePots(players []*Player) {
	allInAmounts := make(map[int]bool)
	for _, p := range players {
		if p.AllInFlag && p.TotalBet > 0 {
			allInAmounts[p.TotalBet] = true
		}
	}
	if len(allInAmounts) == 0 {
		return
	}

	amounts := make([]int, 0, len(allInAmounts))
	for amount := range allInAmounts {
		amounts = append(amounts, amount)
	}
	for i := 0; i < len(amounts); i++ {
		for j := i + 1; j < len(amounts); j++ {
			if amounts[i] > amounts[j] {
				amounts[i], amounts[j] = amounts[j], amounts[i]
			}
		}
	}

	pm.pots = nil
	previousMax := 0
	for _, maxBet := range amounts {
		pot := Pot{MaxPerPlayer: maxBet}
		for _, p := range players {
			if !p.Folded && p.TotalBet > previousMax {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		for _, p := range players {
			contribution := p.TotalBet - previousMax
			if contribution > maxBet-previousMax {
				contribution = maxBet - previousMax
			}
			if contribution > 0 {
				pot.Amount += contribution
			}
		}
		if pot.Amount > 0 && len(pot.Eligible) > 0 {
			pm.pots = append(pm.pots, pot)
		}
		previousMax = maxBet
	}

	mainPot := Pot{}
	for _, p := range players {
		if !p.Folded && p.TotalBet > previousMax {
			mainPot.Eligible = append(mainPot.Eligible, p.Seat)
			mainPot.Amount += p.TotalBet - previousMax
		}
	}
	if mainPot.Amount > 0 && len(mainPot.Eligible) > 0 {
		pm.pots = append(pm.pots, mainPot)
	}
}

// GetPots returns the settled pots (uncollected street bets excluded).
func (pm *PotManager) GetPots() []Pot {
	return pm.pots
}

// Clone returns a deep copy: independent pot slice and independent Eligible
// slices per pot, so mutating the clone (e.g. while exploring one branch of
// a solver's game tree) never aliases the original's backing arrays.
func (pm *PotManager) Clone() *PotManager {
	clone := &PotManager{pots: make([]Pot, len(pm.pots))}
	for i, p := range pm.pots {
		clone.pots[i] = Pot{
			Amount:       p.Amount,
			MaxPerPlayer: p.MaxPerPlayer,
			Eligible:     append([]int(nil), p.Eligible...),
		}
	}
	return clone
}

// GetPotsWithUncollected returns the settled pots with any bets still
// sitting in front of players (mid-street) folded into the last pot, which
// is always where current-street action lands.
func (pm *PotManager) GetPotsWithUncollected(players []*Player) []Pot {
	uncollected := 0
	for _, p := range players {
		uncollected += p.Bet
	}
	if uncollected == 0 {
		return pm.pots
	}

	result := make([]Pot, len(pm.pots))
	copy(result, pm.pots)
	if len(result) > 0 {
		result[len(result)-1].Amount += uncollected
	}
	return result
}
