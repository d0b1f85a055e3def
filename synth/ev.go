package synth

// situation bundles the numbers the shared EV formula (spec §4.9 step 4)
// needs, so every action's EV is derived from one consistent snapshot of
// the pot rather than each call site re-deriving it slightly differently.
type situation struct {
	equity        float64 // hero's win probability, in [0,1]
	pot           float64 // chips in the middle before this action
	toCall        float64 // chips hero must add to match the current bet
	totalInvested float64 // hero's cumulative commitment this hand (sunk)
}

// foldEquity heuristically estimates how often a bet/raise of size cost
// into a pot of size pot gets folded to: bigger bets relative to the pot
// buy more folds, within a plausible band. There is no corpus precedent
// for this number (no example repo models opponent folding behavior), so
// it is a deliberately simple, bounded function of bet-to-pot ratio rather
// than a learned or solved quantity.
func foldEquity(pot, cost float64) float64 {
	if pot <= 0 {
		return 0.3
	}
	ratio := cost / pot
	fe := 0.3 + 0.35*ratio
	switch {
	case fe < 0.1:
		return 0.1
	case fe > 0.85:
		return 0.85
	default:
		return fe
	}
}

// foldEV is the fold branch of the shared estimator: surrendering only
// what's already sunk, never the pot itself.
func foldEV(s situation) float64 {
	return -s.totalInvested
}

// checkEV is the shared estimator's check branch: hero's equity share of
// the pot as it stands, with nothing further risked this action.
func checkEV(s situation) float64 {
	return s.equity * s.pot
}

// callEV is the shared estimator's call branch.
func callEV(s situation) float64 {
	return s.equity*(s.pot+s.toCall) - s.toCall
}

// betOrRaiseEV is the shared estimator's bet/raise branch: a weighted mix
// of "villain folds now" (hero just wins the current pot) and "villain
// continues" (hero's equity share of the resulting futurePot, minus cost).
func betOrRaiseEV(s situation, cost, futurePot float64) float64 {
	fe := foldEquity(s.pot, cost)
	return fe*s.pot + (1-fe)*(s.equity*futurePot-cost)
}
