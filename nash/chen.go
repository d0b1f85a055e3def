package nash

// chenScore scores a starting hand on the classic Chen Formula scale
// (roughly 0 for the weakest hands to 20 for AA), used here only as a
// deterministic, well-understood ordering over the 169 canonical hands to
// shape the frozen push/fold table — not as a literal equity estimate.
func chenScore(n Notation) float64 {
	points := highCardPoints(n.High)

	if n.Pair {
		score := points * 2
		if score < 5 {
			score = 5
		}
		return score
	}

	score := points
	if n.Suited {
		score += 2
	}

	gap := n.High - n.Low - 1
	switch {
	case gap == 0:
		if n.High < 12 { // connector below the broadway run gets a straight bonus
			score++
		}
	case gap == 1:
		score -= 1
	case gap == 2:
		score -= 2
	case gap == 3:
		score -= 4
	default:
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	return score
}

func highCardPoints(rank int) float64 {
	switch rank {
	case 14: // Ace
		return 10
	case 13: // King
		return 8
	case 12: // Queen
		return 7
	case 11: // Jack
		return 6
	default:
		return float64(rank) / 2
	}
}
