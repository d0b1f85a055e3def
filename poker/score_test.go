package poker

import "testing"

func mustParse(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func five(t *testing.T, s ...string) [5]Card {
	t.Helper()
	if len(s) != 5 {
		t.Fatalf("five() requires 5 card strings, got %d", len(s))
	}
	var cards [5]Card
	for i, c := range s {
		cards[i] = mustParse(t, c)
	}
	return cards
}

func TestEval5MonotoneOrdering(t *testing.T) {
	t.Parallel()
	straightFlush := Eval5(five(t, "As", "Ks", "Qs", "Js", "Ts"))
	quads := Eval5(five(t, "Ad", "As", "Ah", "Kc", "Kd"))
	trips := Eval5(five(t, "2c", "2d", "2s", "3c", "3d"))
	highCard := Eval5(five(t, "Ah", "Kc", "Qd", "Jh", "9s"))

	if !(straightFlush > quads && quads > trips && trips > highCard) {
		t.Errorf("expected straightFlush > quads > trips > highCard, got %d, %d, %d, %d",
			straightFlush, quads, trips, highCard)
	}
}

func TestEval5WheelStraight(t *testing.T) {
	t.Parallel()
	wheel := Eval5(five(t, "5s", "4h", "3d", "2c", "As"))
	sixHigh := Eval5(five(t, "6c", "5d", "4s", "3h", "2d"))

	if wheel.Type() != Straight {
		t.Fatalf("expected wheel to be a straight, got %s", wheel)
	}
	if sixHigh.Type() != Straight {
		t.Fatalf("expected 6-high to be a straight, got %s", sixHigh)
	}
	if wheel >= sixHigh {
		t.Errorf("wheel (5-high) should lose to 6-high straight, got wheel=%d sixHigh=%d", wheel, sixHigh)
	}
}

func TestEval5PanicsOnWrongSize(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Eval5 to panic on a duplicate/degenerate hand")
		}
	}()
	c := mustParse(t, "As")
	Eval5([5]Card{c, c, c, c, c})
}

func TestBestOf7MatchesBestFiveSubset(t *testing.T) {
	t.Parallel()
	seven := [7]Card{
		mustParse(t, "As"), mustParse(t, "Ks"), mustParse(t, "Qs"), mustParse(t, "Js"), mustParse(t, "Ts"),
		mustParse(t, "2c"), mustParse(t, "7d"),
	}
	best := BestOf7(seven)

	bestSubset := HandScore(0)
	var idx [5]int
	var combos func(start, depth int)
	combos = func(start, depth int) {
		if depth == 5 {
			var subset [5]Card
			for i, v := range idx {
				subset[i] = seven[v]
			}
			if score := Eval5(subset); score > bestSubset {
				bestSubset = score
			}
			return
		}
		for i := start; i < 7; i++ {
			idx[depth] = i
			combos(i+1, depth+1)
		}
	}
	combos(0, 0)

	if best != bestSubset {
		t.Errorf("BestOf7 = %d, want max over subsets = %d", best, bestSubset)
	}
}

func TestBestOf7PanicsOnWrongSize(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected BestOf7 to panic on a degenerate hand")
		}
	}()
	c := mustParse(t, "As")
	BestOf7([7]Card{c, c, c, c, c, c, c})
}

func TestEvaluateBestAcceptsFiveToSevenCards(t *testing.T) {
	t.Parallel()
	flop := five(t, "Ah", "Kh", "Qh", "Jh", "Th")

	got5, err := EvaluateBest(flop[:]...)
	if err != nil {
		t.Fatalf("EvaluateBest(5 cards): %v", err)
	}
	if got5.Type() != StraightFlush {
		t.Fatalf("expected a straight flush, got %s", got5.String())
	}

	turnCard := mustParse(t, "2c")
	got6, err := EvaluateBest(append(append([]Card{}, flop[:]...), turnCard)...)
	if err != nil {
		t.Fatalf("EvaluateBest(6 cards): %v", err)
	}
	if got6 != got5 {
		t.Fatalf("adding an irrelevant 6th card changed the best hand: %d != %d", got6, got5)
	}
}

func TestEvaluateBestRejectsDuplicatesAndBadCounts(t *testing.T) {
	t.Parallel()
	ace := mustParse(t, "As")

	if _, err := EvaluateBest(ace, ace, ace, ace, ace); err == nil {
		t.Fatal("expected an error for duplicate cards")
	}

	four := []Card{ace, mustParse(t, "Kd"), mustParse(t, "Qc"), mustParse(t, "Jh")}
	if _, err := EvaluateBest(four...); err == nil {
		t.Fatal("expected an error for fewer than 5 cards")
	}
}
