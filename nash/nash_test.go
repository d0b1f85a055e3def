package nash

import (
	"math"
	"math/rand"
	"testing"
)

func mustNotation(t *testing.T, s string) Notation {
	t.Helper()
	n, err := ParseNotation(s)
	if err != nil {
		t.Fatalf("ParseNotation(%q): %v", s, err)
	}
	return n
}

func TestNotationRoundTrip(t *testing.T) {
	for _, s := range []string{"AKs", "AKo", "72o", "TT", "AA", "22"} {
		n := mustNotation(t, s)
		if got := n.String(); got != s {
			t.Errorf("ParseNotation(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseNotationRejectsSuffixOnPair(t *testing.T) {
	if _, err := ParseNotation("AAs"); err == nil {
		t.Fatal("expected an error for a pair with a suited/offsuit suffix")
	}
}

// S6: (AKs, BTN, open, 15bb) must return all-in frequency >= 50% and fold
// frequency exactly 0; (72o, BTN, open, 15bb) must return fold >= 90%.
func TestNashLookupS6(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	aks := table.Distribution(Key{Notation: mustNotation(t, "AKs"), Position: BTN, Situation: Open, Stack: Stack15bb})
	if aks.AllInPct < 50 {
		t.Errorf("AKs BTN open 15bb: all-in = %.1f, want >= 50", aks.AllInPct)
	}
	if aks.FoldPct != 0 {
		t.Errorf("AKs BTN open 15bb: fold = %.1f, want exactly 0", aks.FoldPct)
	}

	trash := table.Distribution(Key{Notation: mustNotation(t, "72o"), Position: BTN, Situation: Open, Stack: Stack15bb})
	if trash.FoldPct < 90 {
		t.Errorf("72o BTN open 15bb: fold = %.1f, want >= 90", trash.FoldPct)
	}
}

// Invariant 8: any NashAction's frequencies sum to 100±1 across the full
// frozen table.
func TestAllTableEntriesSumToHundred(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	for _, n := range allNotations() {
		for _, pos := range allPositions {
			for _, sit := range allSituations {
				for _, stack := range stackBuckets {
					dist := table.Distribution(Key{Notation: n, Position: pos, Situation: sit, Stack: stack})
					if math.Abs(dist.Sum()-100) > 1 {
						t.Fatalf("%s %s %s %s: frequencies sum to %.2f, want 100±1", n, pos, sit, stack, dist.Sum())
					}
				}
			}
		}
	}
}

func TestSampleAlwaysReturnsAnOfferedAction(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	key := Key{Notation: mustNotation(t, "AA"), Position: BTN, Situation: Open, Stack: Stack15bb}
	dist := table.Distribution(key)
	if dist.AllInPct == 0 {
		t.Fatal("expected AA to carry positive all-in frequency")
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if a := table.Sample(key, rng); dist.Pct(a) == 0 {
			t.Fatalf("Sample returned %v, which has zero frequency in %+v", a, dist)
		}
	}
}

func TestActionEVEstimatesCoversAllFourActions(t *testing.T) {
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	ev := table.ActionEVEstimates(Key{Notation: mustNotation(t, "AKs"), Position: BTN, Situation: Open, Stack: Stack15bb}, 3, 15, 1)
	for _, a := range []Action{Fold, Limp, MinRaise, AllIn} {
		if _, ok := ev[a]; !ok {
			t.Errorf("missing EV estimate for %v", a)
		}
	}
}
