package equity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pokergto/engine/poker"
)

func card(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func TestResultEquity(t *testing.T) {
	r := Result{Win: 300, Tie: 50, Total: 1000}
	want := (300.0 + 50.0) / 1000.0
	if math.Abs(r.Equity()-want) > 1e-9 {
		t.Errorf("Equity() = %v, want %v", r.Equity(), want)
	}
}

func TestEstimateExactEnumerationDominantHand(t *testing.T) {
	t.Parallel()
	hero := [2]poker.Card{card(t, "As"), card(t, "Ah")}
	board := []poker.Card{card(t, "Ac"), card(t, "Kd"), card(t, "2c")} // set of aces, unknown=2

	opp, err := ParseRange("72o")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}

	eq, err := Estimate(hero, board, opp, 0.01, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if eq < 0.9 {
		t.Errorf("set of aces vs 72o should dominate, got equity %v", eq)
	}
}

func TestEstimateConflictingCardsIsInvalidState(t *testing.T) {
	t.Parallel()
	hero := [2]poker.Card{card(t, "As"), card(t, "Ah")}
	board := []poker.Card{card(t, "As"), card(t, "Kd"), card(t, "2c")} // shares As with hero
	opp, _ := ParseRange("72o")

	_, err := Estimate(hero, board, opp, 0.01, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error for overlapping hero/board cards")
	}
}

func TestEstimateMonteCarloPreflopCoinFlip(t *testing.T) {
	t.Parallel()
	// AKs vs QQ is close to a coin flip preflop; Monte Carlo path (unknown=5).
	hero := [2]poker.Card{card(t, "As"), card(t, "Ks")}
	opp, err := ParseRange("QQ")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}

	eq, err := Estimate(hero, nil, opp, 0.01, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if eq < 0.35 || eq > 0.65 {
		t.Errorf("AKs vs QQ should be close to even, got equity %v", eq)
	}
}
