package abstract

import (
	"testing"

	"github.com/pokergto/engine/poker"
)

func hand(t *testing.T, cards ...string) poker.Hand {
	t.Helper()
	var h poker.Hand
	for _, c := range cards {
		card, err := poker.ParseCard(c)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c, err)
		}
		h.AddCard(card)
	}
	return h
}

func TestPreflopBucketTiers(t *testing.T) {
	a := NewAbstractor()

	cases := []struct {
		name string
		hole []string
		want HandBucket
	}{
		{"aces", []string{"As", "Ah"}, PremiumPair},
		{"tens", []string{"Ts", "Th"}, HighPair},
		{"sevens", []string{"7s", "7h"}, MidPair},
		{"deuces", []string{"2s", "2h"}, LowPair},
		{"AKs", []string{"As", "Ks"}, PremiumSuited},
		{"AKo", []string{"As", "Kh"}, PremiumOffsuit},
		{"KQs", []string{"Ks", "Qs"}, BroadwaySuited},
		{"KQo", []string{"Ks", "Qh"}, BroadwayOffsuit},
		{"76s", []string{"7s", "6s"}, SuitedConnector},
		{"72o", []string{"7s", "2h"}, Trash},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.PreflopBucket(hand(t, tc.hole...))
			if got != tc.want {
				t.Errorf("PreflopBucket(%v) = %v, want %v", tc.hole, got, tc.want)
			}
		})
	}
}

func TestPostflopBucketTextureBump(t *testing.T) {
	a := NewAbstractor()
	hole := hand(t, "9s", "8s")
	wetBoard := hand(t, "7s", "6h", "2d") // open-ended + backdoor flush draw territory

	bucket, texture := a.PostflopBucket(hole, wetBoard)
	if bucket != SuitedConnector {
		t.Errorf("expected preflop bucket to remain stable, got %v", bucket)
	}
	if texture < Wet {
		t.Errorf("expected texture to be bumped for a strong draw, got %v", texture)
	}
}
