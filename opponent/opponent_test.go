package opponent_test

import (
	"math/rand"
	"testing"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/opponent"
)

func newHeadsUp(t *testing.T, seed int64) *game.HandState {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	return game.NewHand(rng, []string{"hero", "villain"}, 0, 1, 2, game.WithUniformChips(200))
}

func actUntilComplete(t *testing.T, hand *game.HandState, agents []opponent.Agent, rng *rand.Rand) {
	t.Helper()
	for i := 0; i < 200 && !hand.IsComplete(); i++ {
		seat := hand.ActivePlayer
		action, amount, err := agents[seat].Act(hand, seat, rng)
		if err != nil {
			t.Fatalf("Act(seat %d): %v", seat, err)
		}
		if err := hand.Execute(seat, action, amount); err != nil {
			t.Fatalf("Execute(seat %d, %s, %d): %v", seat, action, amount, err)
		}
	}
	if !hand.IsComplete() {
		t.Fatal("hand did not complete within the iteration budget")
	}
}

func TestCallingStationNeverFoldsWhenItCanCheck(t *testing.T) {
	hand := newHeadsUp(t, 1)
	rng := rand.New(rand.NewSource(1))
	var bot opponent.CallingStation

	legal, err := hand.LegalActions(hand.ActivePlayer)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	hasCheck := false
	for _, a := range legal {
		if a == game.Check {
			hasCheck = true
		}
	}

	action, _, err := bot.Act(hand, hand.ActivePlayer, rng)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if hasCheck && action != game.Check {
		t.Fatalf("expected Check when available, got %s", action)
	}
	if action == game.Fold {
		t.Fatal("a calling station should never fold when it can check or call")
	}
}

func TestRandomAlwaysActsLegally(t *testing.T) {
	hand := newHeadsUp(t, 2)
	rng := rand.New(rand.NewSource(2))
	agents := []opponent.Agent{opponent.Random{}, opponent.Random{}}
	actUntilComplete(t, hand, agents, rng)
}

func TestAggressiveAlwaysActsLegally(t *testing.T) {
	hand := newHeadsUp(t, 3)
	rng := rand.New(rand.NewSource(3))
	agents := []opponent.Agent{opponent.Aggressive{}, opponent.Aggressive{}}
	actUntilComplete(t, hand, agents, rng)
}

func TestEquityBotAlwaysActsLegally(t *testing.T) {
	hand := newHeadsUp(t, 4)
	rng := rand.New(rand.NewSource(4))
	bot := opponent.NewEquityBot()
	agents := []opponent.Agent{bot, bot}
	actUntilComplete(t, hand, agents, rng)
}

func TestMixedTableCompletesAHand(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	hand := game.NewHand(rng, []string{"calling", "random", "aggressive", "equity"}, 0, 1, 2, game.WithUniformChips(200))
	agents := []opponent.Agent{opponent.CallingStation{}, opponent.Random{}, opponent.Aggressive{}, opponent.NewEquityBot()}
	actUntilComplete(t, hand, agents, rng)
}
