package game

import (
	"math/rand"

	"github.com/pokergto/engine/poker"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

type handConfig struct {
	rng         *rand.Rand
	playerNames []string
	button      int
	smallBlind  int
	bigBlind    int

	chipCounts []int
	startChips int
	deck       *poker.Deck
}

// NewHand creates a new hand state with required RNG and optional
// configuration. The RNG is required to make randomness explicit and
// testing deterministic.
//
//	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
//	h := NewHand(rng, []string{"Alice", "Bob"}, 0, 5, 10)
func NewHand(rng *rand.Rand, playerNames []string, button int, smallBlind, bigBlind int, opts ...HandOption) *HandState {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	if len(playerNames) < 2 {
		panic("at least 2 players required")
	}
	if button < 0 || button >= len(playerNames) {
		panic("button position out of range")
	}

	cfg := &handConfig{
		rng:         rng,
		playerNames: playerNames,
		button:      button,
		smallBlind:  smallBlind,
		bigBlind:    bigBlind,
		startChips:  1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chipCounts != nil && len(cfg.chipCounts) != len(playerNames) {
		panic("chip counts must match number of players")
	}

	players := make([]*Player, len(playerNames))
	for i, name := range playerNames {
		chips := cfg.startChips
		if cfg.chipCounts != nil {
			chips = cfg.chipCounts[i]
		}
		players[i] = &Player{Seat: i, Name: name, Chips: chips}
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(cfg.rng)
	}

	h := &HandState{
		Players:    players,
		Button:     button,
		Street:     Preflop,
		Deck:       deck,
		PotManager: NewPotManager(players),
		Betting:    NewBettingRound(len(players), bigBlind),
	}

	h.postBlinds(smallBlind, bigBlind)
	h.dealHoleCards()

	if len(players) == 2 {
		h.ActivePlayer = button
	} else {
		h.ActivePlayer = h.nextActivePlayer((button + 3) % len(players))
	}

	return h
}

// WithUniformChips sets the same starting chips for every player.
func WithUniformChips(chips int) HandOption {
	return func(c *handConfig) {
		c.startChips = chips
		c.chipCounts = nil
	}
}

// WithChips sets individual starting chip counts, one per player in seat order.
func WithChips(chipCounts []int) HandOption {
	return func(c *handConfig) {
		c.chipCounts = chipCounts
	}
}

// WithDeck supplies a pre-built deck, overriding RNG-based deck creation
// (the RNG may still back other randomness). Used for deterministic tests.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}
