package game

import "github.com/pokergto/engine/poker"

// Player is one seat's state for the duration of a hand. Chip counts are
// expressed in whatever unit the caller seeded the hand with (cents or
// milli-BB); the state machine never interprets their scale.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards poker.Hand

	// Bet is this player's commitment on the current street; it resets to
	// zero on every street transition. TotalBet is their cumulative
	// commitment for the whole hand and only ever grows.
	Bet      int
	TotalBet int

	Folded    bool
	AllInFlag bool
}

// ID identifies a player for the purposes of LegalActions/Execute. Seat
// index is stable for the life of a hand, so it doubles as the player id.
func (p *Player) ID() int {
	return p.Seat
}

// Active reports whether the player can still act (not folded, not all-in).
func (p *Player) Active() bool {
	return !p.Folded && !p.AllInFlag
}
