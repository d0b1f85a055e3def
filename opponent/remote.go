package opponent

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/poker"
)

// actionRequest is sent to a remote peer when it is asked to act, adapted
// from the teacher's internal/protocol.ActionRequest/HandStart message
// shapes (card-as-string representation, seat-relative hole cards) but
// collapsed into a single JSON message instead of separate typed frames,
// since this bridge has no session/auth/multi-hand lifecycle to track
// alongside it.
type actionRequest struct {
	Type        string   `json:"type"`
	Seat        int      `json:"seat"`
	HoleCards   []string `json:"hole_cards"`
	Board       []string `json:"board"`
	Pot         int      `json:"pot"`
	ToCall      int      `json:"to_call"`
	LegalAction []string `json:"legal_actions"`
	MinRaiseTo  int      `json:"min_raise_to"`
	AllInAmount int      `json:"all_in_amount"`
}

// actionResponse is the remote peer's reply to an actionRequest, mirroring
// internal/protocol.Action's "type/action/amount" shape.
type actionResponse struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

// Remote is an Agent backed by a websocket connection to an out-of-process
// bot: Act sends the legal decision over the wire as JSON and waits for a
// chosen action back, falling back to the safest legal action (per spec
// §7's graceful-downgrade rule) if the peer is slow, disconnects, or
// answers with something illegal.
type Remote struct {
	Conn *websocket.Conn
	// Deadline bounds how long Act waits for a reply before falling back.
	Deadline time.Duration
}

// NewRemote wraps conn with a sensible default reply deadline.
func NewRemote(conn *websocket.Conn) *Remote {
	return &Remote{Conn: conn, Deadline: 5 * time.Second}
}

func (r *Remote) Act(hand *game.HandState, seat int, rng *rand.Rand) (game.Action, int, error) {
	legal, err := hand.LegalActions(seat)
	if err != nil {
		return 0, 0, err
	}

	player := hand.Players[seat]
	req := actionRequest{
		Type:        "action_request",
		Seat:        seat,
		HoleCards:   cardStrings(unpackHand(player.HoleCards)),
		Board:       cardStrings(unpackHand(hand.Board)),
		Pot:         potSize(hand),
		ToCall:      hand.Betting.CurrentBet - player.Bet,
		LegalAction: actionStrings(legal),
		MinRaiseTo:  minRaiseTo(hand, seat),
		AllInAmount: allInAmount(hand, seat),
	}

	deadline := r.Deadline
	if deadline <= 0 {
		deadline = 5 * time.Second
	}

	if err := r.Conn.SetWriteDeadline(time.Now().Add(deadline)); err != nil {
		return checkOrCall(legal), 0, nil
	}
	if err := r.Conn.WriteJSON(req); err != nil {
		return checkOrCall(legal), 0, nil
	}

	if err := r.Conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
		return checkOrCall(legal), 0, nil
	}
	var resp actionResponse
	if err := r.Conn.ReadJSON(&resp); err != nil {
		return checkOrCall(legal), 0, nil
	}

	action, ok := parseActionName(resp.Action)
	if !ok || !has(legal, action) {
		return checkOrCall(legal), 0, nil
	}
	return action, resp.Amount, nil
}

func parseActionName(s string) (game.Action, bool) {
	switch s {
	case "fold":
		return game.Fold, true
	case "check":
		return game.Check, true
	case "call":
		return game.Call, true
	case "raise":
		return game.Raise, true
	case "allin":
		return game.AllIn, true
	default:
		return 0, false
	}
}

func actionStrings(actions []game.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.String()
	}
	return out
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = fmt.Sprint(c)
	}
	return out
}
