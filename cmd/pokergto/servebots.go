package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/pokergto/engine/game"
	"github.com/pokergto/engine/opponent"
)

// ServeBotsCmd listens for a single websocket-connected external bot per
// request and plays it heads-up against an in-process EquityBot, one hand
// per connection. It is an opt-in bridge for out-of-process opponents (a
// bot written in another language, say) to reach opponent.Agent's
// interface over the wire via opponent.Remote, adapted from
// internal/server/server.go's upgrader/handleWebSocket shape but stripped
// of everything that shape exists to serve on a live multi-table server:
// no session registry, no auth, no multi-hand game lifecycle. Each
// connection gets exactly one hand and the connection closes when it
// completes.
type ServeBotsCmd struct {
	Addr       string `default:":8080" help:"Address to listen on"`
	SmallBlind int    `default:"1" help:"Small blind amount"`
	BigBlind   int    `default:"2" help:"Big blind amount"`
	StartChips int    `default:"200" help:"Starting chip count per player"`
	Seed       int64  `default:"0" help:"RNG seed (0 derives one from the current time)"`
}

func (c *ServeBotsCmd) Run(logger *log.Logger) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		seed := c.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))

		hand := game.NewHand(rng, []string{"remote", "house"}, 0, c.SmallBlind, c.BigBlind, game.WithUniformChips(c.StartChips))
		agents := []opponent.Agent{opponent.NewRemote(conn), opponent.NewEquityBot()}

		logger.Info("bot connected, dealing hand", "remote", r.RemoteAddr)
		if err := playToCompletion(hand, agents, rng); err != nil {
			logger.Error("hand did not complete", "err", err)
			return
		}
		logger.Info("hand complete", "remote", r.RemoteAddr)
	})

	logger.Info("serving bots", "addr", c.Addr)
	return http.ListenAndServe(c.Addr, mux)
}

// playToCompletion drives hand to completion by repeatedly asking whichever
// seat is on action to act, the same shape opponent_test.go's
// actUntilComplete uses, bounded so a misbehaving remote bot can't wedge
// the server in an infinite loop.
func playToCompletion(hand *game.HandState, agents []opponent.Agent, rng *rand.Rand) error {
	for i := 0; i < 200 && !hand.IsComplete(); i++ {
		seat := hand.ActivePlayer
		action, amount, err := agents[seat].Act(hand, seat, rng)
		if err != nil {
			return fmt.Errorf("act(seat %d): %w", seat, err)
		}
		if err := hand.Execute(seat, action, amount); err != nil {
			return fmt.Errorf("execute(seat %d, %s, %d): %w", seat, action, amount, err)
		}
	}
	if !hand.IsComplete() {
		return fmt.Errorf("hand did not complete within the iteration budget")
	}
	return nil
}
