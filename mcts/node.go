package mcts

import (
	"fmt"
	"math"

	"github.com/pokergto/engine/game"
)

// decision is one candidate move out of a node: the real action space, not
// CFR's bucketed abstraction (spec §4.8: "determinized UCT/PUCT search over
// the real (non-abstracted) action space").
type decision struct {
	action game.Action
	amount int
}

func (d decision) key() string {
	return fmt.Sprintf("%s:%d", d.action, d.amount)
}

// Node is one MCTSNode (spec §3): visit count, cumulative reward, children
// keyed by the action taken, a parent pointer, the still-untried actions at
// this node, and an information-set identifier. Root is rebuilt fresh per
// decision; subtrees are discarded afterward (no cross-call reuse).
type Node struct {
	parent   *Node
	infoSet  string
	player   int
	visits   int
	reward   float64
	children map[string]*Node
	// untried holds decisions not yet expanded, in a fixed order so
	// progressive widening always reveals the same next action first.
	untried []decision
	// widened decisions already exposed to selection, in expansion order.
	widened []decision
}

func newNode(parent *Node, infoSet string, player int, decisions []decision) *Node {
	return &Node{
		parent:   parent,
		infoSet:  infoSet,
		player:   player,
		children: make(map[string]*Node, len(decisions)),
		untried:  decisions,
	}
}

// visibleLimit returns how many of this node's decisions progressive
// widening currently permits (spec §4.8: max_children = ceil(k*visits^a)),
// capped by the total number of legal decisions.
func (n *Node) visibleLimit(cfg Config) int {
	limit := widenLimit(cfg, n.visits)
	if limit > len(n.untried)+len(n.widened) {
		limit = len(n.untried) + len(n.widened)
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func widenLimit(cfg Config, visits int) int {
	v := float64(visits)
	if v < 1 {
		v = 1
	}
	limit := cfg.WideningK * math.Pow(v, cfg.WideningAlpha)
	return ceilInt(limit)
}

// fullyExpanded reports whether every currently widened decision has a
// child, and widening permits no more right now.
func (n *Node) fullyExpanded(cfg Config) bool {
	return len(n.untried) == 0 || len(n.widened) >= n.visibleLimit(cfg)
}

func ceilInt(f float64) int {
	return int(math.Ceil(f))
}
