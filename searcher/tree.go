package searcher

import (
	"fmt"

	"golang.org/x/exp/slices"

	"stuckfish/game"
)

const (
	rootIndex = 0
	noParent  = -1
)

// node is a search tree node. Nodes refer to each other by index into the tree's arena.
type node struct {
	state    game.State
	move     game.Move // Move that led here, nil at the root
	parent   int
	children []int
	untried  []game.Move
	visits   int
	wins     float64
}

// tree owns every node of one search. Index 0 is the root.
type tree struct {
	nodes []node
}

func newTree(state game.State) *tree {
	t := &tree{}
	t.push(state, noParent, nil)
	return t
}

func (t *tree) push(state game.State, parent int, move game.Move) int {
	t.nodes = append(t.nodes, node{
		state:   state,
		move:    move,
		parent:  parent,
		untried: state.LegalMoves(state.Player()),
	})
	return len(t.nodes) - 1
}

// addChild expands n with one of its untried moves and returns the index of the new child.
func (t *tree) addChild(n int, move game.Move) int {
	parent := &t.nodes[n]
	i := slices.Index(parent.untried, move)
	if i < 0 {
		panic(fmt.Sprintf("move %v is not untried at node %d", move, n))
	}
	parent.untried = slices.Delete(parent.untried, i, i+1)
	state := parent.state.Play(move)

	// push may grow the arena, parent is stale afterwards
	child := t.push(state, n, move)
	t.nodes[n].children = append(t.nodes[n].children, child)
	return child
}

func (t *tree) fullyExpanded(n int) bool {
	return len(t.nodes[n].untried) == 0
}

func (t *tree) update(n int, result float64) {
	t.nodes[n].visits++
	t.nodes[n].wins += result
}

func (t *tree) size() int {
	return len(t.nodes)
}
