package searcher

import "math"

func uct(wins float64, visits int, parentVisits int, c float64) float64 {
	if visits == 0 { // Prevent division by zero
		panic("cannot compute UCT: 0 visits")
	}

	n := float64(visits)
	return wins/n + c*math.Sqrt(C_SQUARED*math.Log(float64(parentVisits))/n)
}

// bestChild returns the child of n with the highest UCT score. Ties go to the child
// that was expanded first.
func (t *tree) bestChild(n int, c float64) int {
	parent := &t.nodes[n]
	if len(parent.children) == 0 {
		panic("cannot select from a node without children")
	}
	if parent.visits == 0 {
		panic("cannot compute UCT: parent has 0 visits")
	}

	best, bestScore := noParent, math.Inf(-1)
	for _, i := range parent.children {
		child := &t.nodes[i]
		score := uct(child.wins, child.visits, parent.visits, c)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
