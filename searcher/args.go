package searcher

import "math"

// Hyperparameters for MCTS

const C_SQUARED = 2.0

const (
	DefaultSimulations  = 1000
	DefaultExploration  = math.Sqrt2
	DefaultRolloutLimit = 0 // Playouts run to the end of the game
)

// Rewards are counted from the perspective of the searching side
const WIN = 1.0
const LOSS = 1 - WIN
