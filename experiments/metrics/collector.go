package metrics

import (
	"time"

	"stuckfish/game"
)

// StopReason tells why a search stopped running simulations.
type StopReason int

const (
	StopNone        StopReason = iota
	StopSimulations            // Configured number of simulations reached
	StopDuration               // Wall-clock budget exhausted
	StopInterrupt              // Context cancelled or deadline exceeded
	StopNoMoves                // Nothing to search, the root has no legal moves
)

func (sr StopReason) String() string {
	switch sr {
	case StopSimulations:
		return "simulations"
	case StopDuration:
		return "duration"
	case StopInterrupt:
		return "interrupt"
	case StopNoMoves:
		return "no-moves"
	}
	return "none"
}

type SearchMetric struct {
	Simulations    int
	Duration       time.Duration
	FullPlayouts   int // Rollouts that reached a terminal state
	CutoffPlayouts int // Rollouts stopped by the ply limit
	TreeSize       int
	MaxDepth       int
	StopReason     StopReason
}

type MoveMetric struct {
	Step int
	Side game.Side
	Move string
	SearchMetric
}

type GameMetric struct {
	White      string // Player kind
	Black      string
	Outcome    game.Outcome
	Method     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start()
	AddSimulation()
	AddFullPlayout()
	AddCutoffPlayout()
	ObserveDepth(depth int)
	Complete(treeSize int, reason StopReason) SearchMetric
}

type collector struct {
	startTime      time.Time
	simulations    int
	fullPlayouts   int
	cutoffPlayouts int
	maxDepth       int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	*m = collector{startTime: time.Now()}
}

func (m *collector) AddSimulation() {
	m.simulations++
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) AddCutoffPlayout() {
	m.cutoffPlayouts++
}

func (m *collector) ObserveDepth(depth int) {
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) Complete(treeSize int, reason StopReason) SearchMetric {
	return SearchMetric{
		Simulations:    m.simulations,
		Duration:       time.Since(m.startTime),
		FullPlayouts:   m.fullPlayouts,
		CutoffPlayouts: m.cutoffPlayouts,
		TreeSize:       treeSize,
		MaxDepth:       m.maxDepth,
		StopReason:     reason,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddSimulation()         {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) AddCutoffPlayout()      {}
func (m *dummyCollector) ObserveDepth(depth int) {}
func (m *dummyCollector) Complete(treeSize int, reason StopReason) SearchMetric {
	return SearchMetric{TreeSize: treeSize, StopReason: reason}
}
