// Package pathfind runs A* over the realm grid. The movement strategy
// supplies candidate steps and costs; the water feature view vetoes or
// surcharges steps that cross water. Results are deterministic: the open
// set breaks f-score ties by insertion order.
package pathfind

import (
	"container/heap"
	"fmt"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/movement"
)

// TerrainView is the read-only terrain/water state the engine consults for
// step legality. Implemented by water.Service.
type TerrainView interface {
	Water(c hexgrid.OffsetCoord) bool
	Ocean(c hexgrid.OffsetCoord) bool
	Swamp(c hexgrid.OffsetCoord) bool
	Bridge(c hexgrid.OffsetCoord, edge int) bool
	Ford(c hexgrid.OffsetCoord, edge int) bool
	Waterfall(c hexgrid.OffsetCoord, edge int) bool
}

// Mover describes the traveling party's movement capabilities.
type Mover struct {
	CanSwim bool
}

// Path is a found route: hex identifiers from start to goal inclusive, and
// the total step cost.
type Path struct {
	Hexes []string `json:"hexes"`
	Cost  float64  `json:"cost"`
}

// Engine searches one grid with one strategy. Engines are cheap; build one
// per search context rather than sharing mutable selection state.
type Engine struct {
	strategy movement.Strategy
	topo     hexgrid.Topology
	terrain  TerrainView
	mover    Mover

	// maxExpansions bounds the search; 0 means the grid size decides.
	maxExpansions int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMover sets the movement capabilities used for water crossings.
func WithMover(m Mover) Option {
	return func(e *Engine) { e.mover = m }
}

// WithMaxExpansions caps how many cells the search may expand before giving
// up and reporting no path.
func WithMaxExpansions(n int) Option {
	return func(e *Engine) { e.maxExpansions = n }
}

// New creates an engine over the given topology and terrain view.
func New(strategy movement.Strategy, topo hexgrid.Topology, terrain TerrainView, opts ...Option) *Engine {
	e := &Engine{strategy: strategy, topo: topo, terrain: terrain}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindPath searches from one hex identifier to another. A nil Path with a
// nil error means the search exhausted without reaching the goal — a normal
// outcome, not a failure. Malformed identifiers fail fast.
func (e *Engine) FindPath(startID, goalID string) (*Path, error) {
	start, err := hexgrid.ParseHexID(startID)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	goal, err := hexgrid.ParseHexID(goalID)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	if !e.topo.Contains(start) || !e.topo.Contains(goal) {
		return nil, nil
	}
	if start == goal {
		return &Path{Hexes: []string{start.HexID()}}, nil
	}

	limit := e.maxExpansions
	if limit <= 0 {
		limit = gridBound(e.topo)
	}

	open := &openSet{}
	heap.Init(open)
	open.push(start, e.strategy.Heuristic(start, goal))

	gScore := map[hexgrid.OffsetCoord]float64{start: 0}
	cameFrom := map[hexgrid.OffsetCoord]hexgrid.OffsetCoord{}
	closed := map[hexgrid.OffsetCoord]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openNode).cell
		if closed[cur] {
			continue
		}
		closed[cur] = true
		if cur == goal {
			return reconstruct(cameFrom, start, goal, gScore[goal]), nil
		}
		if len(closed) > limit {
			return nil, nil
		}

		for _, next := range e.strategy.Neighbors(cur) {
			if closed[next] {
				continue
			}
			cost, ok := e.stepCost(cur, next)
			if !ok {
				continue
			}
			tentative := gScore[cur] + cost
			if prev, seen := gScore[next]; seen && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = cur
			open.push(next, tentative+e.strategy.Heuristic(next, goal))
		}
	}
	return nil, nil
}

// reconstruct walks parent links from goal back to start, then reverses.
func reconstruct(cameFrom map[hexgrid.OffsetCoord]hexgrid.OffsetCoord, start, goal hexgrid.OffsetCoord, cost float64) *Path {
	cells := []hexgrid.OffsetCoord{goal}
	for c := goal; c != start; {
		c = cameFrom[c]
		cells = append(cells, c)
	}
	ids := make([]string, len(cells))
	for i, c := range cells {
		ids[len(cells)-1-i] = c.HexID()
	}
	return &Path{Hexes: ids, Cost: cost}
}

// gridBound estimates a safe expansion cap from the topology when the
// caller did not set one. Rectangular grids report rows*cols; anything else
// falls back to a generous constant.
func gridBound(topo hexgrid.Topology) int {
	if g, ok := topo.(*hexgrid.Grid); ok {
		return g.Rows * g.Cols
	}
	return 1 << 16
}

// openSet is a stable min-heap keyed by f-score. Equal f-scores pop in
// insertion order so searches are reproducible.
type openNode struct {
	cell hexgrid.OffsetCoord
	f    float64
	seq  int
}

type openSet struct {
	nodes []*openNode
	next  int
}

func (o *openSet) push(c hexgrid.OffsetCoord, f float64) {
	heap.Push(o, &openNode{cell: c, f: f, seq: o.next})
	o.next++
}

func (o *openSet) Len() int { return len(o.nodes) }

func (o *openSet) Less(i, j int) bool {
	if o.nodes[i].f != o.nodes[j].f {
		return o.nodes[i].f < o.nodes[j].f
	}
	return o.nodes[i].seq < o.nodes[j].seq
}

func (o *openSet) Swap(i, j int) { o.nodes[i], o.nodes[j] = o.nodes[j], o.nodes[i] }

func (o *openSet) Push(x any) { o.nodes = append(o.nodes, x.(*openNode)) }

func (o *openSet) Pop() any {
	old := o.nodes
	n := len(old)
	x := old[n-1]
	o.nodes = old[:n-1]
	return x
}
