// Package movement defines how a path search may step between grid cells:
// which neighbors are candidates, what a step costs, and the admissible
// heuristic used to guide the search. Each engine holds its own strategy
// value, so concurrent searches under different strategies are safe.
package movement

import (
	"math"

	"github.com/talgya/hexcrawl/internal/hexgrid"
)

// Sqrt2 is the cost of a diagonal step under the octile strategy.
var Sqrt2 = math.Sqrt(2)

// Strategy describes a movement policy for the path search.
type Strategy interface {
	// Name identifies the strategy ("manhattan" or "octile").
	Name() string
	// Neighbors returns candidate cells in a fixed, documented order so
	// search tie-breaking stays reproducible.
	Neighbors(c hexgrid.OffsetCoord) []hexgrid.OffsetCoord
	// Heuristic estimates remaining cost. Never exceeds the true optimum.
	Heuristic(from, to hexgrid.OffsetCoord) float64
	// StepCost prices a single step between adjacent cells.
	StepCost(from, to hexgrid.OffsetCoord) float64
}

// ByName returns the strategy for a configuration name, defaulting to
// Manhattan for anything unrecognized.
func ByName(name string) Strategy {
	if name == "octile" {
		return Octile{}
	}
	return Manhattan{}
}

// cardinal deltas in (di, dj), order N, E, S, W.
var cardinals = [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// diagonal deltas in (di, dj), order NE, SE, SW, NW.
var diagonals = [4][2]int{{-1, 1}, {1, 1}, {1, -1}, {-1, -1}}

// Manhattan moves in the four cardinal directions at unit cost.
type Manhattan struct{}

func (Manhattan) Name() string { return "manhattan" }

// Neighbors returns the four cardinal cells in N, E, S, W order.
func (Manhattan) Neighbors(c hexgrid.OffsetCoord) []hexgrid.OffsetCoord {
	out := make([]hexgrid.OffsetCoord, 0, 4)
	for _, d := range cardinals {
		out = append(out, hexgrid.OffsetCoord{I: c.I + d[0], J: c.J + d[1]})
	}
	return out
}

func (Manhattan) Heuristic(from, to hexgrid.OffsetCoord) float64 {
	return float64(abs(to.I-from.I) + abs(to.J-from.J))
}

func (Manhattan) StepCost(from, to hexgrid.OffsetCoord) float64 {
	return 1
}

// Octile moves in eight directions: unit cost for cardinals, √2 for
// diagonals.
type Octile struct{}

func (Octile) Name() string { return "octile" }

// Neighbors returns the four cardinals (N, E, S, W) followed by the four
// diagonals (NE, SE, SW, NW).
func (Octile) Neighbors(c hexgrid.OffsetCoord) []hexgrid.OffsetCoord {
	out := make([]hexgrid.OffsetCoord, 0, 8)
	for _, d := range cardinals {
		out = append(out, hexgrid.OffsetCoord{I: c.I + d[0], J: c.J + d[1]})
	}
	for _, d := range diagonals {
		out = append(out, hexgrid.OffsetCoord{I: c.I + d[0], J: c.J + d[1]})
	}
	return out
}

// Heuristic is the exact octile distance: max(|dx|,|dy|) plus the diagonal
// shortcut (√2−1)·min(|dx|,|dy|).
func (Octile) Heuristic(from, to hexgrid.OffsetCoord) float64 {
	dx := abs(to.I - from.I)
	dy := abs(to.J - from.J)
	if dx < dy {
		dx, dy = dy, dx
	}
	return float64(dx) + (Sqrt2-1)*float64(dy)
}

func (Octile) StepCost(from, to hexgrid.OffsetCoord) float64 {
	if abs(to.I-from.I) == 1 && abs(to.J-from.J) == 1 {
		return Sqrt2
	}
	return 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
