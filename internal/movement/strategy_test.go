package movement

import (
	"math"
	"testing"

	"github.com/talgya/hexcrawl/internal/hexgrid"
)

func TestManhattanNeighbors(t *testing.T) {
	c := hexgrid.OffsetCoord{I: 3, J: 3}
	got := Manhattan{}.Neighbors(c)
	want := []hexgrid.OffsetCoord{{I: 2, J: 3}, {I: 3, J: 4}, {I: 4, J: 3}, {I: 3, J: 2}} // N, E, S, W
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor %d = %v, want %v (order must be stable)", i, got[i], want[i])
		}
	}
}

func TestOctileNeighbors(t *testing.T) {
	c := hexgrid.OffsetCoord{I: 3, J: 3}
	got := Octile{}.Neighbors(c)
	want := []hexgrid.OffsetCoord{
		{I: 2, J: 3}, {I: 3, J: 4}, {I: 4, J: 3}, {I: 3, J: 2}, // N, E, S, W
		{I: 2, J: 4}, {I: 4, J: 4}, {I: 4, J: 2}, {I: 2, J: 2}, // NE, SE, SW, NW
	}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor %d = %v, want %v (order must be stable)", i, got[i], want[i])
		}
	}
}

func TestStepCosts(t *testing.T) {
	from := hexgrid.OffsetCoord{I: 2, J: 2}
	if c := (Manhattan{}).StepCost(from, hexgrid.OffsetCoord{I: 2, J: 3}); c != 1 {
		t.Errorf("manhattan step cost = %f, want 1", c)
	}
	if c := (Octile{}).StepCost(from, hexgrid.OffsetCoord{I: 2, J: 3}); c != 1 {
		t.Errorf("octile cardinal step cost = %f, want 1", c)
	}
	if c := (Octile{}).StepCost(from, hexgrid.OffsetCoord{I: 3, J: 3}); math.Abs(c-Sqrt2) > 1e-12 {
		t.Errorf("octile diagonal step cost = %f, want sqrt2", c)
	}
}

func TestHeuristicValues(t *testing.T) {
	from := hexgrid.OffsetCoord{I: 0, J: 0}
	if h := (Manhattan{}).Heuristic(from, hexgrid.OffsetCoord{I: 3, J: 4}); h != 7 {
		t.Errorf("manhattan heuristic = %f, want 7", h)
	}
	want := 4 + (Sqrt2-1)*3
	if h := (Octile{}).Heuristic(from, hexgrid.OffsetCoord{I: 3, J: 4}); math.Abs(h-want) > 1e-12 {
		t.Errorf("octile heuristic = %f, want %f", h, want)
	}
}

// TestOctileAdmissibility compares the octile heuristic against true
// shortest-path costs computed by Dijkstra on an open grid. The heuristic
// must never overestimate.
func TestOctileAdmissibility(t *testing.T) {
	const size = 11
	origin := hexgrid.OffsetCoord{I: size / 2, J: size / 2}
	strat := Octile{}

	dist := dijkstraOpenGrid(strat, origin, size)
	for c, actual := range dist {
		h := strat.Heuristic(origin, c)
		if h > actual+1e-9 {
			t.Errorf("heuristic to %v = %f exceeds true cost %f", c, h, actual)
		}
	}
}

// dijkstraOpenGrid runs a plain Dijkstra over a size x size obstacle-free
// grid and returns cost-to-reach for every cell.
func dijkstraOpenGrid(strat Strategy, origin hexgrid.OffsetCoord, size int) map[hexgrid.OffsetCoord]float64 {
	dist := map[hexgrid.OffsetCoord]float64{origin: 0}
	done := map[hexgrid.OffsetCoord]bool{}

	for {
		var cur hexgrid.OffsetCoord
		best := math.Inf(1)
		found := false
		for c, d := range dist {
			if !done[c] && d < best {
				best, cur, found = d, c, true
			}
		}
		if !found {
			return dist
		}
		done[cur] = true
		for _, n := range strat.Neighbors(cur) {
			if n.I < 0 || n.I >= size || n.J < 0 || n.J >= size {
				continue
			}
			d := best + strat.StepCost(cur, n)
			if old, ok := dist[n]; !ok || d < old {
				dist[n] = d
			}
		}
	}
}

func TestByName(t *testing.T) {
	if ByName("octile").Name() != "octile" {
		t.Error("ByName(octile) wrong strategy")
	}
	if ByName("manhattan").Name() != "manhattan" {
		t.Error("ByName(manhattan) wrong strategy")
	}
	if ByName("").Name() != "manhattan" {
		t.Error("ByName default should be manhattan")
	}
}
