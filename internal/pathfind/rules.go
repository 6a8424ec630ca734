package pathfind

import "github.com/talgya/hexcrawl/internal/hexgrid"

// swampFactor doubles the cost of stepping into a swamp hex.
const swampFactor = 2

// fordSurcharge is the extra cost of crossing at a ford instead of a bridge.
const fordSurcharge = 1

// stepCost prices a candidate step, or vetoes it. Rules, in order:
//   - the destination must exist on the grid
//   - open ocean is impassable to grounded movers
//   - hex-adjacent steps cross a real edge: a waterfall there vetoes the
//     step outright; a water crossing needs a bridge (no surcharge) or a
//     ford (+1) unless the mover can swim
//   - diagonal strategy steps that are not hex-adjacent may not cut
//     corners: both orthogonal intermediates must be on the grid, and a
//     grounded mover cannot slip across water diagonally
//   - a swamp on the destination doubles the step cost but never vetoes
func (e *Engine) stepCost(from, to hexgrid.OffsetCoord) (float64, bool) {
	if !e.topo.Contains(to) {
		return 0, false
	}
	if e.terrain.Ocean(to) && !e.mover.CanSwim {
		return 0, false
	}

	cost := e.strategy.StepCost(from, to)

	if edge, adjacent := hexgrid.EdgeToward(from, to); adjacent {
		if e.terrain.Waterfall(from, edge) {
			return 0, false
		}
		if e.waterCrossing(from, to) && !e.mover.CanSwim {
			switch {
			case e.terrain.Bridge(from, edge):
				// Bridges carry grounded movers at normal cost.
			case e.terrain.Ford(from, edge):
				cost += fordSurcharge
			default:
				return 0, false
			}
		}
	} else {
		// Corner rule for non-adjacent diagonals.
		a := hexgrid.OffsetCoord{I: from.I, J: to.J}
		b := hexgrid.OffsetCoord{I: to.I, J: from.J}
		if !e.topo.Contains(a) || !e.topo.Contains(b) {
			return 0, false
		}
		if e.waterCrossing(from, to) && !e.mover.CanSwim {
			return 0, false
		}
	}

	if e.terrain.Swamp(to) {
		cost *= swampFactor
	}
	return cost, true
}

// waterCrossing reports whether the step enters, leaves, or traverses water.
func (e *Engine) waterCrossing(from, to hexgrid.OffsetCoord) bool {
	return e.terrain.Water(from) || e.terrain.Water(to)
}
