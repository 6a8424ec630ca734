package hexgrid

import "math"

// EdgeCount is the number of sides of a hex.
const EdgeCount = 6

// Point is a pixel-space position (y grows downward, as on the map canvas).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge indices for flat-top hexes, clockwise from the top edge.
const (
	EdgeN = iota
	EdgeNE
	EdgeSE
	EdgeS
	EdgeSW
	EdgeNW
)

// edgeDirections maps edge index to the cube-space step across that edge.
// Order matches the Edge* constants.
var edgeDirections = [EdgeCount]CubeCoord{
	{X: 0, Y: 1, Z: -1},  // N
	{X: 1, Y: 0, Z: -1},  // NE
	{X: 1, Y: -1, Z: 0},  // SE
	{X: 0, Y: -1, Z: 1},  // S
	{X: -1, Y: 0, Z: 1},  // SW
	{X: -1, Y: 1, Z: 0},  // NW
}

// NeighborAt returns the coordinate across the given edge of c.
func NeighborAt(c OffsetCoord, edge int) OffsetCoord {
	cu := c.Cube()
	d := edgeDirections[edge%EdgeCount]
	return CubeCoord{X: cu.X + d.X, Y: cu.Y + d.Y, Z: cu.Z + d.Z}.Offset()
}

// EdgeToward returns the edge index of a that faces b, or false if the two
// hexes are not adjacent.
func EdgeToward(a, b OffsetCoord) (int, bool) {
	ca, cb := a.Cube(), b.Cube()
	d := CubeCoord{X: cb.X - ca.X, Y: cb.Y - ca.Y, Z: cb.Z - ca.Z}
	for k, dir := range edgeDirections {
		if d == dir {
			return k, true
		}
	}
	return 0, false
}

// OppositeEdge returns the edge index of the same physical edge as seen from
// the neighboring hex.
func OppositeEdge(edge int) int {
	return (edge + 3) % EdgeCount
}

// Topology exposes the hosting map's grid: membership and pixel geometry.
// Injected into consumers so the core runs without a live rendering
// environment.
type Topology interface {
	Contains(c OffsetCoord) bool
	Center(c OffsetCoord) (Point, bool)
	EdgeMidpoints(c OffsetCoord) ([EdgeCount]Point, bool)
}

// Grid is a rectangular flat-top hex grid under the odd-column vertical
// layout: rows*cols hexes, odd columns shifted half a hex down.
type Grid struct {
	Rows    int
	Cols    int
	HexSize float64 // circumradius in pixels
}

// NewGrid creates a grid of the given dimensions with a default hex size.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, HexSize: 100}
}

// Contains reports whether the coordinate lies on the grid.
func (g *Grid) Contains(c OffsetCoord) bool {
	return c.I >= 0 && c.I < g.Rows && c.J >= 0 && c.J < g.Cols
}

// Center returns the pixel center of the hex, or false if off-grid.
func (g *Grid) Center(c OffsetCoord) (Point, bool) {
	if !g.Contains(c) {
		return Point{}, false
	}
	s := g.HexSize
	x := s * 1.5 * float64(c.J)
	y := s * math.Sqrt(3) * (float64(c.I) + 0.5*float64(c.J&1))
	return Point{X: x, Y: y}, true
}

// EdgeMidpoints returns the six edge midpoints of the hex in edge-index
// order (N, NE, SE, S, SW, NW), or false if off-grid.
func (g *Grid) EdgeMidpoints(c OffsetCoord) ([EdgeCount]Point, bool) {
	var pts [EdgeCount]Point
	center, ok := g.Center(c)
	if !ok {
		return pts, false
	}
	// Flat-top edge midpoints sit at the apothem, starting straight up
	// (y down, so 270 degrees) and stepping 60 degrees clockwise.
	apothem := g.HexSize * math.Sqrt(3) / 2
	for k := 0; k < EdgeCount; k++ {
		angle := (270 + 60*float64(k)) * math.Pi / 180
		pts[k] = Point{
			X: center.X + apothem*math.Cos(angle),
			Y: center.Y + apothem*math.Sin(angle),
		}
	}
	return pts, true
}

// HexDistance returns the cube distance between two hex identifiers, or
// Unreachable if either fails to parse. Degraded mode, not an error: this
// can run before any map is loaded.
func HexDistance(a, b string) int {
	ca, err := ParseHexID(a)
	if err != nil {
		return Unreachable
	}
	cb, err := ParseHexID(b)
	if err != nil {
		return Unreachable
	}
	return ca.Cube().Distance(cb.Cube())
}

// NeighborHexIDs returns the identifiers of the on-grid hexes adjacent to
// the given one, in edge-index order. An unknown id, a nil topology, or an
// off-grid hex yields an empty slice rather than an error.
func NeighborHexIDs(topo Topology, id string) []string {
	c, err := ParseHexID(id)
	if err != nil || topo == nil || !topo.Contains(c) {
		return nil
	}
	out := make([]string, 0, EdgeCount)
	for k := 0; k < EdgeCount; k++ {
		n := NeighborAt(c, k)
		if topo.Contains(n) {
			out = append(out, n.HexID())
		}
	}
	return out
}
