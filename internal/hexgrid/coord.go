// Package hexgrid provides hex addressing for the realm map: string hex
// identifiers, offset (row/column) coordinates under the odd-column vertical
// layout, and cube coordinates for distance math.
package hexgrid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHexID reports a hex identifier that does not parse as "i.j".
var ErrInvalidHexID = errors.New("invalid hex id")

// Unreachable is the sentinel distance returned when one of the endpoints
// cannot be resolved (bad identifier, or no topology loaded yet).
const Unreachable = math.MaxInt

// OffsetCoord is a row/column address on the map grid. The grid uses the
// odd-column vertical offset layout: odd columns are shifted half a hex down.
type OffsetCoord struct {
	I int `json:"i"` // row
	J int `json:"j"` // column
}

// CubeCoord is a three-axis hex address with the invariant X+Y+Z == 0.
type CubeCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// ParseHexID parses a canonical "i.j" identifier into an offset coordinate.
// Leading zeros are tolerated; anything that is not exactly two dot-separated
// integers fails with ErrInvalidHexID.
func ParseHexID(s string) (OffsetCoord, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return OffsetCoord{}, fmt.Errorf("%w: %q", ErrInvalidHexID, s)
	}
	i, err := strconv.Atoi(parts[0])
	if err != nil {
		return OffsetCoord{}, fmt.Errorf("%w: row %q: %v", ErrInvalidHexID, parts[0], err)
	}
	j, err := strconv.Atoi(parts[1])
	if err != nil {
		return OffsetCoord{}, fmt.Errorf("%w: column %q: %v", ErrInvalidHexID, parts[1], err)
	}
	return OffsetCoord{I: i, J: j}, nil
}

// HexID formats the coordinate as its canonical "i.j" identifier.
func (c OffsetCoord) HexID() string {
	return strconv.Itoa(c.I) + "." + strconv.Itoa(c.J)
}

// NormalizeHexID canonicalizes an externally supplied identifier
// (strips leading zeros and sign noise). Idempotent.
func NormalizeHexID(s string) (string, error) {
	c, err := ParseHexID(s)
	if err != nil {
		return "", err
	}
	return c.HexID(), nil
}

// Cube converts the offset coordinate to cube coordinates under the
// odd-column layout. The conversion is exact integer arithmetic and
// round-trips losslessly with Offset.
func (c OffsetCoord) Cube() CubeCoord {
	x := c.J
	z := c.I - (c.J-(c.J&1))/2
	return CubeCoord{X: x, Y: -x - z, Z: z}
}

// Offset converts cube coordinates back to the odd-column offset address.
func (c CubeCoord) Offset() OffsetCoord {
	j := c.X
	i := c.Z + (c.X-(c.X&1))/2
	return OffsetCoord{I: i, J: j}
}

// Distance returns the cube distance between two cube coordinates:
// (|dx| + |dy| + |dz|) / 2.
func (c CubeCoord) Distance(o CubeCoord) int {
	return (abs(c.X-o.X) + abs(c.Y-o.Y) + abs(c.Z-o.Z)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
