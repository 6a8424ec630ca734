// Package water manages the lake, swamp, and crossing features layered on
// the realm map. Every mutation runs as one transaction against the kingdom
// store, so concurrent toggles from different surfaces queue instead of
// racing.
package water

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
)

// ToggleResult reports what a toggle actually did. Refused covers both a
// terrain-locked swamp that cannot be removed or displaced, and an edge
// already occupied by a different crossing kind.
type ToggleResult int

const (
	Added ToggleResult = iota
	Removed
	Refused
)

func (r ToggleResult) String() string {
	switch r {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Refused:
		return "refused"
	default:
		return "unknown"
	}
}

// CrossingKind identifies one of the per-edge feature collections.
type CrossingKind string

const (
	CrossingBridge    CrossingKind = "bridge"
	CrossingFord      CrossingKind = "ford"
	CrossingWaterfall CrossingKind = "waterfall"
)

// Service owns feature reads and toggles over one realm store.
type Service struct {
	store *kingdom.Store
}

// NewService wraps a kingdom store.
func NewService(store *kingdom.Store) *Service {
	return &Service{store: store}
}

// HasLake reports whether a lake feature exists on the hex.
func (s *Service) HasLake(i, j int) bool {
	return findHexFeature(s.store.Document().Water.Lakes, i, j) >= 0
}

// HasSwamp reports whether a swamp feature exists on the hex.
func (s *Service) HasSwamp(i, j int) bool {
	return findHexFeature(s.store.Document().Water.Swamps, i, j) >= 0
}

// EnsureSwampFeatures adds a swamp feature to every hex whose terrain
// attribute is swamp and that does not already carry one. Idempotent; the
// store is written only when something was added. Returns the number of
// features added.
func (s *Service) EnsureSwampFeatures() (int, error) {
	added := 0
	err := s.store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		for _, h := range d.Hexes {
			if h.Terrain != kingdom.TerrainSwamp {
				continue
			}
			if findHexFeature(d.Water.Swamps, h.Row, h.Col) >= 0 {
				continue
			}
			d.Water.Swamps = append(d.Water.Swamps, kingdom.HexFeature{
				ID:   uuid.NewString(),
				HexI: h.Row,
				HexJ: h.Col,
			})
			added++
		}
		return added > 0, nil
	})
	if err != nil {
		return 0, err
	}
	if added > 0 {
		slog.Info("swamp features regenerated from terrain", "added", added)
	}
	return added, nil
}

// ToggleLake adds or removes a lake on the hex. Adding a lake removes any
// swamp there (the two are mutually exclusive), except a terrain-locked
// swamp, which refuses the lake outright.
func (s *Service) ToggleLake(i, j int) (ToggleResult, error) {
	result := Refused
	err := s.store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		if idx := findHexFeature(d.Water.Lakes, i, j); idx >= 0 {
			d.Water.Lakes = removeHexFeature(d.Water.Lakes, idx)
			result = Removed
			return true, nil
		}
		// Swamp terrain pins its swamp feature: a lake can neither displace
		// it nor pre-empt its regeneration on load.
		if swampLocked(d, i, j) {
			result = Refused
			return false, nil
		}
		if idx := findHexFeature(d.Water.Swamps, i, j); idx >= 0 {
			d.Water.Swamps = removeHexFeature(d.Water.Swamps, idx)
		}
		d.Water.Lakes = append(d.Water.Lakes, kingdom.HexFeature{
			ID: uuid.NewString(), HexI: i, HexJ: j,
		})
		result = Added
		return true, nil
	})
	return result, err
}

// ToggleSwamp adds or removes a swamp on the hex. A swamp on swamp terrain
// is locked: removal is refused. Adding a swamp removes any lake there.
func (s *Service) ToggleSwamp(i, j int) (ToggleResult, error) {
	result := Refused
	err := s.store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		if idx := findHexFeature(d.Water.Swamps, i, j); idx >= 0 {
			if swampLocked(d, i, j) {
				result = Refused
				return false, nil
			}
			d.Water.Swamps = removeHexFeature(d.Water.Swamps, idx)
			result = Removed
			return true, nil
		}
		if idx := findHexFeature(d.Water.Lakes, i, j); idx >= 0 {
			d.Water.Lakes = removeHexFeature(d.Water.Lakes, idx)
		}
		d.Water.Swamps = append(d.Water.Swamps, kingdom.HexFeature{
			ID: uuid.NewString(), HexI: i, HexJ: j,
		})
		result = Added
		return true, nil
	})
	return result, err
}

// ToggleBridge adds or removes a bridge on the given hex edge.
func (s *Service) ToggleBridge(i, j, edge int) (ToggleResult, error) {
	return s.toggleCrossing(CrossingBridge, i, j, edge)
}

// ToggleFord adds or removes a ford on the given hex edge.
func (s *Service) ToggleFord(i, j, edge int) (ToggleResult, error) {
	return s.toggleCrossing(CrossingFord, i, j, edge)
}

// ToggleWaterfall adds or removes a waterfall on the given hex edge.
func (s *Service) ToggleWaterfall(i, j, edge int) (ToggleResult, error) {
	return s.toggleCrossing(CrossingWaterfall, i, j, edge)
}

// toggleCrossing flips one crossing kind on an edge. Crossing kinds are
// mutually exclusive per edge: adding onto an edge occupied by a different
// kind is refused, never a silent replace.
func (s *Service) toggleCrossing(kind CrossingKind, i, j, edge int) (ToggleResult, error) {
	result := Refused
	err := s.store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		own := crossingSlice(d, kind)
		if idx := findEdgeFeature(*own, i, j, edge); idx >= 0 {
			*own = removeEdgeFeature(*own, idx)
			result = Removed
			return true, nil
		}
		for _, other := range []CrossingKind{CrossingBridge, CrossingFord, CrossingWaterfall} {
			if other == kind {
				continue
			}
			if findEdgeFeature(*crossingSlice(d, other), i, j, edge) >= 0 {
				slog.Warn("crossing toggle refused, edge occupied",
					"kind", kind, "occupied_by", other, "hex", i, "col", j, "edge", edge)
				result = Refused
				return false, nil
			}
		}
		*own = append(*own, kingdom.EdgeFeature{
			ID: uuid.NewString(), HexI: i, HexJ: j, Edge: edge,
		})
		result = Added
		return true, nil
	})
	return result, err
}

// swampLocked reports whether the hex's terrain attribute pins a swamp
// feature in place.
func swampLocked(d *kingdom.Document, i, j int) bool {
	t, ok := d.TerrainAt(i, j)
	return ok && t == kingdom.TerrainSwamp
}

func crossingSlice(d *kingdom.Document, kind CrossingKind) *[]kingdom.EdgeFeature {
	switch kind {
	case CrossingBridge:
		return &d.Water.Bridges
	case CrossingFord:
		return &d.Water.Fords
	default:
		return &d.Water.Waterfalls
	}
}

func findHexFeature(feats []kingdom.HexFeature, i, j int) int {
	for idx, f := range feats {
		if f.HexI == i && f.HexJ == j {
			return idx
		}
	}
	return -1
}

func removeHexFeature(feats []kingdom.HexFeature, idx int) []kingdom.HexFeature {
	return append(feats[:idx:idx], feats[idx+1:]...)
}

func findEdgeFeature(feats []kingdom.EdgeFeature, i, j, edge int) int {
	for idx, f := range feats {
		if f.HexI == i && f.HexJ == j && f.Edge == edge {
			return idx
		}
	}
	return -1
}

func removeEdgeFeature(feats []kingdom.EdgeFeature, idx int) []kingdom.EdgeFeature {
	return append(feats[:idx:idx], feats[idx+1:]...)
}

// ---- read-side view used by the path engine ----

// Water reports whether the hex is water for movement purposes: water
// terrain, or a lake feature.
func (s *Service) Water(c hexgrid.OffsetCoord) bool {
	if t, ok := s.store.TerrainAt(c); ok && t.Water() {
		return true
	}
	return s.HasLake(c.I, c.J)
}

// Ocean reports whether the hex's terrain is open ocean.
func (s *Service) Ocean(c hexgrid.OffsetCoord) bool {
	t, ok := s.store.TerrainAt(c)
	return ok && t == kingdom.TerrainOcean
}

// Swamp reports whether the hex carries a swamp feature.
func (s *Service) Swamp(c hexgrid.OffsetCoord) bool {
	return s.HasSwamp(c.I, c.J)
}

// Bridge reports a bridge on the given edge of c, looking from either side
// of the shared physical edge.
func (s *Service) Bridge(c hexgrid.OffsetCoord, edge int) bool {
	return s.crossingAt(CrossingBridge, c, edge)
}

// Ford reports a ford on the given edge of c, from either side.
func (s *Service) Ford(c hexgrid.OffsetCoord, edge int) bool {
	return s.crossingAt(CrossingFord, c, edge)
}

// Waterfall reports a waterfall on the given edge of c, from either side.
func (s *Service) Waterfall(c hexgrid.OffsetCoord, edge int) bool {
	return s.crossingAt(CrossingWaterfall, c, edge)
}

func (s *Service) crossingAt(kind CrossingKind, c hexgrid.OffsetCoord, edge int) bool {
	d := s.store.Document()
	feats := *crossingSlice(d, kind)
	if findEdgeFeature(feats, c.I, c.J, edge) >= 0 {
		return true
	}
	// A feature recorded on the neighbor's side covers the same edge.
	n := hexgrid.NeighborAt(c, edge)
	return findEdgeFeature(feats, n.I, n.J, hexgrid.OppositeEdge(edge)) >= 0
}
