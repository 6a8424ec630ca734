// Package kingdom holds the persisted realm document: the hex terrain
// records and the water features layered on top of them. The document is
// stored in SQLite and mutated only through the store's transactional
// update primitive.
package kingdom

import "github.com/talgya/hexcrawl/internal/hexgrid"

// Terrain is the underlying terrain attribute of a hex, as persisted.
type Terrain string

const (
	TerrainPlains   Terrain = "plains"
	TerrainForest   Terrain = "forest"
	TerrainHills    Terrain = "hills"
	TerrainMountain Terrain = "mountain"
	TerrainSwamp    Terrain = "swamp"
	TerrainLake     Terrain = "lake"
	TerrainRiver    Terrain = "river"
	TerrainOcean    Terrain = "ocean"
)

// Water reports whether the terrain itself is a water body.
func (t Terrain) Water() bool {
	return t == TerrainLake || t == TerrainRiver || t == TerrainOcean
}

// HexRecord is one persisted map hex.
type HexRecord struct {
	Row     int     `db:"row" json:"row"`
	Col     int     `db:"col" json:"col"`
	Terrain Terrain `db:"terrain" json:"terrain"`
}

// Coord returns the hex's offset coordinate.
func (h HexRecord) Coord() hexgrid.OffsetCoord {
	return hexgrid.OffsetCoord{I: h.Row, J: h.Col}
}

// HexFeature is a water feature centered on a hex (lake or swamp).
type HexFeature struct {
	ID   string `db:"id" json:"id"`
	HexI int    `db:"hex_i" json:"hexI"`
	HexJ int    `db:"hex_j" json:"hexJ"`
}

// EdgeFeature is a crossing feature on one side of a hex
// (bridge, ford, or waterfall).
type EdgeFeature struct {
	ID   string `db:"id" json:"id"`
	HexI int    `db:"hex_i" json:"hexI"`
	HexJ int    `db:"hex_j" json:"hexJ"`
	Edge int    `db:"edge" json:"edgeIndex"`
}

// WaterFeatures groups every persisted water feature collection.
// At most one of lake/swamp may exist on a hex, and at most one crossing
// kind on a given (hex, edge) pair; the toggle operations enforce both.
type WaterFeatures struct {
	Lakes      []HexFeature  `json:"lakes"`
	Swamps     []HexFeature  `json:"swamps"`
	Bridges    []EdgeFeature `json:"bridges"`
	Fords      []EdgeFeature `json:"fords"`
	Waterfalls []EdgeFeature `json:"waterfalls"`
}

// Document is the complete persisted realm state.
type Document struct {
	Name  string        `json:"name"`
	Hexes []HexRecord   `json:"hexes"`
	Water WaterFeatures `json:"waterFeatures"`
}

// Clone returns a deep copy. Update transactions mutate a clone and swap it
// in only after the commit succeeds, so a failed write never leaves the
// in-memory document half-changed.
func (d *Document) Clone() *Document {
	out := &Document{Name: d.Name}
	out.Hexes = append([]HexRecord(nil), d.Hexes...)
	out.Water.Lakes = append([]HexFeature(nil), d.Water.Lakes...)
	out.Water.Swamps = append([]HexFeature(nil), d.Water.Swamps...)
	out.Water.Bridges = append([]EdgeFeature(nil), d.Water.Bridges...)
	out.Water.Fords = append([]EdgeFeature(nil), d.Water.Fords...)
	out.Water.Waterfalls = append([]EdgeFeature(nil), d.Water.Waterfalls...)
	return out
}

// TerrainAt returns the terrain attribute of the hex at (i, j).
// Linear scan; fine inside update transactions, the store keeps an index
// for hot-path reads.
func (d *Document) TerrainAt(i, j int) (Terrain, bool) {
	for _, h := range d.Hexes {
		if h.Row == i && h.Col == j {
			return h.Terrain, true
		}
	}
	return "", false
}
