// Package worldgen produces the realm's hex terrain records from layered
// simplex noise: elevation and rainfall maps drive terrain derivation, a
// coastal falloff keeps the map edges as ocean, and a few rivers are traced
// downhill from the highlands. Deterministic for a fixed seed.
package worldgen

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
)

// Config holds realm generation parameters.
type Config struct {
	Rows        int
	Cols        int
	Seed        int64   // 0 = random
	SeaLevel    float64 // elevation threshold for ocean
	MountainLvl float64 // elevation threshold for mountains
}

// DefaultConfig returns a mid-sized realm.
func DefaultConfig() Config {
	return Config{
		Rows:        30,
		Cols:        40,
		SeaLevel:    0.22,
		MountainLvl: 0.74,
	}
}

// SmallTestConfig returns a tiny realm for tests.
func SmallTestConfig() Config {
	return Config{
		Rows:        8,
		Cols:        8,
		Seed:        42,
		SeaLevel:    0.25,
		MountainLvl: 0.78,
	}
}

// Generate creates terrain records for every hex of a Rows x Cols grid
// under the odd-column layout.
func Generate(cfg Config) []kingdom.HexRecord {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)

	elevation := make(map[hexgrid.OffsetCoord]float64, cfg.Rows*cfg.Cols)
	records := make([]kingdom.HexRecord, 0, cfg.Rows*cfg.Cols)

	for i := 0; i < cfg.Rows; i++ {
		for j := 0; j < cfg.Cols; j++ {
			// Hex center in continuous space for noise sampling.
			x := 1.5 * float64(j)
			y := math.Sqrt(3) * (float64(i) + 0.5*float64(j&1))

			elev := octaveNoise(elevNoise, x, y, 4, 0.05, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.04, 0.5)

			// Push elevation down toward the map border so the realm is
			// ringed by ocean.
			nx := 2*float64(j)/float64(cfg.Cols-1) - 1
			ny := 2*float64(i)/float64(cfg.Rows-1) - 1
			edge := math.Max(math.Abs(nx), math.Abs(ny))
			elev *= 1 - math.Pow(edge, 4)

			coord := hexgrid.OffsetCoord{I: i, J: j}
			elevation[coord] = elev
			records = append(records, kingdom.HexRecord{
				Row:     i,
				Col:     j,
				Terrain: deriveTerrain(elev, rain, cfg),
			})
		}
	}

	placeRivers(records, elevation, cfg, seed)
	return records
}

func deriveTerrain(elev, rain float64, cfg Config) kingdom.Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return kingdom.TerrainOcean
	case elev > cfg.MountainLvl:
		return kingdom.TerrainMountain
	case rain > 0.68 && elev < 0.42:
		return kingdom.TerrainSwamp
	case rain > 0.45 && elev > 0.45:
		return kingdom.TerrainForest
	case elev > 0.58:
		return kingdom.TerrainHills
	default:
		return kingdom.TerrainPlains
	}
}

// placeRivers traces a handful of rivers from high ground downhill to the
// ocean, rewriting the hexes they pass through.
func placeRivers(records []kingdom.HexRecord, elevation map[hexgrid.OffsetCoord]float64, cfg Config, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	index := make(map[hexgrid.OffsetCoord]int, len(records))
	var sources []hexgrid.OffsetCoord
	for idx, h := range records {
		index[h.Coord()] = idx
		if elevation[h.Coord()] > 0.62 && h.Terrain != kingdom.TerrainOcean {
			sources = append(sources, h.Coord())
		}
	}

	numRivers := len(sources) / 8
	if numRivers < 2 {
		numRivers = 2
	}
	if numRivers > 8 {
		numRivers = 8
	}
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > numRivers {
		sources = sources[:numRivers]
	}

	for _, start := range sources {
		current := start
		visited := map[hexgrid.OffsetCoord]bool{}
		for step := 0; step < 60; step++ {
			visited[current] = true
			idx, ok := index[current]
			if !ok || records[idx].Terrain == kingdom.TerrainOcean {
				break
			}
			if records[idx].Terrain != kingdom.TerrainMountain {
				records[idx].Terrain = kingdom.TerrainRiver
			}

			// Steepest descent among the six hex neighbors.
			var next *hexgrid.OffsetCoord
			bestElev := elevation[current]
			for k := 0; k < hexgrid.EdgeCount; k++ {
				n := hexgrid.NeighborAt(current, k)
				if visited[n] {
					continue
				}
				if _, onGrid := index[n]; !onGrid {
					continue
				}
				if elevation[n] < bestElev {
					bestElev = elevation[n]
					candidate := n
					next = &candidate
				}
			}
			if next == nil {
				break
			}
			current = *next
		}
	}
}

// octaveNoise layers multiple noise frequencies into fractal terrain.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
