package water

import (
	"path/filepath"
	"testing"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/kingdom"
)

// newTestService builds a service over a fresh store seeded with a small
// map: (5,5) is swamp terrain, everything else plains.
func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := kingdom.Open(filepath.Join(t.TempDir(), "realm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	err = store.UpdateDocument(func(d *kingdom.Document) (bool, error) {
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				terr := kingdom.TerrainPlains
				if i == 5 && j == 5 {
					terr = kingdom.TerrainSwamp
				}
				d.Hexes = append(d.Hexes, kingdom.HexRecord{Row: i, Col: j, Terrain: terr})
			}
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return NewService(store)
}

func TestToggleLakeAddRemove(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.ToggleLake(2, 3)
	if err != nil || res != Added {
		t.Fatalf("first toggle = %v, %v; want Added", res, err)
	}
	if !svc.HasLake(2, 3) {
		t.Error("lake missing after add")
	}

	res, err = svc.ToggleLake(2, 3)
	if err != nil || res != Removed {
		t.Fatalf("second toggle = %v, %v; want Removed", res, err)
	}
	if svc.HasLake(2, 3) {
		t.Error("lake present after remove")
	}
}

func TestLakeSwampMutualExclusion(t *testing.T) {
	svc := newTestService(t)

	if res, _ := svc.ToggleSwamp(2, 3); res != Added {
		t.Fatalf("swamp toggle = %v, want Added", res)
	}
	if res, _ := svc.ToggleLake(2, 3); res != Added {
		t.Fatalf("lake toggle = %v, want Added", res)
	}
	if svc.HasSwamp(2, 3) {
		t.Error("swamp must be displaced by the lake")
	}
	if !svc.HasLake(2, 3) {
		t.Error("lake missing")
	}

	// And the other way around.
	if res, _ := svc.ToggleSwamp(2, 3); res != Added {
		t.Fatal("swamp should displace the lake")
	}
	if svc.HasLake(2, 3) {
		t.Error("lake must be displaced by the swamp")
	}
}

func TestTerrainLockedSwamp(t *testing.T) {
	svc := newTestService(t)

	added, err := svc.EnsureSwampFeatures()
	if err != nil {
		t.Fatalf("EnsureSwampFeatures: %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1 (only hex 5.5 has swamp terrain)", added)
	}
	if !svc.HasSwamp(5, 5) {
		t.Fatal("swamp feature missing on swamp terrain")
	}

	// Locked: removal refused, feature stays.
	if res, err := svc.ToggleSwamp(5, 5); err != nil || res != Refused {
		t.Errorf("ToggleSwamp on locked hex = %v, %v; want Refused", res, err)
	}
	if !svc.HasSwamp(5, 5) {
		t.Error("locked swamp was removed")
	}

	// A lake may not displace a terrain-locked swamp either.
	if res, err := svc.ToggleLake(5, 5); err != nil || res != Refused {
		t.Errorf("ToggleLake on locked hex = %v, %v; want Refused", res, err)
	}
	if svc.HasLake(5, 5) || !svc.HasSwamp(5, 5) {
		t.Error("lake displaced a locked swamp")
	}
}

func TestLakeRefusedOnSwampTerrainBeforeEnsure(t *testing.T) {
	svc := newTestService(t)

	// Even before the swamp feature is regenerated, swamp terrain refuses
	// a lake; otherwise the next EnsureSwampFeatures would break exclusion.
	if res, err := svc.ToggleLake(5, 5); err != nil || res != Refused {
		t.Errorf("ToggleLake on swamp terrain = %v, %v; want Refused", res, err)
	}
	if svc.HasLake(5, 5) {
		t.Error("lake must not exist on swamp terrain")
	}
}

func TestEnsureSwampFeaturesIdempotent(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.EnsureSwampFeatures(); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	firstID := svc.store.Document().Water.Swamps[0].ID

	added, err := svc.EnsureSwampFeatures()
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if added != 0 {
		t.Errorf("second ensure added %d features, want 0", added)
	}
	swamps := svc.store.Document().Water.Swamps
	if len(swamps) != 1 || swamps[0].ID != firstID {
		t.Error("second ensure must not rewrite existing features")
	}
}

func TestToggleCrossingAddRemove(t *testing.T) {
	svc := newTestService(t)

	if res, _ := svc.ToggleBridge(2, 2, 0); res != Added {
		t.Fatalf("bridge toggle = %v, want Added", res)
	}
	if res, _ := svc.ToggleBridge(2, 2, 0); res != Removed {
		t.Fatalf("bridge re-toggle = %v, want Removed", res)
	}
}

func TestCrossingKindsExclusivePerEdge(t *testing.T) {
	svc := newTestService(t)

	if res, _ := svc.ToggleBridge(2, 2, 1); res != Added {
		t.Fatal("bridge add failed")
	}
	if res, _ := svc.ToggleFord(2, 2, 1); res != Refused {
		t.Error("ford on a bridged edge must be refused")
	}
	if res, _ := svc.ToggleWaterfall(2, 2, 1); res != Refused {
		t.Error("waterfall on a bridged edge must be refused")
	}
	// The bridge survived the refusals.
	if !svc.Bridge(hexgrid.OffsetCoord{I: 2, J: 2}, 1) {
		t.Error("bridge lost after refused toggles")
	}
	// Other edges stay independent.
	if res, _ := svc.ToggleFord(2, 2, 4); res != Added {
		t.Error("ford on a free edge should be added")
	}
}

func TestCrossingMirroredLookup(t *testing.T) {
	svc := newTestService(t)

	c := hexgrid.OffsetCoord{I: 2, J: 2}
	if res, _ := svc.ToggleBridge(c.I, c.J, hexgrid.EdgeN); res != Added {
		t.Fatal("bridge add failed")
	}

	n := hexgrid.NeighborAt(c, hexgrid.EdgeN)
	if !svc.Bridge(n, hexgrid.OppositeEdge(hexgrid.EdgeN)) {
		t.Error("bridge not visible from the neighboring hex's side")
	}
}

func TestTerrainViewReads(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.ToggleLake(3, 3); err != nil {
		t.Fatal(err)
	}
	if !svc.Water(hexgrid.OffsetCoord{I: 3, J: 3}) {
		t.Error("lake hex should read as water")
	}
	if svc.Water(hexgrid.OffsetCoord{I: 0, J: 0}) {
		t.Error("plains hex should not read as water")
	}
	if svc.Ocean(hexgrid.OffsetCoord{I: 0, J: 0}) {
		t.Error("plains hex should not read as ocean")
	}
}
