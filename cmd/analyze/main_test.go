package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/parts"
	"github.com/tinkergarage/carworkshop/game/world"
)

func testCatalog(t *testing.T, defs []parts.Part) *parts.Catalog {
	t.Helper()
	catalog, err := parts.NewCatalog(defs, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return catalog
}

func TestAnalyzePartsConsistentCatalog(t *testing.T) {
	catalog := testCatalog(t, []parts.Part{
		{ID: 1, Provides: []parts.AttachmentPoint{{ID: "#a1"}, {ID: "#a2"}}},
		{ID: 82, Requires: []string{"#a1"}, Properties: parts.PartProperties{ElectricVolume: 2}},
		{ID: 133, Requires: []string{"#a2"}, Properties: parts.PartProperties{Acceleration: 3}},
		{ID: 152, Requires: []string{"#a1"}, Properties: parts.PartProperties{Brake: 5}},
		{ID: 2, JunkView: "junk_engine", MorphsTo: []parts.PartID{3}},
		{ID: 3, Master: 2, Requires: []string{"#a1"},
			Properties: parts.PartProperties{EngineType: 4, FuelConsumption: 4}},
		{ID: 153, JunkView: "junk_tires", Requires: []string{"#a2"},
			Properties: parts.PartProperties{Grip: 2}},
		{ID: 121, JunkView: "junk_tank", Requires: []string{"#a1"},
			Properties: parts.PartProperties{FuelVolume: 10}},
		{ID: 130, JunkView: "junk_wheel", Requires: []string{"#a2"},
			Properties: parts.PartProperties{Steering: 5}},
	})

	report := analyzeParts(catalog)

	if report.TotalParts != 9 {
		t.Errorf("TotalParts = %d, want 9", report.TotalParts)
	}
	if len(report.DanglingRequires) != 0 {
		t.Errorf("DanglingRequires = %v, want none", report.DanglingRequires)
	}
	if len(report.BrokenMorphs) != 0 {
		t.Errorf("BrokenMorphs = %v, want none", report.BrokenMorphs)
	}
	if len(report.MissingStarters) != 0 {
		t.Errorf("MissingStarters = %v, want none", report.MissingStarters)
	}
	if len(report.UncoverableStats) != 0 {
		t.Errorf("UncoverableStats = %v, want none", report.UncoverableStats)
	}
}

func TestAnalyzePartsFindsProblems(t *testing.T) {
	catalog := testCatalog(t, []parts.Part{
		{ID: 1, Provides: []parts.AttachmentPoint{{ID: "#a1"}}},
		// Requires a point nothing provides.
		{ID: 82, Requires: []string{"#zz"}},
		// Morphs into a part the catalog does not define.
		{ID: 2, JunkView: "junk_engine", MorphsTo: []parts.PartID{999}},
		// Child whose parent is missing.
		{ID: 60, Master: 777, Requires: []string{"#a1"}},
	})

	report := analyzeParts(catalog)

	if got := report.DanglingRequires[82]; len(got) != 1 || got[0] != "#zz" {
		t.Errorf("DanglingRequires[82] = %v, want [#zz]", got)
	}
	if got := report.BrokenMorphs[2]; len(got) != 1 || got[0] != 999 {
		t.Errorf("BrokenMorphs[2] = %v, want [999]", got)
	}
	if len(report.OrphanChildren) != 1 || report.OrphanChildren[0] != 60 {
		t.Errorf("OrphanChildren = %v, want [60]", report.OrphanChildren)
	}
	// Starters 133 and 152 are absent from this catalog.
	if len(report.MissingStarters) != 2 {
		t.Errorf("MissingStarters = %v, want two entries", report.MissingStarters)
	}
	// Nothing in this catalog contributes brake, steering, fuel, etc.
	if len(report.UncoverableStats) == 0 {
		t.Error("Expected uncoverable road-legal stats")
	}
}

func TestAnalyzeWorld(t *testing.T) {
	configDir := t.TempDir()
	topoDir := filepath.Join(configDir, "topology")
	if err := os.MkdirAll(topoDir, 0755); err != nil {
		t.Fatalf("Failed to create topology dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(topoDir, "t01.bin"), []byte{0, 0}, 0644); err != nil {
		t.Fatalf("Failed to write terrain: %v", err)
	}

	catalog := testCatalog(t, []parts.Part{
		{ID: 1}, {ID: 82}, {ID: 133}, {ID: 152}, {ID: 121},
	})

	wm := &world.WorldMap{
		Grid: [][]world.TileID{{1, 7}},
		Tiles: map[world.TileID]*world.MapTile{
			1: {ID: 1, Topology: "t01.bin", Objects: []world.MapObject{
				{ID: 900, Type: world.ObjectDestination, DirResource: "d_cabin",
					SetWhenDone: &world.SetWhenDone{Parts: []parts.PartID{121, 555, 0}}},
				{ID: 901, Type: world.ObjectDestination},
				{ID: 902, Type: world.ObjectGas},
			}},
			2: {ID: 2, Topology: "missing.bin"},
		},
	}

	report := analyzeWorld(wm, catalog, configDir)

	if report.Cols != 2 || report.Rows != 1 {
		t.Errorf("Grid = %dx%d, want 2x1", report.Cols, report.Rows)
	}
	if len(report.UndefinedTiles) != 1 || report.UndefinedTiles[0] != 7 {
		t.Errorf("UndefinedTiles = %v, want [7]", report.UndefinedTiles)
	}
	if len(report.SilentDestinations) != 1 || report.SilentDestinations[0] != 901 {
		t.Errorf("SilentDestinations = %v, want [901]", report.SilentDestinations)
	}
	// 555 is unknown; 121 exists and 0 means a random part.
	if got := report.UnknownRewardParts[900]; len(got) != 1 || got[0] != 555 {
		t.Errorf("UnknownRewardParts[900] = %v, want [555]", got)
	}
	if len(report.MissingTerrain) != 1 || report.MissingTerrain[0] != "missing.bin" {
		t.Errorf("MissingTerrain = %v, want [missing.bin]", report.MissingTerrain)
	}
	if report.Objects[world.ObjectDestination] != 2 || report.Objects[world.ObjectGas] != 1 {
		t.Errorf("Objects = %v, want 2 destinations and 1 gas", report.Objects)
	}
}
