package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const testPartsJSON = `{
	"name": "test catalog",
	"parts": [
		{"part_id": 1, "description": "chassis",
		 "provides": [{"id": "#a1", "offset": {"x": 10, "y": 20}}]},
		{"part_id": 82, "description": "battery", "requires": ["#a1"],
		 "properties": {"Weight": 2, "electric_volume": 2}}
	]
}`

const testWorldJSON = `{
	"grid": [[1, 2]],
	"tiles": [
		{"id": 1, "map_image": "m01", "topology": "t01.bin"},
		{"id": 2, "map_image": "m02", "topology": "missing.bin"}
	],
	"start_col": 0, "start_row": 0,
	"start_x": 320, "start_y": 200, "start_direction": 16
}`

func writeTestConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "parts.json"), []byte(testPartsJSON), 0644); err != nil {
		t.Fatalf("Failed to write parts.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "world.json"), []byte(testWorldJSON), 0644); err != nil {
		t.Fatalf("Failed to write world.json: %v", err)
	}

	topoDir := filepath.Join(dir, "topology")
	if err := os.MkdirAll(topoDir, 0755); err != nil {
		t.Fatalf("Failed to create topology dir: %v", err)
	}
	// Short buffers are padded with open ground on load.
	terrain := []byte{240, 32, 16, 0}
	if err := os.WriteFile(filepath.Join(topoDir, "t01.bin"), terrain, 0644); err != nil {
		t.Fatalf("Failed to write terrain: %v", err)
	}

	return dir
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(writeTestConfigDir(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return m
}

func TestNewManagerMissingDir(t *testing.T) {
	if _, err := NewManager("/definitely/not/here", zerolog.Nop()); err == nil {
		t.Error("Expected error for missing config directory")
	}
}

func TestManagerCatalog(t *testing.T) {
	m := newTestManager(t)

	catalog, err := m.Catalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Errorf("Expected 2 parts, got %d", catalog.Len())
	}
	if catalog.Get(82) == nil {
		t.Error("Expected part 82 in catalog")
	}

	// Second call returns the cached catalog.
	again, err := m.Catalog()
	if err != nil {
		t.Fatalf("Failed on cached load: %v", err)
	}
	if again != catalog {
		t.Error("Expected cached catalog instance")
	}
}

func TestManagerWorld(t *testing.T) {
	m := newTestManager(t)

	wm, err := m.World()
	if err != nil {
		t.Fatalf("Failed to load world: %v", err)
	}
	if wm.Cols() != 2 || wm.Rows() != 1 {
		t.Errorf("Grid = %dx%d, want 2x1", wm.Cols(), wm.Rows())
	}
	if wm.StartDirection != 16 {
		t.Errorf("StartDirection = %d, want 16", wm.StartDirection)
	}

	again, _ := m.World()
	if again != wm {
		t.Error("Expected cached world instance")
	}
}

func TestManagerTopology(t *testing.T) {
	m := newTestManager(t)

	topo := m.Topology("t01.bin")
	if got := topo.At(0, 0); got != 240 {
		t.Errorf("terrain(0,0) = %d, want 240", got)
	}
	if got := topo.At(1, 0); got != 32 {
		t.Errorf("terrain(1,0) = %d, want 32", got)
	}
	// Beyond the short file the buffer is padded open.
	if got := topo.At(10, 10); got != 0 {
		t.Errorf("padded terrain = %d, want 0", got)
	}

	if m.Topology("t01.bin") != topo {
		t.Error("Expected cached topology instance")
	}
}

func TestManagerTopologyFallsBackToOpenGround(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"missing.bin", "", "../escape.bin"} {
		topo := m.Topology(name)
		if topo == nil {
			t.Fatalf("Topology(%q) returned nil", name)
		}
		if got := topo.At(5, 5); got != 0 {
			t.Errorf("Topology(%q) terrain = %d, want open ground", name, got)
		}
	}
}

func TestManagerAssets(t *testing.T) {
	dir := writeTestConfigDir(t)
	manifest := `[
		{"name": "use_brake", "width": 40, "height": 30, "reg_x": 20, "reg_y": 15},
		{"name": "bogus", "width": 0, "height": 10}
	]`
	if err := os.WriteFile(filepath.Join(dir, "assets.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("Failed to write assets.json: %v", err)
	}

	m, err := NewManager(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	assets := m.Assets()
	bmp, ok := assets.BitmapByName("use_brake")
	if !ok {
		t.Fatal("Expected use_brake bitmap from manifest")
	}
	if bmp.Width != 40 || bmp.Height != 30 || bmp.RegX != 20 || bmp.RegY != 15 {
		t.Errorf("Bitmap = %+v, want 40x30 reg (20,15)", bmp)
	}
	// Placeholder bitmaps are fully opaque.
	if !bmp.OpaqueAt(0, 0) || !bmp.OpaqueAt(39, 29) {
		t.Error("Placeholder bitmap should be opaque everywhere")
	}
	if _, ok := assets.BitmapByName("bogus"); ok {
		t.Error("Zero-width manifest entries must be dropped")
	}
}

func TestManagerAssetsMissingManifest(t *testing.T) {
	m := newTestManager(t)

	assets := m.Assets()
	if assets == nil {
		t.Fatal("Assets() must not return nil without a manifest")
	}
	if _, ok := assets.BitmapByName("anything"); ok {
		t.Error("Expected empty resolver without a manifest")
	}
}

func TestManagerRefreshCache(t *testing.T) {
	dir := writeTestConfigDir(t)
	m, err := NewManager(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	first, _ := m.Catalog()
	m.RefreshCache()
	second, err := m.Catalog()
	if err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}
	if first == second {
		t.Error("Expected a fresh catalog after RefreshCache")
	}
}

func TestManagerMissingFiles(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := m.Catalog(); err == nil {
		t.Error("Expected error for missing parts.json")
	}
	if _, err := m.World(); err == nil {
		t.Error("Expected error for missing world.json")
	}
}
