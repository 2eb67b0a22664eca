package world

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

func testWorldJSON() []byte {
	return []byte(`{
		"grid": [[1, 2], [3, 4]],
		"start_col": 0, "start_row": 0,
		"start_x": 320, "start_y": 200, "start_direction": 16,
		"tiles": [
			{"id": 1, "map_image": "30b001v0", "topology": "30t001v0", "objects": [
				{"id": 100, "type": "gas", "x": 320, "y": 240,
				 "inner_radius": 30, "outer_radius": 60, "enabled": true,
				 "approach_sound": "31e005v0"},
				{"id": 101, "type": "random_destination", "x": 100, "y": 100,
				 "inner_radius": 20, "outer_radius": 40, "enabled": true,
				 "destination_id": 7, "dir_resource": "84"}
			]},
			{"id": 2, "map_image": "30b002v0", "topology": "30t002v0", "objects": [
				{"id": 200, "type": "destination", "x": 400, "y": 300,
				 "inner_radius": 25, "outer_radius": 50, "enabled": true,
				 "dir_resource": "92",
				 "gate": {"cache_flags": ["#PostCard"], "policy": "object"},
				 "set_when_done": {"cache_flags": ["#PostCard"], "parts": [0], "missions": [3]}},
				{"id": 201, "type": "random_destination", "x": 150, "y": 220,
				 "inner_radius": 20, "outer_radius": 40, "enabled": true,
				 "destination_id": 7, "dir_resource": "84"}
			]},
			{"id": 3, "map_image": "30b003v0", "topology": "30t003v0"},
			{"id": 4, "map_image": "30b004v0", "topology": "30t004v0", "objects": [
				{"id": 400, "type": "random_destination", "x": 500, "y": 150,
				 "inner_radius": 20, "outer_radius": 40, "enabled": true,
				 "destination_id": 7, "dir_resource": "84"}
			]}
		]
	}`)
}

func testWorld(t *testing.T) *WorldMap {
	t.Helper()
	wm, err := LoadWorldMap(testWorldJSON(), zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadWorldMap failed: %v", err)
	}
	return wm
}

func TestLoadWorldMap(t *testing.T) {
	wm := testWorld(t)

	if wm.Cols() != 2 || wm.Rows() != 2 {
		t.Errorf("grid = %dx%d, want 2x2", wm.Cols(), wm.Rows())
	}
	if tile := wm.TileAt(1, 0); tile == nil || tile.ID != 2 {
		t.Errorf("TileAt(1, 0) = %v, want tile 2", tile)
	}
	if tile := wm.TileAt(5, 5); tile != nil {
		t.Errorf("TileAt outside grid = %v, want nil", tile)
	}
	if wm.StartDirection != 16 {
		t.Errorf("StartDirection = %d, want 16", wm.StartDirection)
	}
}

func TestLoadWorldMapRejectsBadGrids(t *testing.T) {
	if _, err := LoadWorldMap([]byte(`{"grid": [], "tiles": []}`), zerolog.Nop()); err != ErrEmptyGrid {
		t.Errorf("empty grid: got %v, want ErrEmptyGrid", err)
	}
	if _, err := LoadWorldMap([]byte(`{"grid": [[1],[1,1]], "tiles": [{"id":1}]}`), zerolog.Nop()); err != ErrRaggedGrid {
		t.Errorf("ragged grid: got %v, want ErrRaggedGrid", err)
	}
	if _, err := LoadWorldMap([]byte(`{"grid": [[9]], "tiles": [{"id":1}]}`), zerolog.Nop()); err == nil {
		t.Error("missing tile: got nil error")
	}
}

func TestGateDisablesObject(t *testing.T) {
	wm := testWorld(t)

	objects := wm.ObjectsAt(1, 0, []string{"#PostCard"}, nil)
	for _, obj := range objects {
		if obj.ID == 200 && obj.Enabled {
			t.Error("gated destination should be disabled once the flag is earned")
		}
	}

	// Without the flag the object stays enabled, and the catalog itself is
	// never mutated.
	objects = wm.ObjectsAt(1, 0, nil, nil)
	for _, obj := range objects {
		if obj.ID == 200 && !obj.Enabled {
			t.Error("ungated destination should stay enabled")
		}
	}
	if obj := wm.FindObject(200); obj == nil || !obj.Enabled {
		t.Error("ObjectsAt must not mutate the tile catalog")
	}
}

func TestGateSoundPolicy(t *testing.T) {
	obj := MapObject{
		ID: 1, Type: ObjectGas, Enabled: true, ApproachSound: "31e005v0",
		Gate: &Gate{Medals: []string{"racing"}, Policy: DisableSound},
	}

	obj.ApplyGate(nil, []string{"racing"})
	if !obj.Enabled {
		t.Error("sound policy must not disable the object")
	}
	if obj.ApproachSound != "" {
		t.Error("sound policy should clear the approach sound")
	}
}

func TestRandomDestinationDeDup(t *testing.T) {
	wm := testWorld(t)
	wm.ApplyRandomDestinations(rand.New(rand.NewSource(42)))

	enabled := 0
	for _, id := range []uint32{101, 201, 400} {
		if wm.FindObject(id).Enabled {
			enabled++
		}
	}
	if enabled != 1 {
		t.Errorf("enabled random destinations = %d, want exactly 1", enabled)
	}

	// Same seed, same placement.
	wm2 := testWorld(t)
	wm2.ApplyRandomDestinations(rand.New(rand.NewSource(42)))
	for _, id := range []uint32{101, 201, 400} {
		if wm.FindObject(id).Enabled != wm2.FindObject(id).Enabled {
			t.Fatal("same seed should produce the same placement")
		}
	}
}

func TestRandomDestinationSeedStability(t *testing.T) {
	// Two groups spread over three tiles: the draw order must not depend
	// on map iteration order, only on sorted tile and group keys.
	data := []byte(`{
		"grid": [[1, 2, 3]],
		"tiles": [
			{"id": 1, "objects": [
				{"id": 11, "type": "random_destination", "destination_id": 1,
				 "enabled": true, "dir_resource": "84"},
				{"id": 21, "type": "random_destination", "destination_id": 2,
				 "enabled": true, "dir_resource": "85"}
			]},
			{"id": 2, "objects": [
				{"id": 12, "type": "random_destination", "destination_id": 1,
				 "enabled": true, "dir_resource": "84"},
				{"id": 22, "type": "random_destination", "destination_id": 2,
				 "enabled": true, "dir_resource": "85"}
			]},
			{"id": 3, "objects": [
				{"id": 13, "type": "random_destination", "destination_id": 1,
				 "enabled": true, "dir_resource": "84"}
			]}
		]
	}`)

	load := func() *WorldMap {
		wm, err := LoadWorldMap(data, zerolog.Nop())
		if err != nil {
			t.Fatalf("LoadWorldMap failed: %v", err)
		}
		return wm
	}

	for seed := int64(0); seed < 5; seed++ {
		a, b := load(), load()
		a.ApplyRandomDestinations(rand.New(rand.NewSource(seed)))
		b.ApplyRandomDestinations(rand.New(rand.NewSource(seed)))
		for _, id := range []uint32{11, 12, 13, 21, 22} {
			if a.FindObject(id).Enabled != b.FindObject(id).Enabled {
				t.Fatalf("seed %d: object %d placement differs between runs", seed, id)
			}
		}
	}
}

func TestTopologySampling(t *testing.T) {
	topo := NewTopology(4, 2, []byte{0, 1, 2, 3, 4, 5, 6, 7})

	if v := topo.At(2, 1); v != 6 {
		t.Errorf("At(2,1) = %d, want 6", v)
	}
	// Out-of-range coordinates clamp to the edge.
	if v := topo.At(-5, 0); v != 0 {
		t.Errorf("At(-5,0) = %d, want 0", v)
	}
	if v := topo.At(100, 100); v != 7 {
		t.Errorf("At(100,100) = %d, want 7", v)
	}

	short := NewTopology(4, 2, []byte{9})
	if v := short.At(3, 1); v != 0 {
		t.Errorf("short buffer should pad with open ground, got %d", v)
	}
}
