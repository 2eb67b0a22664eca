package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyGrid   = errors.New("world map has no grid")
	ErrRaggedGrid  = errors.New("world map grid rows differ in length")
	ErrMissingTile = errors.New("grid references a tile not in the catalog")
)

// TileID identifies a map tile.
type TileID uint32

// MapTile is one screen of the driving world.
type MapTile struct {
	ID       TileID      `json:"id"`
	MapImage string      `json:"map_image"`
	Topology string      `json:"topology"`
	Objects  []MapObject `json:"objects,omitempty"`
}

// WorldMap is the static driving world. The grid and tile catalog never
// change after load; only object enabled flags do.
type WorldMap struct {
	Grid  [][]TileID          `json:"grid"`
	Tiles map[TileID]*MapTile `json:"-"`

	StartCol       int     `json:"start_col"`
	StartRow       int     `json:"start_row"`
	StartX         float64 `json:"start_x"`
	StartY         float64 `json:"start_y"`
	StartDirection int     `json:"start_direction"`

	logger zerolog.Logger
}

type worldFile struct {
	Grid           [][]TileID `json:"grid"`
	Tiles          []MapTile  `json:"tiles"`
	StartCol       int        `json:"start_col"`
	StartRow       int        `json:"start_row"`
	StartX         float64    `json:"start_x"`
	StartY         float64    `json:"start_y"`
	StartDirection int        `json:"start_direction"`
}

// LoadWorldMap decodes a world map from JSON and validates that every grid
// cell resolves to a known tile.
func LoadWorldMap(data []byte, logger zerolog.Logger) (*WorldMap, error) {
	var file worldFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode world map: %w", err)
	}
	if len(file.Grid) == 0 || len(file.Grid[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(file.Grid[0])
	for _, row := range file.Grid {
		if len(row) != width {
			return nil, ErrRaggedGrid
		}
	}

	wm := &WorldMap{
		Grid:           file.Grid,
		Tiles:          make(map[TileID]*MapTile, len(file.Tiles)),
		StartCol:       file.StartCol,
		StartRow:       file.StartRow,
		StartX:         file.StartX,
		StartY:         file.StartY,
		StartDirection: file.StartDirection,
		logger:         logger,
	}
	for i := range file.Tiles {
		t := &file.Tiles[i]
		wm.Tiles[t.ID] = t
	}
	for _, row := range wm.Grid {
		for _, id := range row {
			if _, ok := wm.Tiles[id]; !ok {
				return nil, fmt.Errorf("%w: %d", ErrMissingTile, id)
			}
		}
	}

	logger.Info().Int("tiles", len(wm.Tiles)).
		Int("cols", wm.Cols()).Int("rows", wm.Rows()).
		Msg("world map loaded")
	return wm, nil
}

// Cols returns the grid width in tiles.
func (wm *WorldMap) Cols() int {
	if len(wm.Grid) == 0 {
		return 0
	}
	return len(wm.Grid[0])
}

// Rows returns the grid height in tiles.
func (wm *WorldMap) Rows() int {
	return len(wm.Grid)
}

// TileAt returns the tile at a grid position, or nil outside the grid.
func (wm *WorldMap) TileAt(col, row int) *MapTile {
	if row < 0 || row >= len(wm.Grid) || col < 0 || col >= len(wm.Grid[row]) {
		return nil
	}
	return wm.Tiles[wm.Grid[row][col]]
}

// Tile returns a tile by ID, or nil.
func (wm *WorldMap) Tile(id TileID) *MapTile {
	return wm.Tiles[id]
}

// ObjectsAt returns a copy of the object list at a grid position with the
// given gates applied. The copy is the per-frame working set; the catalog
// stays untouched.
func (wm *WorldMap) ObjectsAt(col, row int, cacheFlags, medals []string) []MapObject {
	tile := wm.TileAt(col, row)
	if tile == nil {
		return nil
	}
	objects := make([]MapObject, len(tile.Objects))
	copy(objects, tile.Objects)
	for i := range objects {
		objects[i].ApplyGate(cacheFlags, medals)
	}
	return objects
}

// FindObject returns the object with the given ID anywhere on the map.
func (wm *WorldMap) FindObject(id uint32) *MapObject {
	for _, tile := range wm.Tiles {
		for i := range tile.Objects {
			if tile.Objects[i].ID == id {
				return &tile.Objects[i]
			}
		}
	}
	return nil
}

// ApplyRandomDestinations keeps exactly one enabled instance per
// random-destination group and disables the rest. The choice is driven by
// the supplied RNG so a game seed reproduces the same world; grouping and
// drawing iterate in sorted key order to keep the draw sequence stable.
func (wm *WorldMap) ApplyRandomDestinations(rng *rand.Rand) {
	tileIDs := make([]TileID, 0, len(wm.Tiles))
	for id := range wm.Tiles {
		tileIDs = append(tileIDs, id)
	}
	sort.Slice(tileIDs, func(i, j int) bool { return tileIDs[i] < tileIDs[j] })

	groups := make(map[uint32][]*MapObject)
	var destIDs []uint32
	for _, id := range tileIDs {
		tile := wm.Tiles[id]
		for i := range tile.Objects {
			obj := &tile.Objects[i]
			if obj.Type == ObjectRandomDestination {
				if _, seen := groups[obj.DestinationID]; !seen {
					destIDs = append(destIDs, obj.DestinationID)
				}
				groups[obj.DestinationID] = append(groups[obj.DestinationID], obj)
			}
		}
	}
	sort.Slice(destIDs, func(i, j int) bool { return destIDs[i] < destIDs[j] })

	for _, destID := range destIDs {
		instances := groups[destID]
		keep := rng.Intn(len(instances))
		for i, obj := range instances {
			obj.Enabled = i == keep
		}
		wm.logger.Debug().Uint32("destination_id", destID).
			Uint32("object_id", instances[keep].ID).
			Int("instances", len(instances)).
			Msg("random destination placed")
	}
}
