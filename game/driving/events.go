package driving

// EventKind discriminates drive frame events.
type EventKind string

const (
	EventFuelEmpty          EventKind = "fuel_empty"
	EventTerrainBlocked     EventKind = "terrain_blocked"
	EventTileTransition     EventKind = "tile_transition"
	EventReachedDestination EventKind = "reached_destination"
	EventGasStation         EventKind = "gas_station"
	EventAnimalsBlocking    EventKind = "animals_blocking"
	EventHillSound          EventKind = "hill_sound"
	EventFerryBoard         EventKind = "ferry_board"
	EventRaceStarted        EventKind = "race_started"
	EventRaceFinished       EventKind = "race_finished"
	EventBridgeSound        EventKind = "bridge_sound"
	EventFarAwayReached     EventKind = "far_away_reached"
	EventSoundTrigger       EventKind = "sound_trigger"
)

// Terrain block reasons.
const (
	ReasonWall      = "wall"
	ReasonBigHill   = "big_hill"
	ReasonSmallHill = "small_hill"
	ReasonMud       = "mud"
	ReasonHoles     = "holes"
)

// Event is the single notable outcome of one Update call. The caller maps
// events to spoken lines, sound effects, and scene transitions; this
// package never plays audio or switches scenes itself.
type Event struct {
	Kind EventKind `json:"kind"`

	Reason      string  `json:"reason,omitempty"`
	ObjectID    uint32  `json:"object_id,omitempty"`
	DirResource string  `json:"dir_resource,omitempty"`
	DeltaCol    int     `json:"delta_col,omitempty"`
	DeltaRow    int     `json:"delta_row,omitempty"`
	HasHorn     bool    `json:"has_horn,omitempty"`
	HornType    int     `json:"horn_type,omitempty"`
	Big         bool    `json:"big,omitempty"`
	Wooden      bool    `json:"wooden,omitempty"`
	TimeSecs    float64 `json:"time_secs,omitempty"`
	SoundID     string  `json:"sound_id,omitempty"`
}

// Cheats are the per-frame debug switches. They arrive as an explicit
// parameter; the simulation reads no global flags.
type Cheats struct {
	InfiniteFuel bool `json:"infinite_fuel"`
	NoClip       bool `json:"no_clip"`
}

// TerrainSampler returns the terrain value at a topology coordinate. The
// simulation treats it as read-only.
type TerrainSampler func(x, y int) byte
