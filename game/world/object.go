package world

import "github.com/tinkergarage/carworkshop/game/parts"

// ObjectType tags a map object's interaction behavior.
type ObjectType string

const (
	ObjectDestination       ObjectType = "destination"
	ObjectRandomDestination ObjectType = "random_destination"
	ObjectCorrection        ObjectType = "correction"
	ObjectStop              ObjectType = "stop"
	ObjectGas               ObjectType = "gas"
	ObjectHillSmall         ObjectType = "hill_small"
	ObjectHillBig           ObjectType = "hill_big"
	ObjectCows              ObjectType = "cows"
	ObjectGoats             ObjectType = "goats"
	ObjectFerry             ObjectType = "ferry"
	ObjectRacing            ObjectType = "racing"
	ObjectBridgeWooden      ObjectType = "bridge_wooden"
	ObjectBridgeConcrete    ObjectType = "bridge_concrete"
	ObjectFarAway           ObjectType = "far_away"
	ObjectPicture           ObjectType = "picture"
	ObjectSoundTrigger      ObjectType = "sound_trigger"
)

// DisablePolicy says what a satisfied gate check disables.
type DisablePolicy string

const (
	// DisableObject turns the whole object inert.
	DisableObject DisablePolicy = "object"
	// DisableSound only silences the approach sound; the interaction stays.
	DisableSound DisablePolicy = "sound"
)

// Gate disables an object (or just its sound) once the player has earned a
// quest cache flag or a medal. Any single match triggers the policy.
type Gate struct {
	CacheFlags []string      `json:"cache_flags,omitempty"`
	Medals     []string      `json:"medals,omitempty"`
	Policy     DisablePolicy `json:"policy"`
}

// SetWhenDone is the reward payload resolved when a destination is reached.
// A part ID of 0 stands for one random part the player does not own yet.
type SetWhenDone struct {
	CacheFlags []string       `json:"cache_flags,omitempty"`
	Parts      []parts.PartID `json:"parts,omitempty"`
	Missions   []int          `json:"missions,omitempty"`
}

// MapObject is one interactive point on a tile. Distances to the car are
// Euclidean; the inner radius triggers the interaction, the band between
// inner and outer radius triggers the one-shot approach sound.
type MapObject struct {
	ID   uint32     `json:"id"`
	Type ObjectType `json:"type"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`

	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Enabled     bool    `json:"enabled"`

	// DirResource names the scene a destination leads to.
	DirResource string `json:"dir_resource,omitempty"`
	// DestinationID groups random-destination instances; exactly one stays
	// enabled per group after load.
	DestinationID uint32 `json:"destination_id,omitempty"`
	// RequiredDirection is the compass step (1-16) a racing zone must be
	// entered from.
	RequiredDirection int `json:"required_direction,omitempty"`
	// SoundID backs sound-trigger objects and spoken destination hints.
	SoundID string `json:"sound_id,omitempty"`
	// ApproachSound plays once while the car is between the two radii.
	ApproachSound string `json:"approach_sound,omitempty"`
	// Sprite names an in-zone overlay the renderer may show.
	Sprite string `json:"sprite,omitempty"`

	Gate        *Gate        `json:"gate,omitempty"`
	SetWhenDone *SetWhenDone `json:"set_when_done,omitempty"`
}

// ApplyGate mutates the object according to its gate, given the player's
// earned cache flags and medals. No-op without a gate or without a match.
func (o *MapObject) ApplyGate(cacheFlags, medals []string) {
	if o.Gate == nil {
		return
	}
	if !matchAny(o.Gate.CacheFlags, cacheFlags) && !matchAny(o.Gate.Medals, medals) {
		return
	}
	switch o.Gate.Policy {
	case DisableSound:
		o.ApproachSound = ""
	default:
		o.Enabled = false
	}
}

func matchAny(wanted, earned []string) bool {
	for _, w := range wanted {
		for _, e := range earned {
			if w == e {
				return true
			}
		}
	}
	return false
}
