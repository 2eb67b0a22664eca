package service

import (
	"time"

	"github.com/tinkergarage/carworkshop/game/assembly"
	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
)

// SessionInfo provides information about a player session
type SessionInfo struct {
	ID             string         `json:"id"`
	CarParts       []parts.PartID `json:"car_parts"`
	OwnedParts     []parts.PartID `json:"owned_parts"`
	CacheFlags     []string       `json:"cache_flags,omitempty"`
	Medals         []string       `json:"medals,omitempty"`
	Missions       []string       `json:"missions,omitempty"`
	Driving        bool           `json:"driving"`
	CreatedAt      time.Time      `json:"created_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
}

// PartInfo describes one catalog part from a player's point of view
type PartInfo struct {
	ID          parts.PartID         `json:"id"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category,omitempty"`
	Owned       bool                 `json:"owned"`
	OnCar       bool                 `json:"on_car"`
	Properties  parts.PartProperties `json:"properties"`
}

// CarState is the renderable workshop view of a session's car
type CarState struct {
	Parts      []parts.PartID           `json:"parts"`
	Properties parts.CarProperties      `json:"properties"`
	RoadLegal  bool                     `json:"road_legal"`
	Failures   []parts.RoadLegalFailure `json:"failures,omitempty"`
	FreePoints []assembly.FreePoint     `json:"free_points"`
	Sprites    []assembly.Sprite        `json:"sprites"`
	Locked     bool                     `json:"locked"`
}

// MutationResult is the outcome of an attach or detach operation.
// Mutations never error on game grounds; a refused mutation comes back
// with Success false and an unchanged car.
type MutationResult struct {
	Success bool            `json:"success"`
	Event   *assembly.Event `json:"event,omitempty"`
	Car     *CarState       `json:"car"`
}

// DriveInput is the player input for one drive frame. Pointer steering
// takes precedence over the key flags when UsePointer is set.
type DriveInput struct {
	Throttle   bool `json:"throttle"`
	Brake      bool `json:"brake"`
	SteerLeft  bool `json:"steer_left"`
	SteerRight bool `json:"steer_right"`

	UsePointer  bool    `json:"use_pointer,omitempty"`
	PointerX    float64 `json:"pointer_x,omitempty"`
	PointerY    float64 `json:"pointer_y,omitempty"`
	PointerDown bool    `json:"pointer_down,omitempty"`
}

// DriveState is the renderable driving view after one frame
type DriveState struct {
	TileCol      int     `json:"tile_col"`
	TileRow      int     `json:"tile_row"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Speed        float64 `json:"speed"`
	Direction    int     `json:"direction"`
	Tilt         int     `json:"tilt"`
	FuelPercent  float64 `json:"fuel_percent"`
	FuelEmpty    bool    `json:"fuel_empty"`
	Refueling    bool    `json:"refueling"`
	SpriteMember int     `json:"sprite_member"`
}

// Reward is the resolved payload of a reached destination
type Reward struct {
	CacheFlags []string       `json:"cache_flags,omitempty"`
	Parts      []parts.PartID `json:"parts,omitempty"`
	Missions   []int          `json:"missions,omitempty"`
}

// DriveFrameResult bundles everything a client needs after one frame
type DriveFrameResult struct {
	State          DriveState     `json:"state"`
	Event          *driving.Event `json:"event,omitempty"`
	Reward         *Reward        `json:"reward,omitempty"`
	EngineSound    string         `json:"engine_sound,omitempty"`
	ApproachSounds []string       `json:"approach_sounds,omitempty"`
}
