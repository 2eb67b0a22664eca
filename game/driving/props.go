package driving

import "github.com/tinkergarage/carworkshop/game/parts"

// DriveProperties are the physics constants of one driving session, derived
// once from the assembled car's aggregate properties when the player leaves
// the garage. They never change mid-session.
type DriveProperties struct {
	Acceleration    float64 `json:"acceleration"`
	BrakeForce      float64 `json:"brake_force"`
	MaxSpeed        float64 `json:"max_speed"`
	ReverseMax      float64 `json:"reverse_max"`
	SteeringRate    float64 `json:"steering_rate"`
	FuelConsumption float64 `json:"fuel_consumption"`
	FuelMax         float64 `json:"fuel_max"`

	Grip       int `json:"grip"`
	Durability int `json:"durability"`
	Strength   int `json:"strength"`
	EngineType int `json:"engine_type"`
	Horn       int `json:"horn"`
	HornType   int `json:"horn_type"`
}

// DeriveProperties applies the original tuning formulas. The top-speed
// bonus at speed stat 5 is intentional (the best engine overperforms its
// class).
func DeriveProperties(cp parts.CarProperties) DriveProperties {
	speed := float64(cp.Speed)
	maxSpeed := speed * 20 / 25
	if cp.Speed == 5 {
		maxSpeed = speed * 27 / 25
	}

	return DriveProperties{
		Acceleration:    float64(cp.Acceleration) * 2 / 100,
		BrakeForce:      float64(cp.Brake) * 3 / 100,
		MaxSpeed:        maxSpeed,
		ReverseMax:      maxSpeed / 4,
		SteeringRate:    (float64(cp.Steering) + 3) * 2 / 20 * 70,
		FuelConsumption: float64(cp.FuelConsumption),
		FuelMax:         float64(cp.FuelVolume) * 12,

		Grip:       cp.Grip,
		Durability: cp.Durability,
		Strength:   cp.Strength,
		EngineType: cp.EngineType,
		Horn:       cp.Horn,
		HornType:   cp.HornType,
	}
}
