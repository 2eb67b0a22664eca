package parts

// CarProperties is the aggregate of every placed part's properties. It is a
// pure function of the placed-part list (see Catalog.Aggregate) and carries
// no reference back to the vehicle that produced it.
type CarProperties struct {
	// Summed attributes.
	Weight              int `json:"weight"`
	Brake               int `json:"brake"`
	Grip                int `json:"grip"`
	Strength            int `json:"strength"`
	FuelConsumption     int `json:"fuel_consumption"`
	FuelVolume          int `json:"fuel_volume"`
	ElectricConsumption int `json:"electric_consumption"`
	ElectricVolume      int `json:"electric_volume"`
	Comfort             int `json:"comfort"`
	FunnyFactor         int `json:"funny_factor"`
	LoadCapacity        int `json:"load_capacity"`

	// Maximum-of attributes.
	Durability   int `json:"durability"`
	Steering     int `json:"steering"`
	Acceleration int `json:"acceleration"`
	Speed        int `json:"speed"`
	EngineType   int `json:"engine_type"`
	HornType     int `json:"horn_type"`

	// Flag attributes: maximum of all nonzero contributions, 0 otherwise.
	Horn        int `json:"horn"`
	ExhaustPipe int `json:"exhaust_pipe"`
	Lamps       int `json:"lamps"`
	Pedals      int `json:"pedals"`

	// TireCount is the number of placed parts with Grip > 0.
	TireCount int `json:"tire_count"`
}

// RoadLegalFailure names one unmet road-legality condition.
type RoadLegalFailure string

// Failure names, in the fixed order RoadLegalFailures reports them.
// The order drives spoken hints and must not change.
const (
	FailEngine          RoadLegalFailure = "engine"
	FailTires           RoadLegalFailure = "tires"
	FailBrake           RoadLegalFailure = "brake"
	FailFuelConsumption RoadLegalFailure = "fuel_consumption"
	FailBattery         RoadLegalFailure = "battery"
	FailFuelTank        RoadLegalFailure = "fuel_tank"
	FailGearbox         RoadLegalFailure = "gearbox"
	FailSteering        RoadLegalFailure = "steering"
)

// Aggregate folds the properties of every placed part into CarProperties.
// Unknown part IDs are logged and skipped; they never corrupt the result.
//
// The per-attribute policies are deliberate and mixed: do not replace this
// with a uniform reduction.
func (c *Catalog) Aggregate(placed []PartID) CarProperties {
	var car CarProperties
	for _, id := range placed {
		part := c.parts[id]
		if part == nil {
			c.logger.Warn().Uint32("part_id", uint32(id)).
				Msg("aggregate: part not in catalog")
			continue
		}
		p := &part.Properties

		// Summed.
		car.Weight += p.Weight
		car.Brake += p.Brake
		car.Grip += p.Grip
		car.Strength += p.Strength
		car.FuelConsumption += p.FuelConsumption
		car.FuelVolume += p.FuelVolume
		car.ElectricConsumption += p.ElectricConsumption
		car.ElectricVolume += p.ElectricVolume
		car.Comfort += p.Comfort
		car.FunnyFactor += p.FunnyFactor
		car.LoadCapacity += p.LoadCapacity

		// Maximum-of.
		car.Durability = max(car.Durability, p.Durability)
		car.Steering = max(car.Steering, p.Steering)
		car.Acceleration = max(car.Acceleration, p.Acceleration)
		car.Speed = max(car.Speed, p.Speed)
		car.EngineType = max(car.EngineType, p.EngineType)
		car.HornType = max(car.HornType, p.HornType)

		// Flags: only nonzero contributions participate.
		if p.Horn > 0 {
			car.Horn = max(car.Horn, p.Horn)
		}
		if p.ExhaustPipe > 0 {
			car.ExhaustPipe = max(car.ExhaustPipe, p.ExhaustPipe)
		}
		if p.Lamps > 0 {
			car.Lamps = max(car.Lamps, p.Lamps)
		}
		if p.Pedals > 0 {
			car.Pedals = max(car.Pedals, p.Pedals)
		}

		// Each part with grip counts as one tire.
		if p.Grip > 0 {
			car.TireCount++
		}
	}
	return car
}

// IsRoadLegal reports whether all eight driving requirements hold: a motor,
// two tires, brakes, an engine that consumes fuel, a battery, a fuel tank,
// a gearbox, and steering.
func (cp *CarProperties) IsRoadLegal() bool {
	return cp.EngineType > 0 &&
		cp.TireCount >= 2 &&
		cp.Brake > 0 &&
		cp.FuelConsumption > 0 &&
		cp.ElectricVolume > 0 &&
		cp.FuelVolume > 0 &&
		cp.Acceleration > 0 &&
		cp.Steering > 0
}

// RoadLegalFailures returns the unmet conditions in their fixed hint order.
// An empty slice means the car is road-legal.
func (cp *CarProperties) RoadLegalFailures() []RoadLegalFailure {
	var failures []RoadLegalFailure
	if cp.EngineType <= 0 {
		failures = append(failures, FailEngine)
	}
	if cp.TireCount < 2 {
		failures = append(failures, FailTires)
	}
	if cp.Brake <= 0 {
		failures = append(failures, FailBrake)
	}
	if cp.FuelConsumption <= 0 {
		failures = append(failures, FailFuelConsumption)
	}
	if cp.ElectricVolume <= 0 {
		failures = append(failures, FailBattery)
	}
	if cp.FuelVolume <= 0 {
		failures = append(failures, FailFuelTank)
	}
	if cp.Acceleration <= 0 {
		failures = append(failures, FailGearbox)
	}
	if cp.Steering <= 0 {
		failures = append(failures, FailSteering)
	}
	return failures
}
