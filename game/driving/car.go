package driving

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/world"
)

type historyEntry struct {
	x, y      float64
	direction int
}

// Car is the vehicle on the world map. One instance per driving session;
// not safe for concurrent use (the frame loop is the only caller).
type Car struct {
	X     float64
	Y     float64
	Speed float64

	// InternalDirection is the high-resolution heading in [0, 1600);
	// Direction is its rounded compass step in [1, 16].
	InternalDirection float64
	Direction         int
	Tilt              int

	Fuel      float64
	FuelEmpty bool

	Props DriveProperties

	TileCol int
	TileRow int

	// Input flags, set by the caller before each Update.
	Throttle   bool
	Braking    bool
	SteerLeft  bool
	SteerRight bool

	reverseCooldown int
	refuelCountdown int
	refuelFrames    int
	oobCounter      int
	ferryParity     bool

	history []historyEntry
	racing  *racingState
	engine  engineSound

	approachSeen  map[uint32]bool
	approachQueue []string

	logger zerolog.Logger
}

// NewCar starts a driving session at the given tile position and heading.
// Fuel starts at 80% of capacity.
func NewCar(x, y float64, direction int, props DriveProperties, logger zerolog.Logger) *Car {
	direction = NormalizeDirection(direction)
	return &Car{
		X:                 x,
		Y:                 y,
		InternalDirection: float64(direction) * headingUnitsPerStep,
		Direction:         direction,
		Fuel:              props.FuelMax * fuelStartFraction,
		Props:             props,
		engine:            engineSound{engineType: props.EngineType},
		approachSeen:      make(map[uint32]bool),
		logger:            logger,
	}
}

// Update advances the simulation one frame. It returns at most one event;
// nil means an uneventful frame. Objects and terrain are read-only inputs.
func (c *Car) Update(objects []world.MapObject, terrain TerrainSampler, cheats Cheats) *Event {
	// 0. Re-arm one-shot approach sounds. This must happen before any
	// early return; a frame that ends in a tile transition or a terrain
	// block still counts as leaving the band.
	c.rearmApproach(objects)

	// 1. An empty tank pins the car in place.
	if c.FuelEmpty && !cheats.InfiniteFuel {
		return &Event{Kind: EventFuelEmpty}
	}

	// 2. Refueling: one fuel step per 10 frames, car pinned.
	if c.refuelCountdown > 0 {
		c.Speed = 0
		c.refuelFrames++
		if c.refuelFrames >= refuelFramesPerStep {
			c.refuelFrames = 0
			c.Fuel = math.Min(c.Fuel+c.Props.FuelMax/refuelSteps, c.Props.FuelMax)
			c.refuelCountdown--
		}
		return nil
	}

	// 3. Record the pre-move pose for step-back recovery.
	c.pushHistory()

	// 4. Steering.
	if c.SteerLeft {
		c.InternalDirection -= c.Props.SteeringRate
	}
	if c.SteerRight {
		c.InternalDirection += c.Props.SteeringRate
	}
	c.InternalDirection = wrapHeading(c.InternalDirection)
	c.Direction = roundHeading(c.InternalDirection)

	// 5. Throttle and brake. No passive friction: released pedals coast.
	if c.Throttle {
		c.Speed += c.Props.Acceleration
		if c.Speed > c.Props.MaxSpeed {
			c.Speed = c.Props.MaxSpeed
		}
	} else if c.Braking {
		switch {
		case c.Speed > 0:
			c.Speed -= c.Props.BrakeForce
			if c.Speed < 0 {
				// Direction change requires a full stop first.
				c.Speed = 0
				c.reverseCooldown = reverseCooldownFrames
			}
		case c.reverseCooldown > 0:
			c.reverseCooldown--
		default:
			c.Speed -= c.Props.Acceleration
			if c.Speed < -c.Props.ReverseMax {
				c.Speed = -c.Props.ReverseMax
			}
		}
	}

	// 6. Escape when wedged against terrain for too long.
	if c.oobCounter > stuckFrameLimit {
		if c.escapeStuck(terrain) {
			c.oobCounter = 0
		} else {
			c.oobCounter++
		}
		return nil
	}

	// 7. Side-wall slide.
	if !cheats.NoClip {
		c.sideWallSlide(terrain)
	}

	// 8. Frontal terrain check at the motion candidate.
	dx, dy := DirectionVector(c.Direction)
	newX := c.X + dx*c.Speed
	newY := c.Y + dy*c.Speed
	value := sampleTerrain(terrain, newX, newY)

	if !cheats.NoClip && value >= TerrainWall {
		c.Speed = 0
		c.oobCounter++
		return &Event{Kind: EventTerrainBlocked, Reason: ReasonWall}
	}
	c.oobCounter = 0

	// 9. Altitude and surface gating.
	altitude := int(value % 16)
	if !cheats.NoClip {
		if altitude > 2 && c.Props.Strength <= BigHillStrengthThreshold {
			c.Speed = 0
			return &Event{Kind: EventTerrainBlocked, Reason: ReasonBigHill}
		}
		if altitude > 1 && c.Props.Strength <= SmallHillStrengthThreshold {
			c.Speed = 0
			return &Event{Kind: EventTerrainBlocked, Reason: ReasonSmallHill}
		}
		if value == TerrainMud && c.Props.Grip <= MudGripThreshold {
			c.Speed = 0
			return &Event{Kind: EventTerrainBlocked, Reason: ReasonMud}
		}
		if value == TerrainHoles && c.Props.Durability <= HolesDurabilityThreshold {
			c.Speed = 0
			return &Event{Kind: EventTerrainBlocked, Reason: ReasonHoles}
		}
	}
	c.Tilt = clampInt(altitude, -2, 2)

	// 10. Commit the move and burn fuel.
	c.X = newX
	c.Y = newY
	if !cheats.InfiniteFuel && math.Abs(c.Speed) > speedEpsilon {
		c.Fuel -= math.Abs(c.Speed) * c.Props.FuelConsumption / 100
		if c.Fuel <= 0 {
			c.Fuel = 0
			c.FuelEmpty = true
			c.Speed = 0
			return &Event{Kind: EventFuelEmpty}
		}
	}

	// 11. Map edges. Exactly one of four directions.
	if c.X < MapEdgeMargin {
		return &Event{Kind: EventTileTransition, DeltaCol: -1}
	}
	if c.X > MapWidth-MapEdgeMargin {
		return &Event{Kind: EventTileTransition, DeltaCol: 1}
	}
	if c.Y < MapEdgeMargin {
		return &Event{Kind: EventTileTransition, DeltaRow: -1}
	}
	if c.Y > MapHeight-MapEdgeMargin {
		return &Event{Kind: EventTileTransition, DeltaRow: 1}
	}

	// 12. Object interaction.
	event, racingHit, hitObj := c.scanObjects(objects)

	// 13. Racing entry/exit detection.
	var rObj *racingObject
	if hitObj != nil {
		rObj = &racingObject{id: hitObj.ID, requiredDir: hitObj.RequiredDirection}
	}
	if racingEvent := c.updateRacing(racingHit, rObj); event == nil {
		event = racingEvent
	}
	return event
}

// scanObjects dispatches inner-radius interactions and tracks the approach
// sound band. The first produced event wins; scanning continues so the
// approach bookkeeping and racing hit stay complete for the frame.
func (c *Car) scanObjects(objects []world.MapObject) (*Event, bool, *world.MapObject) {
	var (
		event     *Event
		racingHit bool
		racingObj *world.MapObject
	)
	for i := range objects {
		obj := &objects[i]
		if !obj.Enabled {
			continue
		}
		dist := math.Hypot(c.X-obj.X, c.Y-obj.Y)

		if dist <= obj.InnerRadius {
			if obj.Type == world.ObjectRacing {
				racingHit = true
				racingObj = obj
				continue
			}
			if ev := c.dispatchObject(obj); ev != nil && event == nil {
				event = ev
			}
			continue
		}

		if dist <= obj.OuterRadius {
			if obj.ApproachSound != "" && !c.approachSeen[obj.ID] {
				c.approachSeen[obj.ID] = true
				c.approachQueue = append(c.approachQueue, obj.ApproachSound)
			}
		} else {
			delete(c.approachSeen, obj.ID)
		}
	}
	return event, racingHit, racingObj
}

// rearmApproach clears the one-shot flag of every object whose outer
// radius the car is outside of.
func (c *Car) rearmApproach(objects []world.MapObject) {
	for i := range objects {
		obj := &objects[i]
		if math.Hypot(c.X-obj.X, c.Y-obj.Y) > obj.OuterRadius {
			delete(c.approachSeen, obj.ID)
		}
	}
}

func (c *Car) dispatchObject(obj *world.MapObject) *Event {
	switch obj.Type {
	case world.ObjectDestination, world.ObjectRandomDestination:
		if obj.DirResource == "" {
			c.logger.Warn().Uint32("object_id", obj.ID).
				Msg("destination without a target resource")
			return nil
		}
		c.Speed = 0
		return &Event{Kind: EventReachedDestination, ObjectID: obj.ID, DirResource: obj.DirResource}

	case world.ObjectCorrection:
		c.X = obj.X
		c.Y = obj.Y
		return nil

	case world.ObjectStop:
		c.Speed = 0
		return nil

	case world.ObjectGas:
		if c.Fuel < c.Props.FuelMax && c.refuelCountdown == 0 {
			c.refuelCountdown = refuelSteps
			c.refuelFrames = 0
			c.Speed = 0
			return &Event{Kind: EventGasStation, ObjectID: obj.ID}
		}
		return nil

	case world.ObjectHillSmall:
		if c.Props.Strength <= SmallHillStrengthThreshold {
			return &Event{Kind: EventHillSound, ObjectID: obj.ID, Big: false}
		}
		return nil

	case world.ObjectHillBig:
		if c.Props.Strength <= BigHillStrengthThreshold {
			return &Event{Kind: EventHillSound, ObjectID: obj.ID, Big: true}
		}
		return nil

	case world.ObjectCows, world.ObjectGoats:
		hasHorn := c.Props.Horn > 0
		if !hasHorn {
			c.stepBack(animalStepBack)
			c.Speed = 0
		}
		return &Event{Kind: EventAnimalsBlocking, ObjectID: obj.ID, HasHorn: hasHorn, HornType: c.Props.HornType}

	case world.ObjectFerry:
		c.Speed = 0
		return &Event{Kind: EventFerryBoard, ObjectID: obj.ID}

	case world.ObjectBridgeWooden:
		return &Event{Kind: EventBridgeSound, ObjectID: obj.ID, Wooden: true}

	case world.ObjectBridgeConcrete:
		return &Event{Kind: EventBridgeSound, ObjectID: obj.ID, Wooden: false}

	case world.ObjectFarAway:
		return &Event{Kind: EventFarAwayReached, ObjectID: obj.ID}

	case world.ObjectSoundTrigger:
		return &Event{Kind: EventSoundTrigger, ObjectID: obj.ID, SoundID: obj.SoundID}

	case world.ObjectPicture:
		// Renderer metadata only.
		return nil
	}
	return nil
}

// ApplyTileTransition moves the car to the neighboring tile and repositions
// it at the opposite edge. At the world border the car just stops.
func (c *Car) ApplyTileTransition(deltaCol, deltaRow, cols, rows int) bool {
	newCol := c.TileCol + deltaCol
	newRow := c.TileRow + deltaRow
	if newCol < 0 || newCol >= cols || newRow < 0 || newRow >= rows {
		c.Speed = 0
		return false
	}
	c.TileCol = newCol
	c.TileRow = newRow

	// A new tile means every approach band was left behind.
	clear(c.approachSeen)

	switch {
	case deltaCol < 0:
		c.X = MapWidth - MapEdgeMargin - 1
	case deltaCol > 0:
		c.X = MapEdgeMargin + 1
	}
	switch {
	case deltaRow < 0:
		c.Y = MapHeight - MapEdgeMargin - 1
	case deltaRow > 0:
		c.Y = MapEdgeMargin + 1
	}
	return true
}

// FerryTeleport carries the car across the water along its heading and
// flips the crossing parity. The caller gates this on the ferry ticket.
func (c *Car) FerryTeleport() {
	dx, dy := DirectionVector(c.Direction)
	c.X += dx * ferryCrossingDistance
	c.Y += dy * ferryCrossingDistance
	c.ferryParity = !c.ferryParity
	c.Speed = 0
}

// FerrySide reports which shore the crossing parity says the car is on.
func (c *Car) FerrySide() bool {
	return c.ferryParity
}

// Refueling reports whether a refuel countdown is active.
func (c *Car) Refueling() bool {
	return c.refuelCountdown > 0
}

// FuelPercent returns the fuel level as a percentage in [0, 100].
func (c *Car) FuelPercent() float64 {
	if c.Props.FuelMax <= 0 {
		return 0
	}
	p := c.Fuel / c.Props.FuelMax
	return math.Min(math.Max(p, 0), 1) * 100
}

// SpriteMember returns the cast member number for the current heading and
// tilt (16 directions by 5 tilt levels, members 78-157).
func (c *Car) SpriteMember() int {
	dirIdx := (c.Direction - 1) % NumDirections
	tiltIdx := clampInt(c.Tilt+2, 0, 4)
	return 78 + dirIdx*5 + tiltIdx
}

// DrainApproachSounds returns and clears the queued one-shot approach
// sounds. The caller plays them in order.
func (c *Car) DrainApproachSounds() []string {
	out := c.approachQueue
	c.approachQueue = nil
	return out
}

func (c *Car) pushHistory() {
	c.history = append(c.history, historyEntry{x: c.X, y: c.Y, direction: c.Direction})
	if len(c.history) > historySize {
		c.history = c.history[1:]
	}
}

// stepBack reverts the car to the pose n history entries back and discards
// the newer entries.
func (c *Car) stepBack(n int) {
	if len(c.history) == 0 {
		return
	}
	idx := len(c.history) - n
	if idx < 0 {
		idx = 0
	}
	e := c.history[idx]
	c.X = e.x
	c.Y = e.y
	c.Direction = e.direction
	c.InternalDirection = float64(e.direction) * headingUnitsPerStep
	c.history = c.history[:idx]
}

// escapeStuck probes up, right, down, left by the stuck-counter magnitude
// and teleports to the first open spot.
func (c *Car) escapeStuck(terrain TerrainSampler) bool {
	d := float64(c.oobCounter)
	probes := [4][2]float64{{0, -d}, {d, 0}, {0, d}, {-d, 0}}
	for _, p := range probes {
		if sampleTerrain(terrain, c.X+p[0], c.Y+p[1]) < TerrainWall {
			c.X += p[0]
			c.Y += p[1]
			return true
		}
	}
	return false
}

// sideWallSlide probes the two compass directions adjacent to the heading
// and rotates away from a blocked side, scrubbing off speed. At most one
// side corrects per frame.
func (c *Car) sideWallSlide(terrain TerrainSampler) {
	if c.Speed == 0 {
		return
	}
	probe := forwardProbeBase + math.Abs(c.Speed)
	sign := 1.0
	if c.Speed < 0 {
		probe = reverseProbe
		sign = -1
	}
	for _, side := range [2]int{-1, 1} {
		adj := NormalizeDirection(c.Direction + side)
		dx, dy := DirectionVector(adj)
		value := sampleTerrain(terrain, c.X+dx*probe*sign, c.Y+dy*probe*sign)
		if value < TerrainWall {
			continue
		}
		c.InternalDirection = wrapHeading(c.InternalDirection - float64(side)*headingUnitsPerStep)
		c.Direction = roundHeading(c.InternalDirection)
		c.Speed *= slideDamping
		if math.Abs(c.Speed) < slideSnapToZero {
			c.Speed = 0
		}
		break
	}
}

// sampleTerrain converts a tile-space position to topology space and
// samples, clamping to the bitmap.
func sampleTerrain(terrain TerrainSampler, x, y float64) byte {
	topoX := clampInt((int(x)-MapOffsetX)/2, 0, TopoWidth-1)
	topoY := clampInt((int(y)-MapOffsetY)/2, 0, TopoHeight-1)
	return terrain(topoX, topoY)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
