package driving

// racingState tracks one racing zone. A race is a loop: enter the zone
// aligned with its required direction, complete a full pass, and re-enter
// aligned again.
type racingState struct {
	objectID    uint32
	requiredDir int

	inZone      bool
	racing      bool
	passCount   int
	enteredSide int
	frames      int
}

// updateRacing runs once per frame after object scanning. hit is true while
// the car is inside a racing zone's inner radius this frame.
func (c *Car) updateRacing(hit bool, obj *racingObject) *Event {
	if obj != nil && (c.racing == nil || c.racing.objectID != obj.id) {
		c.racing = &racingState{objectID: obj.id, requiredDir: obj.requiredDir}
	}
	rs := c.racing
	if rs == nil {
		return nil
	}
	if rs.racing {
		rs.frames++
	}

	switch {
	case hit && !rs.inZone:
		rs.inZone = true
		return rs.enter(c.Direction)
	case !hit && rs.inZone:
		// Exit is detected the frame after the zone hit stops.
		rs.inZone = false
		rs.exit(c.Direction)
	}
	return nil
}

// enter classifies the entry side and starts or finishes a race.
func (rs *racingState) enter(direction int) *Event {
	delta := directionDelta(direction, rs.requiredDir)
	aligned := absInt(delta) <= racingEntryTolerance
	opposed := absInt(delta) >= NumDirections/2-racingEntryTolerance

	switch {
	case aligned:
		rs.enteredSide = 1
	case opposed:
		rs.enteredSide = -1
	default:
		rs.enteredSide = 0
	}

	if !aligned {
		return nil
	}
	if !rs.racing {
		rs.racing = true
		rs.frames = 0
		rs.passCount = 0
		return &Event{Kind: EventRaceStarted, ObjectID: rs.objectID}
	}
	// A finish requires at least one completed pass; re-entering from the
	// required side without one keeps the race running.
	if rs.passCount >= 1 {
		rs.racing = false
		return &Event{
			Kind:     EventRaceFinished,
			ObjectID: rs.objectID,
			TimeSecs: float64(rs.frames) / FPS,
		}
	}
	return nil
}

// exit adjusts the signed pass counter. Leaving aligned with the required
// direction credits the entry side; leaving against it debits it. The
// counter is unbounded in both directions.
func (rs *racingState) exit(direction int) {
	if !rs.racing || rs.enteredSide == 0 {
		return
	}
	delta := directionDelta(direction, rs.requiredDir)
	if absInt(delta) <= racingEntryTolerance {
		rs.passCount += rs.enteredSide
	} else {
		rs.passCount -= rs.enteredSide
	}
}

// racingObject is the slice of a MapObject the racing machine needs.
type racingObject struct {
	id          uint32
	requiredDir int
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
