package driving

import "math"

// Pointer steering tuning: no steering within the dead zone, reverse intent
// beyond the flip angle.
const (
	pointerDeadZoneDeg = 22.5
	pointerReverseDeg  = 90.0
)

// SetPointer resolves mouse steering into the input flags. The angle is the
// signed difference (±180°) between the heading and the car-to-pointer
// vector. Releasing the button clears every input.
func (c *Car) SetPointer(px, py float64, buttonDown bool) {
	if !buttonDown {
		c.Throttle = false
		c.Braking = false
		c.SteerLeft = false
		c.SteerRight = false
		return
	}

	vx := px - c.X
	vy := py - c.Y
	if vx == 0 && vy == 0 {
		return
	}
	hx, hy := DirectionVector(c.Direction)
	angle := math.Atan2(vy, vx) - math.Atan2(hy, hx)
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	deg := angle * 180 / math.Pi

	c.SteerLeft = false
	c.SteerRight = false

	if math.Abs(deg) > pointerReverseDeg {
		// Pointer behind the car: back up.
		c.Throttle = false
		c.Braking = true
		return
	}

	c.Braking = false
	c.Throttle = true
	switch {
	case deg > pointerDeadZoneDeg:
		c.SteerRight = true
	case deg < -pointerDeadZoneDeg:
		c.SteerLeft = true
	}
}
