package driving

import "math"

// DirectionVector returns the unit vector for a compass step. Steps are
// 1-based: angle = 2π × step/16, vector (sin, -cos) in screen coordinates,
// so step 16 is due north, 4 east, 8 south, 12 west.
func DirectionVector(step int) (float64, float64) {
	angle := 2 * math.Pi * float64(step) / NumDirections
	return math.Sin(angle), -math.Cos(angle)
}

// NormalizeDirection wraps any step value into [1, 16].
func NormalizeDirection(step int) int {
	step %= NumDirections
	if step <= 0 {
		step += NumDirections
	}
	return step
}

// directionDelta returns the signed shortest rotation from step a to step b
// in compass steps, in [-8, 8).
func directionDelta(a, b int) int {
	d := (b - a) % NumDirections
	if d >= NumDirections/2 {
		d -= NumDirections
	}
	if d < -NumDirections/2 {
		d += NumDirections
	}
	return d
}

// wrapHeading folds an internal heading into [0, 1600).
func wrapHeading(h float64) float64 {
	for h < 0 {
		h += headingMax
	}
	for h >= headingMax {
		h -= headingMax
	}
	return h
}

// roundHeading rounds an internal heading to its compass step, normalizing
// a round-to-0 result to 16.
func roundHeading(h float64) int {
	step := int(math.Round(h/headingUnitsPerStep)) % NumDirections
	if step == 0 {
		step = NumDirections
	}
	return step
}
