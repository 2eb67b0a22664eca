package driving

import (
	"fmt"
	"math"
)

// EngineSoundState is one row of the engine sound table: startup, shutdown,
// idle, and four speed bands at 10/20/40/70% of top speed.
type EngineSoundState int

const (
	EngineStartup EngineSoundState = iota
	EngineShutdown
	EngineIdle
	EngineBand1
	EngineBand2
	EngineBand3
	EngineBand4

	numEngineStates = 7
	numEngineTypes  = 9
)

// Speed band cut-offs as fractions of top speed.
var engineBandFractions = [4]float64{0.10, 0.20, 0.40, 0.70}

// engineSound selects the looping engine sound per frame and only reports
// a change when the state differs from the previous frame. The first call
// after construction always reports startup.
type engineSound struct {
	engineType int
	state      EngineSoundState
	started    bool
}

func (e *engineSound) update(speed, maxSpeed float64) (string, bool) {
	if !e.started {
		e.started = true
		e.state = EngineStartup
		return EngineSoundName(e.engineType, EngineStartup), true
	}
	state := speedBand(speed, maxSpeed)
	if state == e.state {
		return "", false
	}
	e.state = state
	return EngineSoundName(e.engineType, state), true
}

func (e *engineSound) shutdown() string {
	e.state = EngineShutdown
	return EngineSoundName(e.engineType, EngineShutdown)
}

func speedBand(speed, maxSpeed float64) EngineSoundState {
	if maxSpeed <= 0 {
		return EngineIdle
	}
	ratio := math.Abs(speed) / maxSpeed
	switch {
	case ratio >= engineBandFractions[3]:
		return EngineBand4
	case ratio >= engineBandFractions[2]:
		return EngineBand3
	case ratio >= engineBandFractions[1]:
		return EngineBand2
	case ratio >= engineBandFractions[0]:
		return EngineBand1
	default:
		return EngineIdle
	}
}

// EngineSoundName maps (engine type, state) to a sound member name. Engine
// types outside 1-9 clamp to the table edges.
func EngineSoundName(engineType int, state EngineSoundState) string {
	engineType = clampInt(engineType, 1, numEngineTypes)
	member := 300 + (engineType-1)*numEngineStates + int(state)
	return fmt.Sprintf("05e%03dv0", member)
}

// EngineSoundUpdate runs the per-frame engine sound selection. The boolean
// is true only on a state change; the caller then switches the loop.
func (c *Car) EngineSoundUpdate() (string, bool) {
	return c.engine.update(c.Speed, c.Props.MaxSpeed)
}

// EngineShutdownSound forces the shutdown state and returns its sound.
// Called when the player leaves the driving mode.
func (c *Car) EngineShutdownSound() string {
	return c.engine.shutdown()
}
