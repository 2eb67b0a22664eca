package driving

// Simulation rate and compass resolution.
const (
	FPS           = 30
	NumDirections = 16

	// The internal heading runs at 100 units per compass step.
	headingUnitsPerStep = 100
	headingMax          = NumDirections * headingUnitsPerStep
)

// Tile and topology geometry. The topology bitmap is a half-resolution
// terrain map offset from the visible tile.
const (
	MapWidth   = 640
	MapHeight  = 396
	TopoWidth  = 316
	TopoHeight = 198
	MapOffsetX = 4
	MapOffsetY = 2

	MapEdgeMargin = 3
)

// Terrain encoding. The low nibble of a terrain value is the altitude.
const (
	TerrainWall  byte = 240
	TerrainMud   byte = 32
	TerrainHoles byte = 16
)

// Minimum vehicle stats to pass the matching terrain.
const (
	MudGripThreshold           = 8
	HolesDurabilityThreshold   = 3
	BigHillStrengthThreshold   = 3
	SmallHillStrengthThreshold = 2
)

// Timers and counters.
const (
	historySize           = 10
	reverseCooldownFrames = 10
	refuelSteps           = 10
	refuelFramesPerStep   = 10
	stuckFrameLimit       = 5
	animalStepBack        = 2
	racingEntryTolerance  = 3
)

// Feel constants for the wall-slide correction. Empirically tuned in the
// shipped game; tests depend on the exact values.
const (
	forwardProbeBase = 7.0
	reverseProbe     = 3.0
	slideDamping     = 0.9
	slideSnapToZero  = 0.1
)

const (
	fuelStartFraction     = 0.8
	ferryCrossingDistance = 120.0
	speedEpsilon          = 0.001
)
