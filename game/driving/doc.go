// Package driving implements the per-frame driving simulation of the Car
// Workshop Game: the car on the world map, terrain collision, fuel, object
// interaction, the racing mini-game, and the engine sound selector.
//
// The driving package implements:
//   - Car: mutable per-session physics state (position, speed, heading,
//     tilt, fuel, timers, history ring, racing state)
//   - DriveProperties: physics constants derived once from the assembled
//     car's aggregate properties at session start
//   - Update: one fixed-order simulation step per 1/30-second frame
//   - The 16-step compass model and its direction vectors
//   - Engine sound selection with change detection
//   - Pointer-based steering resolution
//   - Session save/restore for suspending a drive at a destination
//
// Frame Model:
//
// The simulation is single-threaded and frame-stepped: exactly one Update
// call per tick, no blocking, no concurrency. The terrain sampler, object
// list, and cheat flags arrive as explicit read-only parameters each frame;
// the package touches no process-wide state. Update returns at most one
// Event per frame and nil for an uneventful frame.
//
// Physics Tuning:
//
// The probe distances and damping factors in the wall-slide logic
// (7+speed forward, 3 reverse, 0.9, 0.1) are empirically tuned feel
// constants carried over from the shipped game. They are named, not
// derived; changing them changes how the car handles.
package driving
