// Package assembly implements the garage side of the Car Workshop Game: the
// car being built, its live attachment points, and the layered sprite view.
//
// The assembly package implements:
//   - Car: the vehicle under construction, seeded with the starter parts
//   - Attach/Detach with the full point/sprite/property rebuild
//   - Free-point queries for drag-and-drop snap targets
//   - Opaque-pixel hit testing for detach clicks
//
// Mutation Model:
//
// Attach and Detach never return errors. A request that cannot take effect
// (locked car, unknown part, blocked point) returns a nil event and leaves
// the car untouched. A non-nil event means the placed-part list, the live
// point set, the sprite cache, and the aggregate properties were all rebuilt
// before the call returned. There is no deferred recomputation anywhere.
//
// Rendering:
//
// The car does not draw anything itself. It produces a sprite list through
// an AssetResolver collaborator and leaves compositing to the caller. Parts
// with two views contribute a background and a foreground sub-sprite, each
// layered by the sort indices of the part's primary attachment point.
package assembly
