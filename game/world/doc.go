// Package world holds the static driving world: the tile grid, per-tile
// topology references, and the interactive objects placed on tiles.
//
// The world package implements:
//   - WorldMap: a rectangular grid of tile IDs plus the tile catalog
//   - MapTile: background/topology member names and the tile's object list
//   - MapObject: typed interaction points with inner/outer trigger radii
//   - Quest gating (objects disabled once a cache flag or medal is earned)
//   - Random-destination de-duplication at load time
//   - Topology: the coarse terrain bitmap sampled by the driving physics
//
// The map is built once at load. Object enabled flags are the only mutable
// state: they change at load (random destinations) and per frame (gating),
// always on a per-frame copy of the tile's object list, never on the
// catalog itself.
package world
