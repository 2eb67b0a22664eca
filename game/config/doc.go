// Package config loads the static game data for the car workshop.
//
// The config package handles:
//   - Loading the part catalog from JSON
//   - Loading the driving world map from JSON
//   - Loading per-tile terrain topologies from binary files
//   - Caching loaded data behind a thread-safe manager
//
// Data Layout:
//
// All game data lives under a single config directory:
//
//	configs/
//	  parts.json        part catalog (attachment points, properties, morphs)
//	  world.json        tile grid, tile catalog, map objects, start position
//	  assets.json       optional view member manifest (sizes and
//	                    registration points, no pixel data)
//	  topology/         one raw terrain bitmap per tile, named by the
//	                    tile's topology field
//
// Tiles without a terrain file fall back to open ground, so a world can
// be sketched out before its terrain is painted. Parts without a manifest
// entry render no sprite but still attach and aggregate normally.
//
// Usage:
//
//	manager, err := config.NewManager("configs", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	catalog, err := manager.Catalog()
//	worldMap, err := manager.World()
//	topo := manager.Topology(tile.Topology)
//
// All loads are lazy and cached; RefreshCache drops the caches so edited
// data files are picked up without a restart.
package config
