// Command analyze prints quick, human-readable consistency checks for
// the game data files in the configs directory. It audits the part
// catalog (dangling attachment points, broken morph chains, road
// legality coverage) and the world map (undefined tiles, destinations
// without dialogs, rewards naming unknown parts, missing terrain files).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/tinkergarage/carworkshop/game/config"
	"github.com/tinkergarage/carworkshop/game/parts"
	"github.com/tinkergarage/carworkshop/game/world"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "audit the game data files for consistency problems",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game data files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "parts",
				Usage: "audit the part catalog",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					catalog, err := loadCatalog(cmd.String("config-dir"))
					if err != nil {
						return err
					}
					printPartsReport(analyzeParts(catalog))
					return nil
				},
			},
			{
				Name:  "world",
				Usage: "audit the world map and terrain files",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configDir := cmd.String("config-dir")
					manager, err := config.NewManager(configDir, zerolog.Nop())
					if err != nil {
						return err
					}
					wm, err := manager.World()
					if err != nil {
						return err
					}
					catalog, err := manager.Catalog()
					if err != nil {
						return err
					}
					printWorldReport(analyzeWorld(wm, catalog, configDir))
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func loadCatalog(configDir string) (*parts.Catalog, error) {
	manager, err := config.NewManager(configDir, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	return manager.Catalog()
}

// partsReport collects the catalog audit findings.
type partsReport struct {
	TotalParts    int
	PickableParts int
	ByCategory    map[parts.SourceCategory]int

	// Requires entries naming a point no part provides.
	DanglingRequires map[parts.PartID][]string
	// MorphsTo entries naming parts missing from the catalog.
	BrokenMorphs map[parts.PartID][]parts.PartID
	// Morph children whose Master does not point back to a parent.
	OrphanChildren []parts.PartID
	// Starter car parts missing from the catalog.
	MissingStarters []parts.PartID
	// Road-legal stats no part in the catalog can contribute.
	UncoverableStats []string
}

func analyzeParts(catalog *parts.Catalog) *partsReport {
	report := &partsReport{
		ByCategory:       make(map[parts.SourceCategory]int),
		DanglingRequires: make(map[parts.PartID][]string),
		BrokenMorphs:     make(map[parts.PartID][]parts.PartID),
	}
	report.TotalParts = catalog.Len()
	report.PickableParts = len(catalog.PickableParts())

	provided := make(map[string]bool)
	for _, id := range catalog.AllIDs() {
		for _, pt := range catalog.Get(id).Provides {
			provided[pt.ID] = true
		}
	}

	for _, id := range catalog.AllIDs() {
		p := catalog.Get(id)

		if cat, ok := catalog.Category(id); ok {
			report.ByCategory[cat]++
		}

		for _, req := range p.Requires {
			if !provided[req] {
				report.DanglingRequires[id] = append(report.DanglingRequires[id], req)
			}
		}

		for _, childID := range p.MorphsTo {
			if catalog.Get(childID) == nil {
				report.BrokenMorphs[id] = append(report.BrokenMorphs[id], childID)
			}
		}

		if p.IsMorphChild() && catalog.Master(id) == nil {
			report.OrphanChildren = append(report.OrphanChildren, id)
		}
	}

	for _, id := range parts.DefaultCarParts() {
		if catalog.Get(id) == nil {
			report.MissingStarters = append(report.MissingStarters, id)
		}
	}

	// A road-legal car needs at least one source for each gating stat.
	stats := map[string]func(*parts.Part) bool{
		"engine":           func(p *parts.Part) bool { return p.Properties.EngineType > 0 },
		"tires":            func(p *parts.Part) bool { return p.Properties.Grip > 0 },
		"brake":            func(p *parts.Part) bool { return p.Properties.Brake > 0 },
		"fuel_consumption": func(p *parts.Part) bool { return p.Properties.FuelConsumption > 0 },
		"battery":          func(p *parts.Part) bool { return p.Properties.ElectricVolume > 0 },
		"fuel_tank":        func(p *parts.Part) bool { return p.Properties.FuelVolume > 0 },
		"gearbox":          func(p *parts.Part) bool { return p.Properties.Acceleration > 0 },
		"steering":         func(p *parts.Part) bool { return p.Properties.Steering > 0 },
	}
	for stat, has := range stats {
		covered := false
		for _, id := range catalog.AllIDs() {
			if has(catalog.Get(id)) {
				covered = true
				break
			}
		}
		if !covered {
			report.UncoverableStats = append(report.UncoverableStats, stat)
		}
	}
	sort.Strings(report.UncoverableStats)

	return report
}

func printPartsReport(r *partsReport) {
	fmt.Printf("Parts: %d total, %d pickable\n", r.TotalParts, r.PickableParts)
	for _, cat := range []parts.SourceCategory{parts.SourceJunkman, parts.SourceDestination, parts.SourceRandom} {
		fmt.Printf("  %s: %d\n", cat, r.ByCategory[cat])
	}

	ok := true
	if len(r.DanglingRequires) > 0 {
		ok = false
		fmt.Printf("\n⚠ %d parts require attachment points nothing provides:\n", len(r.DanglingRequires))
		for _, id := range sortedKeys(r.DanglingRequires) {
			fmt.Printf("  part %d: %v\n", id, r.DanglingRequires[id])
		}
	}
	if len(r.BrokenMorphs) > 0 {
		ok = false
		fmt.Printf("\n⚠ %d parts morph into missing parts:\n", len(r.BrokenMorphs))
		for _, id := range sortedKeys(r.BrokenMorphs) {
			fmt.Printf("  part %d: %v\n", id, r.BrokenMorphs[id])
		}
	}
	if len(r.OrphanChildren) > 0 {
		ok = false
		fmt.Printf("\n⚠ morph children without a catalog parent: %v\n", r.OrphanChildren)
	}
	if len(r.MissingStarters) > 0 {
		ok = false
		fmt.Printf("\n⚠ starter car parts missing from the catalog: %v\n", r.MissingStarters)
	}
	if len(r.UncoverableStats) > 0 {
		ok = false
		fmt.Printf("\n⚠ no part covers these road-legal stats: %v\n", r.UncoverableStats)
	}
	if ok {
		fmt.Println("\n✅ catalog is consistent and a road-legal car is buildable")
	}
}

// worldReport collects the world map audit findings.
type worldReport struct {
	Cols, Rows int
	TileCount  int
	Objects    map[world.ObjectType]int

	// Grid cells referencing a tile ID with no definition.
	UndefinedTiles []world.TileID
	// Destination objects without a dialog resource. The simulation skips
	// these at runtime with a warning.
	SilentDestinations []uint32
	// Reward part IDs missing from the catalog (0 means "random part" and
	// is always valid).
	UnknownRewardParts map[uint32][]parts.PartID
	// Tile topology names whose terrain file is absent. These tiles fall
	// back to open ground.
	MissingTerrain []string
}

func analyzeWorld(wm *world.WorldMap, catalog *parts.Catalog, configDir string) *worldReport {
	report := &worldReport{
		Cols:               wm.Cols(),
		Rows:               wm.Rows(),
		TileCount:          len(wm.Tiles),
		Objects:            make(map[world.ObjectType]int),
		UnknownRewardParts: make(map[uint32][]parts.PartID),
	}

	seenUndefined := make(map[world.TileID]bool)
	for row := 0; row < wm.Rows(); row++ {
		for col := 0; col < wm.Cols(); col++ {
			if wm.TileAt(col, row) == nil {
				id := wm.Grid[row][col]
				if !seenUndefined[id] {
					seenUndefined[id] = true
					report.UndefinedTiles = append(report.UndefinedTiles, id)
				}
			}
		}
	}
	sort.Slice(report.UndefinedTiles, func(i, j int) bool {
		return report.UndefinedTiles[i] < report.UndefinedTiles[j]
	})

	seenTerrain := make(map[string]bool)
	for _, tile := range wm.Tiles {
		if tile.Topology != "" && !seenTerrain[tile.Topology] {
			seenTerrain[tile.Topology] = true
			path := filepath.Join(configDir, "topology", tile.Topology)
			if _, err := os.Stat(path); err != nil {
				report.MissingTerrain = append(report.MissingTerrain, tile.Topology)
			}
		}

		for i := range tile.Objects {
			obj := &tile.Objects[i]
			report.Objects[obj.Type]++

			isDestination := obj.Type == world.ObjectDestination ||
				obj.Type == world.ObjectRandomDestination
			if isDestination && obj.DirResource == "" {
				report.SilentDestinations = append(report.SilentDestinations, obj.ID)
			}

			if obj.SetWhenDone != nil {
				for _, pid := range obj.SetWhenDone.Parts {
					if pid != 0 && catalog.Get(pid) == nil {
						report.UnknownRewardParts[obj.ID] = append(report.UnknownRewardParts[obj.ID], pid)
					}
				}
			}
		}
	}
	sort.Strings(report.MissingTerrain)
	sort.Slice(report.SilentDestinations, func(i, j int) bool {
		return report.SilentDestinations[i] < report.SilentDestinations[j]
	})

	return report
}

func printWorldReport(r *worldReport) {
	fmt.Printf("World: %dx%d grid, %d tile definitions\n", r.Cols, r.Rows, r.TileCount)

	types := make([]string, 0, len(r.Objects))
	for t := range r.Objects {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %s: %d\n", t, r.Objects[world.ObjectType(t)])
	}

	ok := true
	if len(r.UndefinedTiles) > 0 {
		ok = false
		fmt.Printf("\n⚠ grid references undefined tiles: %v\n", r.UndefinedTiles)
	}
	if len(r.SilentDestinations) > 0 {
		ok = false
		fmt.Printf("\n⚠ destinations without a dialog resource: %v\n", r.SilentDestinations)
	}
	if len(r.UnknownRewardParts) > 0 {
		ok = false
		fmt.Printf("\n⚠ rewards naming parts missing from the catalog:\n")
		for obj, ids := range r.UnknownRewardParts {
			fmt.Printf("  object %d: %v\n", obj, ids)
		}
	}
	if len(r.MissingTerrain) > 0 {
		// Informational only; tiles fall back to open ground.
		fmt.Printf("\n• terrain files not yet painted (open ground): %v\n", r.MissingTerrain)
	}
	if ok {
		fmt.Println("\n✅ world map is consistent")
	}
}

func sortedKeys[V any](m map[parts.PartID]V) []parts.PartID {
	keys := make([]parts.PartID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
