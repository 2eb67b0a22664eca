package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/assembly"
	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
	"github.com/tinkergarage/carworkshop/game/world"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	partsFileName   = "parts.json"
	worldFileName   = "world.json"
	assetsFileName  = "assets.json"
	topologyDirName = "topology"
)

// Manager handles game data loading and caching
type Manager struct {
	configDir  string
	logger     zerolog.Logger
	catalog    *parts.Catalog
	worldMap   *world.WorldMap
	assets     assembly.StaticAssets
	topologies map[string]*world.Topology
	mu         sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string, logger zerolog.Logger) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	return &Manager{
		configDir:  configDir,
		logger:     logger,
		topologies: make(map[string]*world.Topology),
	}, nil
}

// Catalog returns the part catalog, loading it on first use
func (m *Manager) Catalog() (*parts.Catalog, error) {
	m.mu.RLock()
	if m.catalog != nil {
		defer m.mu.RUnlock()
		return m.catalog, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if m.catalog != nil {
		return m.catalog, nil
	}

	data, err := m.readFile(partsFileName)
	if err != nil {
		return nil, err
	}

	catalog, err := parts.LoadCatalog(data, m.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.catalog = catalog
	return catalog, nil
}

// World returns the driving world map, loading it on first use
func (m *Manager) World() (*world.WorldMap, error) {
	m.mu.RLock()
	if m.worldMap != nil {
		defer m.mu.RUnlock()
		return m.worldMap, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.worldMap != nil {
		return m.worldMap, nil
	}

	data, err := m.readFile(worldFileName)
	if err != nil {
		return nil, err
	}

	wm, err := world.LoadWorldMap(data, m.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.worldMap = wm
	return wm, nil
}

// assetEntry is one view member in the asset manifest. Dimensions only;
// the manifest carries no pixel data, so every bitmap is a fully opaque
// placeholder sized and registered like the real art.
type assetEntry struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	RegX   int    `json:"reg_x"`
	RegY   int    `json:"reg_y"`
}

// Assets returns the view member bitmaps, loading the manifest on first
// use. A missing manifest is not an error; parts without bitmaps simply
// render no sprite.
func (m *Manager) Assets() assembly.AssetResolver {
	m.mu.RLock()
	if m.assets != nil {
		defer m.mu.RUnlock()
		return m.assets
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.assets != nil {
		return m.assets
	}

	assets := assembly.StaticAssets{}
	data, err := os.ReadFile(filepath.Join(m.configDir, assetsFileName))
	if err != nil {
		m.logger.Debug().Err(err).Msg("no asset manifest, parts render without sprites")
		m.assets = assets
		return assets
	}

	var entries []assetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		m.logger.Warn().Err(err).Msg("invalid asset manifest, parts render without sprites")
		m.assets = assets
		return assets
	}

	for _, e := range entries {
		if e.Name == "" || e.Width <= 0 || e.Height <= 0 {
			continue
		}
		assets[e.Name] = &assembly.Bitmap{
			Width:  e.Width,
			Height: e.Height,
			RegX:   e.RegX,
			RegY:   e.RegY,
		}
	}

	m.assets = assets
	return assets
}

// Topology returns the terrain bitmap for the named tile topology. A
// missing or unreadable terrain file yields open ground so the world
// stays drivable.
func (m *Manager) Topology(name string) *world.Topology {
	m.mu.RLock()
	if topo, exists := m.topologies[name]; exists {
		m.mu.RUnlock()
		return topo
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if topo, exists := m.topologies[name]; exists {
		return topo
	}

	topo := m.loadTopology(name)
	m.topologies[name] = topo
	return topo
}

// RefreshCache drops all cached data so the next load re-reads disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = nil
	m.worldMap = nil
	m.assets = nil
	m.topologies = make(map[string]*world.Topology)
}

func (m *Manager) loadTopology(name string) *world.Topology {
	empty := world.NewTopology(driving.TopoWidth, driving.TopoHeight, nil)
	if name == "" {
		return empty
	}

	path := filepath.Join(m.configDir, topologyDirName, sanitizeName(name))
	data, err := os.ReadFile(path)
	if err != nil {
		m.logger.Warn().Err(err).Str("topology", name).Msg("terrain file missing, using open ground")
		return empty
	}

	return world.NewTopology(driving.TopoWidth, driving.TopoHeight, data)
}

func (m *Manager) readFile(name string) ([]byte, error) {
	path := filepath.Join(m.configDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// sanitizeName keeps topology lookups inside the topology directory.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "_"
	}
	return name
}
