package parts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyCatalog = errors.New("catalog contains no parts")
	ErrDuplicateID  = errors.New("duplicate part ID in catalog")
)

// SourceCategory classifies where a part can be found in the world.
type SourceCategory string

const (
	// SourceJunkman parts are handed out by the traveling junk dealer.
	SourceJunkman SourceCategory = "junkman"
	// SourceDestination parts are rewards at fixed destinations.
	SourceDestination SourceCategory = "destination"
	// SourceRandom parts spawn at randomized locations.
	SourceRandom SourceCategory = "random"
)

// Catalog is the immutable, load-once table of every part definition.
// All lookups are read-only; the catalog is safe for concurrent readers.
type Catalog struct {
	parts  map[PartID]*Part
	logger zerolog.Logger
}

// catalogFile mirrors the JSON schema of a catalog config file.
type catalogFile struct {
	Name  string `json:"name,omitempty"`
	Parts []Part `json:"parts"`
}

// LoadCatalog decodes a part catalog from JSON data. Property keys inside
// "properties" objects are matched case-insensitively because the source
// data mixes spellings ("FuelConsumption" vs "Fuelconsumption"), and the
// brake stat is historically spelled "break".
func LoadCatalog(data []byte, logger zerolog.Logger) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(file.Parts) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		parts:  make(map[PartID]*Part, len(file.Parts)),
		logger: logger,
	}
	for i := range file.Parts {
		p := &file.Parts[i]
		if _, exists := c.parts[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.parts[p.ID] = p
	}

	logger.Info().Int("parts", len(c.parts)).Str("catalog", file.Name).
		Msg("part catalog loaded")
	return c, nil
}

// NewCatalog builds a catalog directly from part definitions. Used by tests
// and by callers that assemble the catalog from non-JSON sources.
func NewCatalog(defs []Part, logger zerolog.Logger) (*Catalog, error) {
	raw, err := json.Marshal(catalogFile{Parts: defs})
	if err != nil {
		return nil, err
	}
	return LoadCatalog(raw, logger)
}

// Get returns a part by ID, or nil if the ID is unknown.
func (c *Catalog) Get(id PartID) *Part {
	return c.parts[id]
}

// Len returns the total number of parts in the catalog.
func (c *Catalog) Len() int {
	return len(c.parts)
}

// AllIDs returns every part ID in ascending order.
func (c *Catalog) AllIDs() []PartID {
	ids := make([]PartID, 0, len(c.parts))
	for id := range c.parts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Morphs returns the concrete variants of a morph-parent part. Unknown or
// non-parent IDs yield an empty slice.
func (c *Catalog) Morphs(parentID PartID) []*Part {
	parent := c.parts[parentID]
	if parent == nil {
		return nil
	}
	out := make([]*Part, 0, len(parent.MorphsTo))
	for _, id := range parent.MorphsTo {
		if child := c.parts[id]; child != nil {
			out = append(out, child)
		} else {
			c.logger.Warn().Uint32("part_id", uint32(id)).
				Uint32("parent_id", uint32(parentID)).
				Msg("morph variant not in catalog")
		}
	}
	return out
}

// Master returns the parent part of a morph child, or nil for standalone
// parts.
func (c *Catalog) Master(id PartID) *Part {
	part := c.parts[id]
	if part == nil || part.Master == 0 {
		return nil
	}
	return c.parts[part.Master]
}

// ResolveMaster maps a part ID to the identity a detached part returns to:
// the part's own ID for standalone parts, the parent's ID for morph
// children. Unknown IDs resolve to themselves.
func (c *Catalog) ResolveMaster(id PartID) PartID {
	if part := c.parts[id]; part != nil && part.Master != 0 {
		return part.Master
	}
	return id
}

// PickableParts returns every part that may appear standalone in the world:
// parts with a junk view that are not morph children. Morph children only
// ever appear through their parent.
func (c *Catalog) PickableParts() []*Part {
	var out []*Part
	for _, p := range c.parts {
		if p.HasJunkView() && !p.IsMorphChild() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PartsForPoint returns the parts whose Requires list names the given
// attachment point.
func (c *Catalog) PartsForPoint(pointID string) []*Part {
	var out []*Part
	for _, p := range c.parts {
		for _, req := range p.Requires {
			if req == pointID {
				out = append(out, p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Category returns the world-source category of a part, if it has one.
func (c *Catalog) Category(id PartID) (SourceCategory, bool) {
	for _, jid := range junkmanPartIDs {
		if jid == id {
			return SourceJunkman, true
		}
	}
	for _, did := range destinationPartIDs {
		if did == id {
			return SourceDestination, true
		}
	}
	for _, rid := range randomPartIDs {
		if rid == id {
			return SourceRandom, true
		}
	}
	return "", false
}

// DefaultCarParts returns the starter car: chassis, battery, gearbox, brake.
func DefaultCarParts() []PartID {
	return []PartID{1, 82, 133, 152}
}

// Source category tables. The IDs come from the shipped game data and are
// stable across catalogs.
var (
	junkmanPartIDs = []PartID{
		2, 6, 9, 12, 14, 17, 19, 21, 23, 24, 25, 29, 30, 31, 33, 41,
		43, 53, 54, 64, 65, 69, 74, 75, 91, 99, 100, 112, 119, 120,
		129, 130, 131, 132, 133, 149, 153, 154, 161, 172, 230, 242,
		248, 260, 272, 273, 288, 291, 297, 307,
	}
	destinationPartIDs = []PartID{5, 13, 35, 101, 121, 137, 200, 254, 283}
	randomPartIDs      = []PartID{
		18, 20, 22, 26, 27, 28, 32, 38, 42, 89, 90, 92, 108, 116,
		127, 140, 141, 143, 147, 155, 158, 162, 167, 168, 173, 174,
		175, 176, 177, 181, 184, 185, 186, 189, 190, 191, 192, 193,
		195, 203, 208, 209, 210, 211, 212, 213, 214, 221, 222, 227,
		228, 229, 233,
	}
)

// UnmarshalJSON decodes part properties with case-insensitive keys and the
// historical "break" spelling for the brake stat.
func (pp *PartProperties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	get := func(key string) int {
		for k, v := range raw {
			if strings.EqualFold(strings.ReplaceAll(k, "_", ""), key) {
				n, err := v.Int64()
				if err != nil {
					return 0
				}
				return int(n)
			}
		}
		return 0
	}

	pp.Weight = get("weight")
	pp.Speed = get("speed")
	if b := get("break"); b != 0 {
		pp.Brake = b
	} else {
		pp.Brake = get("brake")
	}
	pp.Durability = get("durability")
	pp.Grip = get("grip")
	pp.Steering = get("steering")
	pp.Acceleration = get("acceleration")
	pp.Strength = get("strength")
	pp.FuelConsumption = get("fuelconsumption")
	pp.FuelVolume = get("fuelvolume")
	pp.ElectricConsumption = get("electricconsumption")
	pp.ElectricVolume = get("electricvolume")
	pp.Comfort = get("comfort")
	pp.FunnyFactor = get("funnyfactor")
	pp.Horn = get("horn")
	pp.HornType = get("horntype")
	pp.ExhaustPipe = get("exhaustpipe")
	pp.Lamps = get("lamps")
	pp.Pedals = get("pedals")
	pp.LoadCapacity = get("loadcapacity")
	pp.EngineType = get("enginetype")
	pp.Color = get("color")
	return nil
}
