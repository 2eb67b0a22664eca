package assembly

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/parts"
)

// Default layer sort indices for parts whose primary point carries none.
const (
	defaultForegroundLayer = 8
	defaultBackgroundLayer = 7
)

// LivePoint is one attachment point currently present on the car, in car
// space. OccupiedBy is 0 while the point is free.
type LivePoint struct {
	ID         string
	Foreground int
	Background int
	Offset     parts.Offset
	OccupiedBy parts.PartID
}

// FreePoint is a snap target for the drag-and-drop layer, in world space.
type FreePoint struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// EventKind discriminates car mutation events.
type EventKind string

const (
	EventAttached EventKind = "attached"
	EventDetached EventKind = "detached"
)

// Event describes a successful car mutation. Detached events carry the
// resolved master ID and the world position the part occupied, so the
// caller can drop a loose representation there.
type Event struct {
	Kind     EventKind    `json:"kind"`
	PartID   parts.PartID `json:"part_id"`
	MasterID parts.PartID `json:"master_id,omitempty"`
	WorldX   int          `json:"world_x,omitempty"`
	WorldY   int          `json:"world_y,omitempty"`
}

// placedSprite caches the rendered layers of one placed part.
type placedSprite struct {
	partID parts.PartID
	fg     *Sprite
	bg     *Sprite
	layer  string
}

// Car is the vehicle under construction in the garage. It is not safe for
// concurrent use; callers serialize access at the session layer.
type Car struct {
	X int
	Y int

	placed     []parts.PartID
	points     map[string]*LivePoint
	usedPoints map[string]parts.PartID
	locked     bool

	sprites []placedSprite
	props   parts.CarProperties

	catalog *parts.Catalog
	assets  AssetResolver
	logger  zerolog.Logger
}

// NewCar creates a car at the given screen origin, seeded with the starter
// parts, with points and properties already built.
func NewCar(x, y int, catalog *parts.Catalog, assets AssetResolver, logger zerolog.Logger) *Car {
	car := &Car{
		X:       x,
		Y:       y,
		placed:  parts.DefaultCarParts(),
		catalog: catalog,
		assets:  assets,
		logger:  logger,
	}
	car.refresh()
	return car
}

// Parts returns a copy of the placed-part list in attach order.
func (c *Car) Parts() []parts.PartID {
	out := make([]parts.PartID, len(c.placed))
	copy(out, c.placed)
	return out
}

// SetParts replaces the placed-part list wholesale and rebuilds. Used when
// restoring a saved car; the list is trusted, not re-validated part by part.
func (c *Car) SetParts(ids []parts.PartID) {
	c.placed = make([]parts.PartID, len(ids))
	copy(c.placed, ids)
	c.refresh()
}

// Properties returns the aggregate of all placed parts. Always in sync with
// the placed list.
func (c *Car) Properties() parts.CarProperties {
	return c.props
}

// IsRoadLegal reports whether the current build may enter driving mode.
func (c *Car) IsRoadLegal() bool {
	return c.props.IsRoadLegal()
}

// Locked reports whether the car rejects modifications.
func (c *Car) Locked() bool {
	return c.locked
}

// SetLocked toggles the modification lock.
func (c *Car) SetLocked(locked bool) {
	c.locked = locked
}

// Attach places a part on the car. Returns nil with no effect if the car is
// locked, the part is unknown or a morph parent, or any required point is
// missing or occupied.
func (c *Car) Attach(partID parts.PartID) *Event {
	if c.locked {
		return nil
	}
	part := c.catalog.Get(partID)
	if part == nil {
		c.logger.Warn().Uint32("part_id", uint32(partID)).
			Msg("attach: part not in catalog")
		return nil
	}
	// Morph parents have no placed form. The caller picks a variant first.
	if part.IsMorphParent() {
		c.logger.Debug().Uint32("part_id", uint32(partID)).
			Msg("attach: morph parent is not attachable")
		return nil
	}
	if !c.CanAttach(part) {
		c.logger.Debug().Uint32("part_id", uint32(partID)).
			Msg("attach: required points not available")
		return nil
	}

	c.placed = append(c.placed, partID)
	c.refresh()
	return &Event{Kind: EventAttached, PartID: partID}
}

// Detach removes a placed part. Returns nil with no effect if the car is
// locked or the part is not placed. The event's world position is where the
// part sat before removal.
func (c *Car) Detach(partID parts.PartID) *Event {
	if c.locked {
		return nil
	}
	idx := -1
	for i, id := range c.placed {
		if id == partID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	masterID := c.catalog.ResolveMaster(partID)
	worldX, worldY := c.partWorldPosition(partID)

	c.placed = append(c.placed[:idx], c.placed[idx+1:]...)
	c.logger.Info().Uint32("part_id", uint32(partID)).
		Uint32("master_id", uint32(masterID)).
		Int("remaining", len(c.placed)).
		Msg("part detached")

	c.refresh()
	return &Event{
		Kind:     EventDetached,
		PartID:   partID,
		MasterID: masterID,
		WorldX:   worldX,
		WorldY:   worldY,
	}
}

// CanAttach reports whether every point the part requires exists on the car
// and is free.
func (c *Car) CanAttach(part *parts.Part) bool {
	for _, req := range part.Requires {
		point, ok := c.points[req]
		if !ok || point.OccupiedBy != 0 {
			return false
		}
	}
	return true
}

// FreeAttachmentPoints returns every unoccupied live point in world space,
// sorted by point ID for stable output.
func (c *Car) FreeAttachmentPoints() []FreePoint {
	var out []FreePoint
	for _, p := range c.points {
		if p.OccupiedBy == 0 {
			out = append(out, FreePoint{
				ID: p.ID,
				X:  c.X + p.Offset.X,
				Y:  c.Y + p.Offset.Y,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PartAt returns the topmost placed part whose foreground sprite has a drawn
// pixel at the screen point. Layering index decides ties, not attach order.
func (c *Car) PartAt(px, py int) (parts.PartID, bool) {
	var (
		best  parts.PartID
		bestZ int
		found bool
	)
	for _, ps := range c.sprites {
		if ps.fg == nil || !ps.fg.HitTest(px, py) {
			continue
		}
		if !found || ps.fg.ZOrder >= bestZ {
			best, bestZ, found = ps.partID, ps.fg.ZOrder, true
		}
	}
	return best, found
}

// Sprites returns all car sprites sorted ascending by layering index.
// Background sub-sprites precede foregrounds at equal order.
func (c *Car) Sprites() []Sprite {
	var out []Sprite
	for _, ps := range c.sprites {
		if ps.bg != nil {
			out = append(out, *ps.bg)
		}
		if ps.fg != nil {
			s := *ps.fg
			if ps.layer != "" {
				s.Name = fmt.Sprintf("%s@%s", s.Name, ps.layer)
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder < out[j].ZOrder })
	return out
}

func (c *Car) partWorldPosition(partID parts.PartID) (int, int) {
	if part := c.catalog.Get(partID); part != nil {
		return c.X + part.Offset.X, c.Y + part.Offset.Y
	}
	return c.X, c.Y
}

// refresh rebuilds points, sprites, and properties. Runs on every mutation
// so the car is never observed in a half-updated state.
func (c *Car) refresh() {
	c.rebuildPoints()
	c.rebuildSprites()
	c.props = c.catalog.Aggregate(c.placed)
}

// rebuildPoints recreates the live point set from scratch. Point IDs are
// globally unique so collection order does not matter.
func (c *Car) rebuildPoints() {
	c.points = make(map[string]*LivePoint)
	c.usedPoints = make(map[string]parts.PartID)

	// Pass 1: every placed part contributes its provided points.
	for _, pid := range c.placed {
		part := c.catalog.Get(pid)
		if part == nil {
			continue
		}
		for _, ap := range part.Provides {
			c.points[ap.ID] = &LivePoint{
				ID:         ap.ID,
				Foreground: ap.Foreground,
				Background: ap.Background,
				Offset:     ap.Offset,
			}
		}
	}

	// Pass 2: requirements occupy their points.
	for _, pid := range c.placed {
		part := c.catalog.Get(pid)
		if part == nil {
			continue
		}
		for _, req := range part.Requires {
			if point, ok := c.points[req]; ok {
				point.OccupiedBy = pid
				c.usedPoints[req] = pid
			}
		}
	}

	// Pass 3: covered points are blocked unless a requirement already
	// claimed them.
	for _, pid := range c.placed {
		part := c.catalog.Get(pid)
		if part == nil {
			continue
		}
		for _, cov := range part.Covers {
			if point, ok := c.points[cov]; ok && point.OccupiedBy == 0 {
				point.OccupiedBy = pid
				c.usedPoints[cov] = pid
			}
		}
	}
}

func (c *Car) rebuildSprites() {
	c.sprites = c.sprites[:0]

	for _, pid := range c.placed {
		part := c.catalog.Get(pid)
		if part == nil || !part.HasUseView() {
			continue
		}

		layer := part.PrimaryLayer()
		sortFG, sortBG := defaultForegroundLayer, defaultBackgroundLayer
		if point, ok := c.points[layer]; ok {
			sortFG, sortBG = point.Foreground, point.Background
		}

		ps := placedSprite{partID: pid, layer: layer}
		ps.fg = c.loadSprite(part.UseView, part.Offset, sortFG, pid)
		if part.UseView2 != "" {
			ps.bg = c.loadSprite(part.UseView2, part.Offset, sortBG, pid)
		}
		c.sprites = append(c.sprites, ps)
	}
}

func (c *Car) loadSprite(member string, offset parts.Offset, sortIndex int, pid parts.PartID) *Sprite {
	bmp, ok := c.assets.BitmapByName(member)
	if !ok {
		c.logger.Warn().Str("member", member).Uint32("part_id", uint32(pid)).
			Msg("view member not found")
		return nil
	}
	return &Sprite{
		Name:   fmt.Sprintf("car:%s#%d", member, pid),
		PartID: uint32(pid),
		X:      c.X + offset.X - bmp.RegX,
		Y:      c.Y + offset.Y - bmp.RegY,
		Width:  bmp.Width,
		Height: bmp.Height,
		ZOrder: sortIndex,
		bitmap: bmp,
	}
}
