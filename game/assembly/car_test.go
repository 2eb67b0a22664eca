package assembly

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/parts"
)

func testCatalog(t *testing.T) *parts.Catalog {
	t.Helper()
	chassisPoints := []parts.AttachmentPoint{
		{ID: "#a1", Foreground: 10, Background: 2, Offset: parts.Offset{X: -60, Y: -10}},
		{ID: "#a2", Foreground: 12, Background: 1, Offset: parts.Offset{X: -45, Y: 25}},
		{ID: "#a3", Foreground: 12, Background: 1, Offset: parts.Offset{X: 45, Y: 25}},
		{ID: "#a4", Foreground: 9, Background: 3, Offset: parts.Offset{X: 30, Y: -5}},
		{ID: "#a5", Foreground: 14, Background: 4, Offset: parts.Offset{X: 0, Y: -20}},
		{ID: "#a6", Foreground: 8, Background: 2, Offset: parts.Offset{X: 10, Y: 5}},
		{ID: "#a7", Foreground: 8, Background: 2, Offset: parts.Offset{X: -20, Y: 20}},
		{ID: "#a8", Foreground: 15, Background: 5, Offset: parts.Offset{X: -55, Y: -25}},
		{ID: "#b1", Foreground: 7, Background: 1, Offset: parts.Offset{X: 20, Y: 10}},
		{ID: "#b2", Foreground: 13, Background: 3, Offset: parts.Offset{X: -5, Y: -15}},
	}

	catalog, err := parts.NewCatalog([]parts.Part{
		{ID: 1, JunkView: "00j001v0", UseView: "00b001v0",
			Properties: parts.PartProperties{Weight: 4}, Provides: chassisPoints},
		{ID: 82, JunkView: "00j082v0", UseView: "00b082v0",
			Offset:     parts.Offset{X: 20, Y: 10},
			Properties: parts.PartProperties{Weight: 2, ElectricVolume: 2},
			Requires:   []string{"#b1"}},
		{ID: 133, JunkView: "00j133v0", UseView: "00b133v0",
			Offset:     parts.Offset{X: 10, Y: 5},
			Properties: parts.PartProperties{Weight: 2, Acceleration: 3},
			Requires:   []string{"#a6"}},
		{ID: 152, JunkView: "00j152v0", UseView: "00b152v0",
			Offset:     parts.Offset{X: -20, Y: 20},
			Properties: parts.PartProperties{Weight: 1, Brake: 5},
			Requires:   []string{"#a7"}},
		{ID: 2, JunkView: "00j002v0", MorphsTo: []parts.PartID{3, 4}},
		{ID: 3, Master: 2, UseView: "00b003v0", UseView2: "00c003v0",
			Offset:     parts.Offset{X: -60, Y: -10},
			Properties: parts.PartProperties{Weight: 3, EngineType: 4, FuelConsumption: 4, Speed: 5},
			Requires:   []string{"#a1"}},
		{ID: 60, Master: 153, UseView: "00b060v0",
			Offset:     parts.Offset{X: -45, Y: 25},
			Properties: parts.PartProperties{Weight: 1, Grip: 2, Durability: 4},
			Requires:   []string{"#a2"}},
		{ID: 121, JunkView: "00j121v0", UseView: "00b121v0",
			Offset:     parts.Offset{X: 30, Y: -5},
			Properties: parts.PartProperties{Weight: 1, FuelVolume: 10},
			Requires:   []string{"#a4"}},
		{ID: 140, JunkView: "00j140v0", UseView: "00b140v0",
			Offset:     parts.Offset{X: -55, Y: -25},
			Properties: parts.PartProperties{Horn: 1, HornType: 2},
			Requires:   []string{"#a8"}},
		// Roof rack: occupies the seat point and blocks the horn point.
		{ID: 30, JunkView: "00j030v0", UseView: "00b030v0",
			Offset:   parts.Offset{X: -5, Y: -15},
			Requires: []string{"#b2"},
			Covers:   []string{"#a8"}},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return catalog
}

// testAssets serves a fully opaque 20x10 bitmap for every member a test
// part references, and a larger centered one for the chassis so smaller
// parts overlap it.
func testAssets() StaticAssets {
	assets := StaticAssets{}
	for _, name := range []string{
		"00b082v0", "00b133v0", "00b152v0",
		"00b003v0", "00c003v0", "00b060v0", "00b121v0",
		"00b140v0", "00b030v0",
	} {
		assets[name] = &Bitmap{Width: 20, Height: 10}
	}
	assets["00b001v0"] = &Bitmap{Width: 200, Height: 100, RegX: 100, RegY: 50}
	return assets
}

func testCar(t *testing.T) *Car {
	t.Helper()
	return NewCar(300, 220, testCatalog(t), testAssets(), zerolog.Nop())
}

func TestNewCarStarterState(t *testing.T) {
	car := testCar(t)

	placed := car.Parts()
	if len(placed) != 4 {
		t.Fatalf("starter car has %d parts, want 4", len(placed))
	}
	if props := car.Properties(); props.Weight != 9 {
		t.Errorf("starter weight = %d, want 9", props.Weight)
	}
	if car.IsRoadLegal() {
		t.Error("starter car must not be road-legal")
	}
}

func TestAttachSuccess(t *testing.T) {
	car := testCar(t)

	event := car.Attach(121)
	if event == nil {
		t.Fatal("attaching the fuel tank should succeed")
	}
	if event.Kind != EventAttached || event.PartID != 121 {
		t.Errorf("event = %+v", event)
	}
	if props := car.Properties(); props.FuelVolume != 10 {
		t.Errorf("FuelVolume = %d, want 10 immediately after attach", props.FuelVolume)
	}
}

func TestAttachOccupiedPoint(t *testing.T) {
	car := testCar(t)

	// #b1 is taken by the starter battery.
	if event := car.Attach(82); event != nil {
		t.Errorf("attach onto an occupied point returned %+v, want nil", event)
	}
	if len(car.Parts()) != 4 {
		t.Error("failed attach must not modify the placed list")
	}
}

func TestAttachUnknownAndMorphParent(t *testing.T) {
	car := testCar(t)

	if event := car.Attach(999); event != nil {
		t.Errorf("attach of unknown part returned %+v, want nil", event)
	}
	if event := car.Attach(2); event != nil {
		t.Errorf("attach of morph parent returned %+v, want nil", event)
	}
	if event := car.Attach(3); event == nil {
		t.Error("attach of morph variant should succeed")
	}
}

func TestLockedCarRejectsChanges(t *testing.T) {
	car := testCar(t)
	car.SetLocked(true)

	if event := car.Attach(121); event != nil {
		t.Errorf("locked attach returned %+v, want nil", event)
	}
	if event := car.Detach(152); event != nil {
		t.Errorf("locked detach returned %+v, want nil", event)
	}
}

func TestDetachResolvesMasterAndPosition(t *testing.T) {
	car := testCar(t)
	if car.Attach(60) == nil {
		t.Fatal("attaching tires should succeed")
	}

	event := car.Detach(60)
	if event == nil {
		t.Fatal("detach of a placed part should succeed")
	}
	if event.MasterID != 153 {
		t.Errorf("MasterID = %d, want 153 (tires return to loose form)", event.MasterID)
	}
	// Origin (300, 220) + part offset (-45, 25), captured before removal.
	if event.WorldX != 255 || event.WorldY != 245 {
		t.Errorf("world position = (%d, %d), want (255, 245)", event.WorldX, event.WorldY)
	}

	if event := car.Detach(60); event != nil {
		t.Errorf("second detach returned %+v, want nil", event)
	}
}

func TestDetachFreesPoint(t *testing.T) {
	car := testCar(t)

	if car.Detach(152) == nil {
		t.Fatal("detaching the brake should succeed")
	}
	for _, fp := range car.FreeAttachmentPoints() {
		if fp.ID == "#a7" {
			return
		}
	}
	t.Error("#a7 should be free after detaching the brake")
}

func TestFreeAttachmentPoints(t *testing.T) {
	car := testCar(t)

	free := car.FreeAttachmentPoints()
	// 10 chassis points minus #b1, #a6, #a7 taken by starter parts.
	if len(free) != 7 {
		t.Fatalf("free points = %d, want 7", len(free))
	}
	for _, fp := range free {
		if fp.ID == "#a4" {
			if fp.X != 330 || fp.Y != 215 {
				t.Errorf("#a4 world position = (%d, %d), want (330, 215)", fp.X, fp.Y)
			}
			return
		}
	}
	t.Error("#a4 missing from free points")
}

func TestCoversBlocksPoint(t *testing.T) {
	car := testCar(t)

	// The roof rack sits on #b2 and covers the horn point #a8.
	if car.Attach(30) == nil {
		t.Fatal("attaching the roof rack should succeed")
	}
	if event := car.Attach(140); event != nil {
		t.Errorf("horn attached onto a covered point: %+v", event)
	}

	if car.Detach(30) == nil {
		t.Fatal("detaching the roof rack should succeed")
	}
	if car.Attach(140) == nil {
		t.Error("horn should attach once the covering part is gone")
	}
}

func TestUsedPointsInvariant(t *testing.T) {
	car := testCar(t)
	car.Attach(3)
	car.Attach(60)
	car.Detach(133)
	car.Attach(30)
	car.Detach(60)

	for pointID := range car.usedPoints {
		if _, ok := car.points[pointID]; !ok {
			t.Errorf("used point %s missing from live point set", pointID)
		}
	}
	for _, pid := range car.placed {
		part := car.catalog.Get(pid)
		for _, req := range part.Requires {
			point, ok := car.points[req]
			if !ok || point.OccupiedBy != pid {
				t.Errorf("required point %s of part %d not occupied by it", req, pid)
			}
		}
	}
}

func TestSpritesSortedAscending(t *testing.T) {
	car := testCar(t)
	car.Attach(3)

	sprites := car.Sprites()
	if len(sprites) == 0 {
		t.Fatal("expected sprites for placed parts")
	}
	for i := 1; i < len(sprites); i++ {
		if sprites[i-1].ZOrder > sprites[i].ZOrder {
			t.Fatalf("sprites out of order at %d: %d > %d", i, sprites[i-1].ZOrder, sprites[i].ZOrder)
		}
	}

	// The engine has two views; both layers must be present.
	var fg, bg bool
	for _, s := range sprites {
		if strings.HasPrefix(s.Name, "car:00b003v0") {
			fg = true
		}
		if strings.HasPrefix(s.Name, "car:00c003v0") {
			bg = true
		}
	}
	if !fg || !bg {
		t.Errorf("engine sub-sprites missing: fg=%v bg=%v", fg, bg)
	}
}

func TestPartAtTopmostWins(t *testing.T) {
	catalog := testCatalog(t)
	assets := testAssets()
	car := NewCar(300, 220, catalog, assets, zerolog.Nop())
	car.Attach(3)

	// The engine (#a1, fg layer 10) overlaps the chassis (layer 8) around
	// the engine anchor. Both bitmaps are opaque boxes at their anchor.
	px := 300 + (-60)
	py := 220 + (-10)
	id, ok := car.PartAt(px, py)
	if !ok {
		t.Fatal("expected a hit at the engine anchor")
	}
	if id != 3 {
		t.Errorf("PartAt = %d, want 3 (higher layer wins)", id)
	}

	if _, ok := car.PartAt(-1000, -1000); ok {
		t.Error("expected no hit far outside the car")
	}
}

func TestPartAtSkipsTransparentPixels(t *testing.T) {
	catalog := testCatalog(t)
	assets := testAssets()

	// Engine bitmap with a transparent left half.
	px := make([]byte, 20*10)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			px[y*20+x] = 1
		}
	}
	assets["00b003v0"] = &Bitmap{Width: 20, Height: 10, Pixels: px}

	car := NewCar(300, 220, catalog, assets, zerolog.Nop())
	car.Attach(3)

	baseX, baseY := 300-60, 220-10
	if id, ok := car.PartAt(baseX+2, baseY+2); ok && id == 3 {
		t.Error("transparent engine pixel should not hit the engine")
	}
	if id, ok := car.PartAt(baseX+12, baseY+2); !ok || id != 3 {
		t.Errorf("opaque engine pixel: got (%d, %v), want (3, true)", id, ok)
	}
}

func TestSetPartsRebuilds(t *testing.T) {
	car := testCar(t)

	car.SetParts([]parts.PartID{1, 3, 60})
	if props := car.Properties(); props.EngineType != 4 || props.TireCount != 1 {
		t.Errorf("properties after SetParts = %+v", props)
	}
	if len(car.Parts()) != 3 {
		t.Errorf("placed = %d parts, want 3", len(car.Parts()))
	}
}
