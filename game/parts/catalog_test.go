package parts

import (
	"testing"

	"github.com/rs/zerolog"
)

// testParts builds a compact catalog covering the starter car, a morphing
// engine, morphing tires, and the remaining road-legality contributors.
func testParts() []Part {
	chassisPoints := []AttachmentPoint{
		{ID: "#a1", Foreground: 10, Background: 2, Offset: Offset{X: -60, Y: -10}},
		{ID: "#a2", Foreground: 12, Background: 1, Offset: Offset{X: -45, Y: 25}},
		{ID: "#a3", Foreground: 12, Background: 1, Offset: Offset{X: 45, Y: 25}},
		{ID: "#a4", Foreground: 9, Background: 3, Offset: Offset{X: 30, Y: -5}},
		{ID: "#a5", Foreground: 14, Background: 4, Offset: Offset{X: 0, Y: -20}},
		{ID: "#a6", Foreground: 8, Background: 2, Offset: Offset{X: 10, Y: 5}},
		{ID: "#a7", Foreground: 8, Background: 2, Offset: Offset{X: -20, Y: 20}},
		{ID: "#a8", Foreground: 15, Background: 5, Offset: Offset{X: -55, Y: -25}},
		{ID: "#b1", Foreground: 7, Background: 1, Offset: Offset{X: 20, Y: 10}},
		{ID: "#b2", Foreground: 13, Background: 3, Offset: Offset{X: -5, Y: -15}},
	}

	return []Part{
		{
			ID: 1, Description: "chassis", JunkView: "00j001v0", UseView: "00b001v0",
			Properties: PartProperties{Weight: 4},
			Provides:   chassisPoints,
		},
		{
			ID: 82, Description: "battery", JunkView: "00j082v0", UseView: "00b082v0",
			Offset:     Offset{X: 20, Y: 10},
			Properties: PartProperties{Weight: 2, ElectricVolume: 2},
			Requires:   []string{"#b1"},
		},
		{
			ID: 133, Description: "gearbox", JunkView: "00j133v0", UseView: "00b133v0",
			Offset:     Offset{X: 10, Y: 5},
			Properties: PartProperties{Weight: 2, Acceleration: 3},
			Requires:   []string{"#a6"},
		},
		{
			ID: 152, Description: "brake", JunkView: "00j152v0", UseView: "00b152v0",
			Offset:     Offset{X: -20, Y: 20},
			Properties: PartProperties{Weight: 1, Brake: 5},
			Requires:   []string{"#a7"},
		},
		{
			ID: 2, Description: "engine (loose)", JunkView: "00j002v0",
			MorphsTo: []PartID{3, 4},
		},
		{
			ID: 3, Master: 2, Description: "big engine", UseView: "00b003v0",
			UseView2:   "00c003v0",
			Offset:     Offset{X: -60, Y: -10},
			Properties: PartProperties{Weight: 3, EngineType: 4, FuelConsumption: 4, Speed: 5},
			Requires:   []string{"#a1"},
		},
		{
			ID: 4, Master: 2, Description: "small engine", UseView: "00b004v0",
			Offset:     Offset{X: -60, Y: -10},
			Properties: PartProperties{Weight: 1, EngineType: 1, FuelConsumption: 1, Speed: 2},
			Requires:   []string{"#a1"},
		},
		{
			ID: 153, Description: "tires (loose)", JunkView: "00j153v0",
			MorphsTo: []PartID{60, 61},
		},
		{
			ID: 60, Master: 153, Description: "front tires", UseView: "00b060v0",
			Offset:     Offset{X: -45, Y: 25},
			Properties: PartProperties{Weight: 1, Grip: 2, Durability: 4},
			Requires:   []string{"#a2"},
		},
		{
			ID: 61, Master: 153, Description: "rear tires", UseView: "00b061v0",
			Offset:     Offset{X: 45, Y: 25},
			Properties: PartProperties{Weight: 1, Grip: 2, Durability: 4},
			Requires:   []string{"#a3"},
		},
		{
			ID: 121, Description: "fuel tank", JunkView: "00j121v0", UseView: "00b121v0",
			Offset:     Offset{X: 30, Y: -5},
			Properties: PartProperties{Weight: 1, FuelVolume: 10},
			Requires:   []string{"#a4"},
		},
		{
			ID: 130, Description: "steering wheel", JunkView: "00j130v0", UseView: "00b130v0",
			Offset:     Offset{X: 0, Y: -20},
			Properties: PartProperties{Weight: 1, Steering: 5, Strength: 4},
			Requires:   []string{"#a5"},
		},
		{
			ID: 140, Description: "horn", JunkView: "00j140v0", UseView: "00b140v0",
			Offset:     Offset{X: -55, Y: -25},
			Properties: PartProperties{Horn: 1, HornType: 2, FunnyFactor: 2},
			Requires:   []string{"#a8"},
		},
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(testParts(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return catalog
}

func TestLoadCatalogRejectsEmpty(t *testing.T) {
	if _, err := LoadCatalog([]byte(`{"parts":[]}`), zerolog.Nop()); err != ErrEmptyCatalog {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestLoadCatalogRejectsDuplicates(t *testing.T) {
	data := []byte(`{"parts":[{"part_id":1},{"part_id":1}]}`)
	if _, err := LoadCatalog(data, zerolog.Nop()); err == nil {
		t.Error("expected duplicate ID error, got nil")
	}
}

func TestPropertiesCaseInsensitiveKeys(t *testing.T) {
	data := []byte(`{"parts":[
		{"part_id":10,"properties":{"EngineType":4,"Fuelconsumption":3,"break":5,"weight":2}},
		{"part_id":11,"properties":{"enginetype":1,"fuel_consumption":2,"brake":1}}
	]}`)
	catalog, err := LoadCatalog(data, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	p10 := catalog.Get(10)
	if p10.Properties.EngineType != 4 {
		t.Errorf("EngineType = %d, want 4", p10.Properties.EngineType)
	}
	if p10.Properties.FuelConsumption != 3 {
		t.Errorf("FuelConsumption = %d, want 3", p10.Properties.FuelConsumption)
	}
	if p10.Properties.Brake != 5 {
		t.Errorf("Brake = %d, want 5 (from \"break\")", p10.Properties.Brake)
	}

	p11 := catalog.Get(11)
	if p11.Properties.EngineType != 1 || p11.Properties.FuelConsumption != 2 || p11.Properties.Brake != 1 {
		t.Errorf("part 11 properties = %+v", p11.Properties)
	}
}

func TestMorphParentChild(t *testing.T) {
	catalog := testCatalog(t)

	parent := catalog.Get(2)
	if parent == nil || !parent.IsMorphParent() {
		t.Fatal("part 2 should be a morph parent")
	}
	if parent.HasUseView() {
		t.Error("morph parents must not have a placed view")
	}

	morphs := catalog.Morphs(2)
	if len(morphs) != 2 {
		t.Fatalf("Morphs(2) returned %d parts, want 2", len(morphs))
	}

	child := catalog.Get(3)
	if !child.IsMorphChild() {
		t.Error("part 3 should be a morph child")
	}
	if master := catalog.Master(3); master == nil || master.ID != 2 {
		t.Errorf("Master(3) = %v, want part 2", master)
	}
}

func TestResolveMaster(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		id   PartID
		want PartID
	}{
		{3, 2},    // morph child resolves to parent
		{60, 153}, // tire variant resolves to loose tires
		{1, 1},    // standalone resolves to itself
		{999, 999}, // unknown resolves to itself
	}
	for _, tt := range tests {
		if got := catalog.ResolveMaster(tt.id); got != tt.want {
			t.Errorf("ResolveMaster(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestPickablePartsExcludeMorphChildren(t *testing.T) {
	catalog := testCatalog(t)

	for _, p := range catalog.PickableParts() {
		if p.IsMorphChild() {
			t.Errorf("pickable view contains morph child %d", p.ID)
		}
		if !p.HasJunkView() {
			t.Errorf("pickable view contains part %d without junk view", p.ID)
		}
	}
}

func TestPartsForPoint(t *testing.T) {
	catalog := testCatalog(t)

	engines := catalog.PartsForPoint("#a1")
	if len(engines) != 2 {
		t.Fatalf("PartsForPoint(#a1) returned %d parts, want 2", len(engines))
	}
	if engines[0].ID != 3 || engines[1].ID != 4 {
		t.Errorf("PartsForPoint(#a1) = [%d %d], want [3 4]", engines[0].ID, engines[1].ID)
	}
}

func TestPrimaryLayer(t *testing.T) {
	catalog := testCatalog(t)

	if layer := catalog.Get(1).PrimaryLayer(); layer != "" {
		t.Errorf("chassis layer = %q, want empty", layer)
	}
	if layer := catalog.Get(82).PrimaryLayer(); layer != "#b1" {
		t.Errorf("battery layer = %q, want #b1", layer)
	}
}

func TestCategory(t *testing.T) {
	catalog := testCatalog(t)

	if cat, ok := catalog.Category(133); !ok || cat != SourceJunkman {
		t.Errorf("Category(133) = %v/%v, want junkman", cat, ok)
	}
	if cat, ok := catalog.Category(121); !ok || cat != SourceDestination {
		t.Errorf("Category(121) = %v/%v, want destination", cat, ok)
	}
	if _, ok := catalog.Category(1); ok {
		t.Error("chassis should have no source category")
	}
}
