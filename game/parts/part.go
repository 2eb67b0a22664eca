package parts

// PartID identifies a part in the catalog. IDs are unique across the whole
// catalog, including morph variants.
type PartID uint32

// Offset is a 2D pixel offset relative to a part or car origin.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AttachmentPoint is a slot a part provides once it is placed on the car.
// The ID is shared with the Requires/Covers lists of other parts
// (e.g. "#a6").
type AttachmentPoint struct {
	ID string `json:"id"`
	// Layer sort indices for the foreground and background view of
	// whatever part occupies this point.
	Foreground int    `json:"foreground"`
	Background int    `json:"background"`
	Offset     Offset `json:"offset"`
}

// PartProperties holds the gameplay-relevant stats of a single part.
// All values are signed; zero means "does not contribute".
type PartProperties struct {
	Weight              int `json:"weight"`
	Speed               int `json:"speed"`
	Brake               int `json:"brake"`
	Durability          int `json:"durability"`
	Grip                int `json:"grip"`
	Steering            int `json:"steering"`
	Acceleration        int `json:"acceleration"`
	Strength            int `json:"strength"`
	FuelConsumption     int `json:"fuel_consumption"`
	FuelVolume          int `json:"fuel_volume"`
	ElectricConsumption int `json:"electric_consumption"`
	ElectricVolume      int `json:"electric_volume"`
	Comfort             int `json:"comfort"`
	FunnyFactor         int `json:"funny_factor"`
	Horn                int `json:"horn"`
	HornType            int `json:"horn_type"`
	ExhaustPipe         int `json:"exhaust_pipe"`
	Lamps               int `json:"lamps"`
	Pedals              int `json:"pedals"`
	LoadCapacity        int `json:"load_capacity"`
	EngineType          int `json:"engine_type"`
	Color               int `json:"color"`
}

// Part is a single catalog entry. Parts are immutable after catalog load.
type Part struct {
	ID PartID `json:"part_id"`

	// Master is 0 for standalone parts. Nonzero means this part is one
	// concrete variant of the parent part with that ID.
	Master PartID `json:"master"`

	// MorphsTo lists the variant IDs a morph-parent can present.
	// Only morph parents carry entries here.
	MorphsTo []PartID `json:"morphs_to,omitempty"`

	Description string `json:"description,omitempty"`

	// Renderable view member names resolved through the asset collaborator.
	// JunkView is the loose/scrapyard representation, UseView the primary
	// placed view, UseView2 the optional background sub-view.
	JunkView string `json:"junk_view,omitempty"`
	UseView  string `json:"use_view,omitempty"`
	UseView2 string `json:"use_view2,omitempty"`

	Offset     Offset         `json:"offset"`
	Properties PartProperties `json:"properties"`

	// Requires lists the attachment points that must exist and be free for
	// this part to attach. Covers lists points this part blocks once placed.
	// Provides lists the new points the part contributes to the car.
	Requires []string          `json:"requires,omitempty"`
	Covers   []string          `json:"covers,omitempty"`
	Provides []AttachmentPoint `json:"provides,omitempty"`
}

// IsMorphParent reports whether the part only exists to present variants.
// Morph parents have no renderable placed view and are never directly
// attachable.
func (p *Part) IsMorphParent() bool {
	return len(p.MorphsTo) > 0 && p.UseView == ""
}

// IsMorphChild reports whether the part is a concrete variant of a parent.
func (p *Part) IsMorphChild() bool {
	return p.Master != 0
}

// HasJunkView reports whether the part can appear as a loose pickable part.
func (p *Part) HasJunkView() bool {
	return p.JunkView != ""
}

// HasUseView reports whether the part can be rendered on a car.
func (p *Part) HasUseView() bool {
	return p.UseView != ""
}

// PrimaryLayer returns the attachment-point ID that determines the part's
// rendering layer: its first required point, or "" for parts that require
// nothing (the chassis).
func (p *Part) PrimaryLayer() string {
	if len(p.Requires) == 0 {
		return ""
	}
	return p.Requires[0]
}
