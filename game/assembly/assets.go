package assembly

// Bitmap is a decoded, paletted view member. Pixel index 0 is transparent.
// A nil Pixels buffer means the bitmap is fully opaque (placeholder art).
type Bitmap struct {
	Width  int
	Height int
	// Registration point. Sprites are positioned so the registration point
	// lands on the part's anchor, not the top-left corner.
	RegX   int
	RegY   int
	Pixels []byte
}

// OpaqueAt reports whether the pixel at bitmap-local coordinates is drawn.
func (b *Bitmap) OpaqueAt(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	if b.Pixels == nil {
		return true
	}
	idx := y*b.Width + x
	if idx >= len(b.Pixels) {
		return false
	}
	return b.Pixels[idx] != 0
}

// AssetResolver resolves view member names to decoded bitmaps. Lookups are
// read-only and side-effect-free. The garage scene backs this with the
// game's media archive; tests back it with StaticAssets.
type AssetResolver interface {
	BitmapByName(name string) (*Bitmap, bool)
}

// StaticAssets is an in-memory AssetResolver.
type StaticAssets map[string]*Bitmap

func (s StaticAssets) BitmapByName(name string) (*Bitmap, bool) {
	b, ok := s[name]
	return b, ok
}

// Sprite is one renderable layer of a placed part.
type Sprite struct {
	Name   string
	PartID uint32
	X      int
	Y      int
	Width  int
	Height int
	ZOrder int

	bitmap *Bitmap
}

// HitTest reports whether a screen point lands on a drawn pixel of the
// sprite. Transparent pixels do not count.
func (s *Sprite) HitTest(px, py int) bool {
	return s.bitmap != nil && s.bitmap.OpaqueAt(px-s.X, py-s.Y)
}
