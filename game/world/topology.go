package world

// Topology is the coarse terrain bitmap of one tile. Values encode walls,
// mud, holes, and altitude; the driving physics interprets them.
type Topology struct {
	Width  int
	Height int
	Data   []byte
}

// NewTopology wraps a terrain buffer. A short buffer is padded with zeros
// (open ground) rather than rejected.
func NewTopology(width, height int, data []byte) *Topology {
	if len(data) < width*height {
		padded := make([]byte, width*height)
		copy(padded, data)
		data = padded
	}
	return &Topology{Width: width, Height: height, Data: data}
}

// At samples the terrain value at a topology coordinate, clamping to the
// bitmap edges.
func (t *Topology) At(x, y int) byte {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return 0
	}
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Data[y*t.Width+x]
}

// Fill sets every cell to the same terrain value. Test helper and default
// open-ground topology for tiles without terrain data.
func (t *Topology) Fill(value byte) {
	for i := range t.Data {
		t.Data[i] = value
	}
}
