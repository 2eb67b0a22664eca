package driving

// Session is the opaque save/restore snapshot of a driving session. Saved
// when the player enters a destination, restored when they come back out,
// with identical physics state.
type Session struct {
	TileCol   int     `json:"tile_col"`
	TileRow   int     `json:"tile_row"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
	Fuel      float64 `json:"fuel"`
	Active    bool    `json:"active"`
}

// SaveSession snapshots the resumable driving state.
func (c *Car) SaveSession() Session {
	return Session{
		TileCol:   c.TileCol,
		TileRow:   c.TileRow,
		X:         c.X,
		Y:         c.Y,
		Direction: c.Direction,
		Fuel:      c.Fuel,
		Active:    true,
	}
}

// RestoreSession resumes from a snapshot. Speed always restarts at zero.
func (c *Car) RestoreSession(s Session) {
	c.TileCol = s.TileCol
	c.TileRow = s.TileRow
	c.X = s.X
	c.Y = s.Y
	c.Direction = NormalizeDirection(s.Direction)
	c.InternalDirection = float64(c.Direction) * headingUnitsPerStep
	c.Fuel = s.Fuel
	c.FuelEmpty = s.Fuel <= 0
	c.Speed = 0
}
