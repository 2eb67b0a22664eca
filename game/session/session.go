package session

import (
	"time"

	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
)

// Session is the persistable record for one player. It carries no live
// game state; the service layer builds cars and drives from it.
type Session struct {
	ID             string
	CarParts       []parts.PartID
	OwnedParts     []parts.PartID
	CacheFlags     []string
	Medals         []string
	Missions       []string
	Drive          *driving.Session
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// newSession seeds a fresh record with the default starter car. The
// starter parts are also owned, so detaching one keeps it in the garage.
func newSession(id string) *Session {
	now := time.Now()
	starter := parts.DefaultCarParts()
	owned := make([]parts.PartID, len(starter))
	copy(owned, starter)
	return &Session{
		ID:             id,
		CarParts:       starter,
		OwnedParts:     owned,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Owns reports whether the session owns the given part.
func (s *Session) Owns(id parts.PartID) bool {
	for _, p := range s.OwnedParts {
		if p == id {
			return true
		}
	}
	return false
}

// GrantPart adds a part to the garage. Granting an already-owned part
// is a no-op, so rewards are idempotent.
func (s *Session) GrantPart(id parts.PartID) bool {
	if s.Owns(id) {
		return false
	}
	s.OwnedParts = append(s.OwnedParts, id)
	return true
}

// HasCacheFlag reports whether the named flag has been collected.
func (s *Session) HasCacheFlag(flag string) bool {
	return containsString(s.CacheFlags, flag)
}

// GrantCacheFlag records a collected flag, once.
func (s *Session) GrantCacheFlag(flag string) bool {
	if flag == "" || s.HasCacheFlag(flag) {
		return false
	}
	s.CacheFlags = append(s.CacheFlags, flag)
	return true
}

// HasMedal reports whether the named medal has been earned.
func (s *Session) HasMedal(medal string) bool {
	return containsString(s.Medals, medal)
}

// GrantMedal records an earned medal, once.
func (s *Session) GrantMedal(medal string) bool {
	if medal == "" || s.HasMedal(medal) {
		return false
	}
	s.Medals = append(s.Medals, medal)
	return true
}

// GrantMission records a completed mission, once.
func (s *Session) GrantMission(mission string) bool {
	if mission == "" || containsString(s.Missions, mission) {
		return false
	}
	s.Missions = append(s.Missions, mission)
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
