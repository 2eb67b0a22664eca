package session

import (
	"time"

	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string           `json:"id"`
	CarParts       []parts.PartID   `json:"car_parts"`
	OwnedParts     []parts.PartID   `json:"owned_parts"`
	CacheFlags     []string         `json:"cache_flags,omitempty"`
	Medals         []string         `json:"medals,omitempty"`
	Missions       []string         `json:"missions,omitempty"`
	Drive          *driving.Session `json:"drive,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
}

func toPersisted(s *Session) PersistedSessionData {
	return PersistedSessionData{
		ID:             s.ID,
		CarParts:       s.CarParts,
		OwnedParts:     s.OwnedParts,
		CacheFlags:     s.CacheFlags,
		Medals:         s.Medals,
		Missions:       s.Missions,
		Drive:          s.Drive,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
	}
}

func fromPersisted(d PersistedSessionData) *Session {
	return &Session{
		ID:             d.ID,
		CarParts:       d.CarParts,
		OwnedParts:     d.OwnedParts,
		CacheFlags:     d.CacheFlags,
		Medals:         d.Medals,
		Missions:       d.Missions,
		Drive:          d.Drive,
		CreatedAt:      d.CreatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}
}
