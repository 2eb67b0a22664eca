package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinkergarage/carworkshop/game/driving"
)

func TestFilePersistence(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newSession("test1")
	session.GrantPart(153)
	session.GrantCacheFlag("#PostCard")
	session.GrantMedal("race-gold")
	session.Drive = &driving.Session{
		TileCol: 2, TileRow: 1, X: 320, Y: 200,
		Direction: 12, Fuel: 64.5, Active: true,
	}

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
		if !loaded.Owns(153) {
			t.Error("Owned parts should survive a round trip")
		}
		if !loaded.HasCacheFlag("#PostCard") || !loaded.HasMedal("race-gold") {
			t.Error("Flags and medals should survive a round trip")
		}
		if loaded.Drive == nil || loaded.Drive.TileCol != 2 || loaded.Drive.Fuel != 64.5 {
			t.Errorf("Drive snapshot wrong after load: %+v", loaded.Drive)
		}
	})

	t.Run("Load Missing Session", func(t *testing.T) {
		if _, err := persistence.Load("missing"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test1"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test1") {
			t.Error("Session file should be gone after delete")
		}
		if err := persistence.Delete("test1"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
		}
	})

	t.Run("ListAll", func(t *testing.T) {
		persistence.Save(newSession("list-a"))
		persistence.Save(newSession("list-b"))

		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		found := make(map[string]bool)
		for _, id := range ids {
			found[id] = true
		}
		if !found["list-a"] || !found["list-b"] {
			t.Errorf("Expected both sessions listed, got %v", ids)
		}
	})

	t.Run("No Leftover Temp Files", func(t *testing.T) {
		entries, err := os.ReadDir(tempDir)
		if err != nil {
			t.Fatalf("Failed to read temp dir: %v", err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("Leftover temp file: %s", e.Name())
			}
		}
	})
}

func TestFilePersistenceSanitizesIDs(t *testing.T) {
	tempDir := t.TempDir()
	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newSession("../Evil/ID")
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// The file must land inside the sessions directory.
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected exactly one file, got %d", len(entries))
	}
	name := entries[0].Name()
	if strings.ContainsAny(name, "/\\.") && !strings.HasSuffix(name, ".json") {
		t.Errorf("Unsafe file name: %s", name)
	}
	if filepath.Dir(filepath.Join(tempDir, name)) != tempDir {
		t.Errorf("File escaped sessions dir: %s", name)
	}

	// Case variants map to the same file.
	if err := persistence.Save(newSessionAt("MiXeD", time.Now())); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if !persistence.Exists("mixed") || !persistence.Exists("MIXED") {
		t.Error("Lookups should be case-insensitive")
	}
}

func newSessionAt(id string, at time.Time) *Session {
	s := newSession(id)
	s.CreatedAt = at
	s.LastAccessedAt = at
	return s
}
