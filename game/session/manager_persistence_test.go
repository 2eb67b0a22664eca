package session

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence, zerolog.Nop())

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}

		loaded, err := persistence.Load(session.ID)
		if err != nil {
			t.Fatalf("Failed to load auto-saved session: %v", err)
		}
		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		// A fresh manager has no in-memory sessions.
		manager2 := NewManagerWithPersistence(persistence, zerolog.Nop())

		session, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}

		if manager2.Count() != 1 {
			t.Error("Session should be cached in memory after loading from persistence")
		}
	})

	t.Run("Save Persists Mutations", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}

		session.GrantPart(121)
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if !loaded.Owns(121) {
			t.Error("Saved grant should be visible on reload")
		}
	})

	t.Run("LoadPersistedSessions", func(t *testing.T) {
		manager.Create("bulk1")
		manager.Create("bulk2")

		manager3 := NewManagerWithPersistence(persistence, zerolog.Nop())
		if err := manager3.LoadPersistedSessions(); err != nil {
			t.Fatalf("Failed to load persisted sessions: %v", err)
		}
		if manager3.Count() < 3 {
			t.Errorf("Expected at least 3 sessions loaded, got %d", manager3.Count())
		}
	})

	t.Run("DeleteFromMemory Keeps File", func(t *testing.T) {
		if err := manager.DeleteFromMemory("auto1"); err != nil {
			t.Fatalf("Failed to delete from memory: %v", err)
		}
		if !persistence.Exists("auto1") {
			t.Error("File should survive a memory-only delete")
		}
		// Get falls back to the file.
		if _, err := manager.Get("auto1"); err != nil {
			t.Errorf("Expected session reloaded from file, got %v", err)
		}
	})

	t.Run("Delete Removes File", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("auto1") {
			t.Error("File should be gone after full delete")
		}
	})
}
