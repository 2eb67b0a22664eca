// Package session provides player session management for the car workshop.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Session is a plain data record for one player: the parts currently on
// the car, the parts owned in the garage, collected cache flags and
// medals, and an optional suspended driving snapshot. The service layer
// reconstructs live game state from this record on demand.
//
// Session Identifiers:
//
// Sessions use 4-character alphanumeric IDs for easy reference. The manager
// ensures IDs are unique and provides collision-resistant generation using
// cryptographic randomness.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Persistence:
//
// An optional SessionPersistence backend stores sessions as JSON files.
// Get falls back to the backend when a session is not in memory, so a
// restarted server picks up where players left off.
package session
