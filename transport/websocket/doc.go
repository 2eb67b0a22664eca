// Package websocket provides the real-time transport for the car
// workshop game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Drive frame and car state broadcasting
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine pair that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded and one-directional. The server pushes named
// events; anything the client sends is discarded:
//
//	{"session_id": "ab12", "event": "drive_frame", "data": {...}}
//
// The event names the server uses are EventDriveFrame for per-frame
// driving updates, EventCarUpdate for workshop mutations, and
// EventSession for session lifecycle changes. Player input travels over
// the REST API, not the socket.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?sessionId=ab12)
// when establishing the connection. Events are delivered only to clients
// watching the same session, so two browsers on the same session see the
// same frames.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
//	})
//
// Concurrency:
//
// Registration and unregistration flow through the hub's event loop.
// BroadcastToSession delivers inline from the calling goroutine so that
// drive frames arrive in the order they were produced; a client that
// cannot keep up is dropped rather than allowed to stall the frame loop.
package websocket
