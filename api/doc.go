// Package api provides the HTTP REST surface of the car workshop game.
//
// The api package implements:
//   - RESTful endpoints for workshop and driving operations
//   - Session management endpoints
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Workshop:
//   - GET /api/sessions/{id}/parts - Catalog from the player's point of view
//   - GET /api/sessions/{id}/car - Current car state
//   - POST /api/sessions/{id}/car/attach - Attach a part {"part_id": 82}
//   - POST /api/sessions/{id}/car/detach - Detach a part {"part_id": 82}
//   - GET /api/sessions/{id}/car/part-at?x=&y= - Hit test a workshop pixel
//
// Driving:
//   - POST /api/sessions/{id}/drive - Start or resume driving
//   - POST /api/sessions/{id}/drive/frame - Advance one frame
//   - DELETE /api/sessions/{id}/drive - Stop driving
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A drive frame request carries the
// held inputs for that frame:
//
//	{
//	  "input": {"throttle": true, "steer_left": false, "steer_right": true},
//	  "cheats": {"infinite_fuel": false}
//	}
//
// Attach and detach always return 200 with a MutationResult; a refused
// mutation has success=false and an explanatory event rather than an
// error status. Error statuses are reserved for requests that cannot be
// answered at all: unknown session (404), unowned part (400), or a
// driving transition that conflicts with the session's state (409).
//
// Broadcasting:
//
// Mutations and drive frames are also pushed to WebSocket clients
// watching the session, so spectator views stay current without polling.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{"error": "error message"}
package api
