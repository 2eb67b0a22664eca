// Package mcp provides a Model Context Protocol server for the car
// workshop game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for workshop and driving operations
//   - A thin HTTP proxy onto the REST API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new player session
//   - get_session / list_sessions: Inspect sessions
//   - list_parts: Catalog parts with ownership info
//   - get_car: Current build, aggregate properties, road legality
//   - attach_part / detach_part: Mutate the build
//   - enter_driving / exit_driving: Switch between workshop and driving
//   - drive: Hold inputs across many simulation frames in one call
//
// Transport:
//
// The client does not touch game state directly. Every tool call is
// translated into one or more REST calls against the API server, so an
// MCP agent and a browser client share the same sessions and see the
// same world.
//
// The drive tool deserves a note: MCP agents cannot usefully issue 30
// calls per second, so drive batches a held input over N frames and
// stops early at natural boundaries (a destination or a tile border).
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
