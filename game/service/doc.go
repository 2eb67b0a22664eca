// Package service provides the business logic layer for the car workshop.
//
// The service package implements:
//   - Multi-session game management
//   - Workshop operations (attach, detach, hit testing, road legality)
//   - Drive frame orchestration over the simulation core
//   - Reward resolution when destinations are reached
//   - Session lifecycle and persistence hooks
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations for every transport (HTTP, WebSocket, MCP).
//
// Architecture:
//
// The service layer sits between the transport layer and the core game
// packages. Session records (game/session) hold the durable player state:
// owned parts, the current car, collected flags and medals, and a
// suspended drive snapshot. The service reconstructs live state from the
// record on demand: an assembly.Car for workshop operations and a
// driving.Car once the player is on the road. The core packages stay
// single-threaded; all locking happens here.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr, _ := config.NewManager("configs", logger)
//	gameService := service.NewGameService(sessionMgr, configMgr, assets, logger)
//
//	info, err := gameService.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.AttachPart(ctx, info.ID, 153)
//	state, err := gameService.EnterDriving(ctx, info.ID)
//	frame, err := gameService.DriveFrame(ctx, info.ID, input, driving.Cheats{})
//
// Driving:
//
// EnterDriving refuses cars that are not road legal and locks the car
// for the duration of the drive. DriveFrame advances the simulation one
// frame, applies tile transitions, resolves destination rewards, and
// returns the renderable state plus any event. ExitDriving suspends the
// drive into the session record and unlocks the car.
package service
