package service

import (
	"context"
	"errors"

	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
)

var (
	ErrNotRoadLegal   = errors.New("car is not road legal")
	ErrNotDriving     = errors.New("session is not driving")
	ErrAlreadyDriving = errors.New("session is already driving")
	ErrPartNotOwned   = errors.New("part is not owned")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Workshop Operations
	ListParts(ctx context.Context, sessionID string) ([]*PartInfo, error)
	GetCar(ctx context.Context, sessionID string) (*CarState, error)
	AttachPart(ctx context.Context, sessionID string, partID parts.PartID) (*MutationResult, error)
	DetachPart(ctx context.Context, sessionID string, partID parts.PartID) (*MutationResult, error)
	PartAt(ctx context.Context, sessionID string, x, y int) (parts.PartID, bool, error)

	// Driving
	EnterDriving(ctx context.Context, sessionID string) (*DriveState, error)
	DriveFrame(ctx context.Context, sessionID string, input DriveInput, cheats driving.Cheats) (*DriveFrameResult, error)
	ExitDriving(ctx context.Context, sessionID string) (string, error)
}
