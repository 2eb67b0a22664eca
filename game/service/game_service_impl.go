package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tinkergarage/carworkshop/game/assembly"
	"github.com/tinkergarage/carworkshop/game/config"
	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
	"github.com/tinkergarage/carworkshop/game/session"
	"github.com/tinkergarage/carworkshop/game/world"
)

// Workshop anchor for the assembled car. Attachment math is relative to
// this point; clients render the same anchor.
const (
	workshopCarX = 250
	workshopCarY = 250
)

// liveState is the reconstructed in-memory state of one session: the
// workshop car, and the driving car while a drive is in progress.
type liveState struct {
	car   *assembly.Car
	drive *driving.Car
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions *session.Manager
	configs  *config.Manager
	assets   assembly.AssetResolver
	logger   zerolog.Logger
	rng      *rand.Rand

	live      map[string]*liveState
	worldOnce sync.Once
	mu        sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions *session.Manager, configs *config.Manager, assets assembly.AssetResolver, logger zerolog.Logger) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		assets:   assets,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		live:     make(map[string]*liveState),
	}
}

// CreateSession creates a new player session with the starter car
func (s *gameServiceImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(rec), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(rec), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sessions.List()
	result := make([]*SessionInfo, 0, len(records))
	for _, rec := range records {
		result = append(result, s.sessionInfo(rec))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteSession removes a session and its live state
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.live, strings.ToLower(sessionID))
	return s.sessions.Delete(sessionID)
}

// ListParts returns the catalog from the session's point of view
func (s *gameServiceImpl) ListParts(ctx context.Context, sessionID string) ([]*PartInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.configs.Catalog()
	if err != nil {
		return nil, err
	}

	pickable := catalog.PickableParts()
	result := make([]*PartInfo, 0, len(pickable))
	for _, p := range pickable {
		category := ""
		if cat, ok := catalog.Category(p.ID); ok {
			category = string(cat)
		}
		result = append(result, &PartInfo{
			ID:          p.ID,
			Description: p.Description,
			Category:    category,
			Owned:       rec.Owns(p.ID),
			OnCar:       s.onCar(catalog, rec, p.ID),
			Properties:  p.Properties,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetCar returns the workshop view of the session's car
func (s *gameServiceImpl) GetCar(ctx context.Context, sessionID string) (*CarState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return carStateOf(ls.car), nil
}

// AttachPart attaches an owned part to the car
func (s *gameServiceImpl) AttachPart(ctx context.Context, sessionID string, partID parts.PartID) (*MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.configs.Catalog()
	if err != nil {
		return nil, err
	}
	if !rec.Owns(partID) && !rec.Owns(catalog.ResolveMaster(partID)) {
		return nil, fmt.Errorf("%w: %d", ErrPartNotOwned, partID)
	}

	event := ls.car.Attach(partID)
	result := &MutationResult{
		Success: event != nil,
		Event:   event,
		Car:     carStateOf(ls.car),
	}
	if event != nil {
		rec.CarParts = ls.car.Parts()
		s.saveQuiet(rec.ID)
	}
	return result, nil
}

// DetachPart removes a part from the car
func (s *gameServiceImpl) DetachPart(ctx context.Context, sessionID string, partID parts.PartID) (*MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}

	event := ls.car.Detach(partID)
	result := &MutationResult{
		Success: event != nil,
		Event:   event,
		Car:     carStateOf(ls.car),
	}
	if event != nil {
		rec.CarParts = ls.car.Parts()
		s.saveQuiet(rec.ID)
	}
	return result, nil
}

// PartAt hit-tests the assembled car at a workshop coordinate
func (s *gameServiceImpl) PartAt(ctx context.Context, sessionID string, x, y int) (parts.PartID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return 0, false, err
	}

	id, ok := ls.car.PartAt(x, y)
	return id, ok, nil
}

// EnterDriving starts or resumes a drive. The car must be road legal and
// stays locked until ExitDriving.
func (s *gameServiceImpl) EnterDriving(ctx context.Context, sessionID string) (*DriveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}
	if ls.drive != nil {
		return nil, ErrAlreadyDriving
	}
	if !ls.car.IsRoadLegal() {
		props := ls.car.Properties()
		return nil, fmt.Errorf("%w: %v", ErrNotRoadLegal, props.RoadLegalFailures())
	}

	wm, err := s.worldMap()
	if err != nil {
		return nil, err
	}

	props := driving.DeriveProperties(ls.car.Properties())
	var drive *driving.Car
	if rec.Drive != nil && rec.Drive.Active {
		drive = driving.NewCar(rec.Drive.X, rec.Drive.Y, rec.Drive.Direction, props, s.logger)
		drive.RestoreSession(*rec.Drive)
	} else {
		drive = driving.NewCar(wm.StartX, wm.StartY, wm.StartDirection, props, s.logger)
		drive.TileCol = wm.StartCol
		drive.TileRow = wm.StartRow
	}

	ls.car.SetLocked(true)
	ls.drive = drive
	s.sessions.UpdateLastAccessed(sessionID)

	state := driveStateOf(drive)
	return &state, nil
}

// DriveFrame advances the simulation one frame
func (s *gameServiceImpl) DriveFrame(ctx context.Context, sessionID string, input DriveInput, cheats driving.Cheats) (*DriveFrameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return nil, err
	}
	if ls.drive == nil {
		return nil, ErrNotDriving
	}

	wm, err := s.worldMap()
	if err != nil {
		return nil, err
	}

	drive := ls.drive
	if input.UsePointer {
		drive.SetPointer(input.PointerX, input.PointerY, input.PointerDown)
	} else {
		drive.Throttle = input.Throttle
		drive.Braking = input.Brake
		drive.SteerLeft = input.SteerLeft
		drive.SteerRight = input.SteerRight
	}

	objects := wm.ObjectsAt(drive.TileCol, drive.TileRow, rec.CacheFlags, rec.Medals)
	terrain := s.terrainFor(wm, drive.TileCol, drive.TileRow)

	event := drive.Update(objects, terrain, cheats)
	result := &DriveFrameResult{Event: event}

	if event != nil {
		switch event.Kind {
		case driving.EventTileTransition:
			drive.ApplyTileTransition(event.DeltaCol, event.DeltaRow, wm.Cols(), wm.Rows())
		case driving.EventReachedDestination:
			result.Reward = s.resolveReward(rec, wm, event.ObjectID)
			snap := drive.SaveSession()
			rec.Drive = &snap
			s.saveQuiet(rec.ID)
		case driving.EventFerryBoard:
			drive.FerryTeleport()
		}
	}

	if name, changed := drive.EngineSoundUpdate(); changed {
		result.EngineSound = name
	}
	result.ApproachSounds = drive.DrainApproachSounds()
	result.State = driveStateOf(drive)

	return result, nil
}

// ExitDriving suspends the drive into the session record and returns the
// engine shutdown sound
func (s *gameServiceImpl) ExitDriving(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ls, err := s.ensureLive(sessionID)
	if err != nil {
		return "", err
	}
	if ls.drive == nil {
		return "", ErrNotDriving
	}

	snap := ls.drive.SaveSession()
	rec.Drive = &snap
	shutdown := ls.drive.EngineShutdownSound()

	ls.drive = nil
	ls.car.SetLocked(false)
	s.saveQuiet(rec.ID)

	return shutdown, nil
}

// ensureLive returns the session record and its live state, rebuilding
// the workshop car from the record if needed. Callers hold s.mu.
func (s *gameServiceImpl) ensureLive(sessionID string) (*session.Session, *liveState, error) {
	rec, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}

	key := strings.ToLower(rec.ID)
	if ls, ok := s.live[key]; ok {
		return rec, ls, nil
	}

	catalog, err := s.configs.Catalog()
	if err != nil {
		return nil, nil, err
	}

	car := assembly.NewCar(workshopCarX, workshopCarY, catalog, s.assets, s.logger)
	car.SetParts(rec.CarParts)

	ls := &liveState{car: car}
	s.live[key] = ls
	return rec, ls, nil
}

// worldMap returns the shared world, placing random destinations on
// first use
func (s *gameServiceImpl) worldMap() (*world.WorldMap, error) {
	wm, err := s.configs.World()
	if err != nil {
		return nil, err
	}
	s.worldOnce.Do(func() {
		wm.ApplyRandomDestinations(s.rng)
	})
	return wm, nil
}

// terrainFor builds the terrain sampler for a tile. Tiles outside the
// grid and tiles without terrain sample as open ground.
func (s *gameServiceImpl) terrainFor(wm *world.WorldMap, col, row int) driving.TerrainSampler {
	tile := wm.TileAt(col, row)
	if tile == nil {
		return func(x, y int) byte { return 0 }
	}
	topo := s.configs.Topology(tile.Topology)
	return topo.At
}

// resolveReward applies a reached destination's payload to the record.
// Already-earned grants are skipped, so revisiting a destination yields
// nothing new.
func (s *gameServiceImpl) resolveReward(rec *session.Session, wm *world.WorldMap, objectID uint32) *Reward {
	obj := wm.FindObject(objectID)
	if obj == nil || obj.SetWhenDone == nil {
		return nil
	}

	reward := &Reward{}
	for _, flag := range obj.SetWhenDone.CacheFlags {
		if rec.GrantCacheFlag(flag) {
			reward.CacheFlags = append(reward.CacheFlags, flag)
		}
	}
	for _, pid := range obj.SetWhenDone.Parts {
		if pid == 0 {
			pid = s.randomUnownedPart(rec)
			if pid == 0 {
				continue
			}
		}
		if rec.GrantPart(pid) {
			reward.Parts = append(reward.Parts, pid)
		}
	}
	for _, mission := range obj.SetWhenDone.Missions {
		if rec.GrantMission(strconv.Itoa(mission)) {
			reward.Missions = append(reward.Missions, mission)
		}
	}
	return reward
}

// randomUnownedPart picks one pickable part the player does not own yet,
// or 0 when everything is owned
func (s *gameServiceImpl) randomUnownedPart(rec *session.Session) parts.PartID {
	catalog, err := s.configs.Catalog()
	if err != nil {
		return 0
	}

	var candidates []parts.PartID
	for _, p := range catalog.PickableParts() {
		if !rec.Owns(p.ID) {
			candidates = append(candidates, p.ID)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates[s.rng.Intn(len(candidates))]
}

// onCar reports whether a pickable part, or one of its morph variants,
// is currently on the record's car
func (s *gameServiceImpl) onCar(catalog *parts.Catalog, rec *session.Session, id parts.PartID) bool {
	for _, placed := range rec.CarParts {
		if placed == id || catalog.ResolveMaster(placed) == id {
			return true
		}
	}
	return false
}

func (s *gameServiceImpl) sessionInfo(rec *session.Session) *SessionInfo {
	isDriving := false
	if ls, ok := s.live[strings.ToLower(rec.ID)]; ok {
		isDriving = ls.drive != nil
	}
	return &SessionInfo{
		ID:             rec.ID,
		CarParts:       rec.CarParts,
		OwnedParts:     rec.OwnedParts,
		CacheFlags:     rec.CacheFlags,
		Medals:         rec.Medals,
		Missions:       rec.Missions,
		Driving:        isDriving,
		CreatedAt:      rec.CreatedAt,
		LastAccessedAt: rec.LastAccessedAt,
	}
}

func (s *gameServiceImpl) saveQuiet(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist session")
	}
}

func carStateOf(car *assembly.Car) *CarState {
	props := car.Properties()
	return &CarState{
		Parts:      car.Parts(),
		Properties: props,
		RoadLegal:  props.IsRoadLegal(),
		Failures:   props.RoadLegalFailures(),
		FreePoints: car.FreeAttachmentPoints(),
		Sprites:    car.Sprites(),
		Locked:     car.Locked(),
	}
}

func driveStateOf(drive *driving.Car) DriveState {
	return DriveState{
		TileCol:      drive.TileCol,
		TileRow:      drive.TileRow,
		X:            drive.X,
		Y:            drive.Y,
		Speed:        drive.Speed,
		Direction:    drive.Direction,
		Tilt:         drive.Tilt,
		FuelPercent:  drive.FuelPercent(),
		FuelEmpty:    drive.FuelEmpty,
		Refueling:    drive.Refueling(),
		SpriteMember: drive.SpriteMember(),
	}
}
