// Command roadtest plays one session against a running game server over
// the REST API: it builds the best car it can from the session's owned
// parts, reports road legality, and then drives with the throttle held
// until a destination is reached, the tank runs dry, or the frame budget
// runs out.
//
// A fresh session only owns the starter parts and is not road legal; for
// those the tool stops after the workshop phase and prints the missing
// stats. Point it at an equipped session with --session to exercise the
// driving loop.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tinkergarage/carworkshop/game/driving"
	"github.com/tinkergarage/carworkshop/game/parts"
	"github.com/tinkergarage/carworkshop/game/service"
)

func main() {
	cmd := &cli.Command{
		Name:  "roadtest",
		Usage: "smoke-test a game server through the full workshop and driving loop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server base URL",
				Sources: cli.EnvVars("GAME_URL"),
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "drive an existing session instead of creating one",
			},
			&cli.IntFlag{
				Name:  "frames",
				Value: 300,
				Usage: "maximum drive frames",
			},
			&cli.IntFlag{
				Name:  "delay",
				Value: 0,
				Usage: "delay between frames in milliseconds",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c := newClient(cmd.String("url"))
			c.sessionID = cmd.String("session")
			delay := time.Duration(cmd.Int("delay")) * time.Millisecond
			return run(c, int(cmd.Int("frames")), delay)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "roadtest: %v\n", err)
		os.Exit(1)
	}
}

func run(c *client, maxFrames int, delay time.Duration) error {
	if c.sessionID == "" {
		info, err := c.createSession()
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		log.Printf("Session created: %s (%d starter parts)", info.ID, len(info.CarParts))
	} else {
		info, err := c.getSession()
		if err != nil {
			return fmt.Errorf("resume session %s: %w", c.sessionID, err)
		}
		log.Printf("Resumed session: %s (%d owned parts)", info.ID, len(info.OwnedParts))
	}

	list, err := c.listParts()
	if err != nil {
		return fmt.Errorf("list parts: %w", err)
	}
	owned := 0
	for _, p := range list {
		if p.Owned {
			owned++
		}
	}
	log.Printf("Catalog: %d pickable parts, %d owned", len(list), owned)

	// Round-trip one mutation before building, so a broken attach path
	// fails fast instead of surfacing as a mysteriously illegal car.
	car, err := c.getCar()
	if err != nil {
		return fmt.Errorf("get car: %w", err)
	}
	if len(car.Parts) > 1 {
		probe := car.Parts[len(car.Parts)-1]
		if err := c.roundTripPart(probe); err != nil {
			return err
		}
		log.Printf("Mutation round-trip OK (part %d)", probe)
	}

	// Put everything the session owns on the car. Refusals are normal
	// here; a part whose attachment point is occupied just stays off.
	attached := 0
	for _, p := range list {
		if !p.Owned || p.OnCar {
			continue
		}
		result, err := c.attachPart(p.ID)
		if err != nil {
			return fmt.Errorf("attach part %d: %w", p.ID, err)
		}
		if result.Success {
			attached++
		}
	}
	log.Printf("Attached %d parts", attached)

	car, err = c.getCar()
	if err != nil {
		return fmt.Errorf("get car: %w", err)
	}
	if !car.RoadLegal {
		log.Printf("Car is not road legal, missing: %v", car.Failures)
		log.Printf("Collect parts at destinations, then rerun with --session %s", c.sessionID)
		return nil
	}
	log.Printf("Car is road legal (weight %d, speed %d)",
		car.Properties.Weight, car.Properties.Speed)

	state, err := c.enterDriving()
	if err != nil {
		return fmt.Errorf("enter driving: %w", err)
	}
	log.Printf("Driving from tile (%d,%d) at (%.0f,%.0f)",
		state.TileCol, state.TileRow, state.X, state.Y)

	input := service.DriveInput{Throttle: true}
	frames := 0
	for frames < maxFrames {
		frame, err := c.driveFrame(input, driving.Cheats{})
		if err != nil {
			return fmt.Errorf("drive frame %d: %w", frames, err)
		}
		frames++

		if frame.Event != nil {
			log.Printf("Frame %d: %s", frames, frame.Event.Kind)
			if frame.Event.Kind == driving.EventReachedDestination {
				if frame.Reward != nil && len(frame.Reward.Parts) > 0 {
					log.Printf("Reward parts: %v", frame.Reward.Parts)
				}
				break
			}
		}
		if frame.State.FuelEmpty {
			log.Printf("Frame %d: out of fuel", frames)
			break
		}

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	shutdown, err := c.exitDriving()
	if err != nil {
		return fmt.Errorf("exit driving: %w", err)
	}
	log.Printf("Drove %d frames, stopped (%s)", frames, shutdown)
	return nil
}

// roundTripPart detaches a placed part and puts it back, expecting both
// mutations to succeed.
func (c *client) roundTripPart(id parts.PartID) error {
	result, err := c.detachPart(id)
	if err != nil {
		return fmt.Errorf("detach part %d: %w", id, err)
	}
	if !result.Success {
		return fmt.Errorf("detach part %d was refused", id)
	}
	result, err = c.attachPart(id)
	if err != nil {
		return fmt.Errorf("re-attach part %d: %w", id, err)
	}
	if !result.Success {
		return fmt.Errorf("re-attach part %d was refused", id)
	}
	return nil
}

type client struct {
	baseURL   string
	sessionID string
	http      *http.Client
}

func newClient(baseURL string) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) createSession() (*service.SessionInfo, error) {
	var info service.SessionInfo
	if err := c.do("POST", "/api/sessions", nil, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

func (c *client) getSession() (*service.SessionInfo, error) {
	var info service.SessionInfo
	if err := c.do("GET", "/api/sessions/"+c.sessionID, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *client) listParts() ([]*service.PartInfo, error) {
	var resp struct {
		Parts []*service.PartInfo `json:"parts"`
	}
	if err := c.do("GET", "/api/sessions/"+c.sessionID+"/parts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Parts, nil
}

func (c *client) getCar() (*service.CarState, error) {
	var car service.CarState
	if err := c.do("GET", "/api/sessions/"+c.sessionID+"/car", nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *client) attachPart(id parts.PartID) (*service.MutationResult, error) {
	return c.mutatePart("attach", id)
}

func (c *client) detachPart(id parts.PartID) (*service.MutationResult, error) {
	return c.mutatePart("detach", id)
}

func (c *client) mutatePart(op string, id parts.PartID) (*service.MutationResult, error) {
	body := map[string]parts.PartID{"part_id": id}
	var result service.MutationResult
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/car/"+op, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) enterDriving() (*service.DriveState, error) {
	var state service.DriveState
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/drive", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *client) driveFrame(input service.DriveInput, cheats driving.Cheats) (*service.DriveFrameResult, error) {
	body := map[string]interface{}{"input": input, "cheats": cheats}
	var result service.DriveFrameResult
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/drive/frame", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) exitDriving() (string, error) {
	var resp struct {
		ShutdownSound string `json:"shutdown_sound"`
	}
	if err := c.do("DELETE", "/api/sessions/"+c.sessionID+"/drive", nil, &resp); err != nil {
		return "", err
	}
	return resp.ShutdownSound, nil
}

// do executes an API request, decoding the response into result. Error
// responses surface the server's error message.
func (c *client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
