package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tinkergarage/carworkshop/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Car Workshop Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Car Workshop Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build a car from junkyard parts, make it road legal, then drive it across
the tile world to reach destinations. Destinations reward new parts.

AVAILABLE TOOLS:
- create_session: Create a new player session
- list_sessions: List all active sessions
- get_session: Get session details
- list_parts: List catalog parts with ownership info
- get_car: Inspect the current car build and road legality
- attach_part: Attach an owned part to the car
- detach_part: Remove a part from the car
- enter_driving: Start or resume driving (car must be road legal)
- drive: Hold inputs for a number of frames (30 frames = 1 second)
- exit_driving: Stop driving and return to the workshop

WORKFLOW:
1. create_session, then get_car to see what the starter car lacks
2. attach_part until get_car reports road_legal=true
3. enter_driving, then drive with throttle/steering until something happens
4. exit_driving to go back to the workshop and use rewarded parts`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	partProp := map[string]interface{}{
		"type":        "integer",
		"description": "Numeric part ID from the catalog",
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new player session with the starter car",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active player sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Workshop
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_parts",
		Description: "List catalog parts with ownership and on-car status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleListParts)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_car",
		Description: "Inspect the current car build, its aggregate properties and road legality",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetCar)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attach_part",
		Description: "Attach an owned part to the car. Morph parents expand to their variants; attach the variant ID.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"part_id":    partProp,
			},
			Required: []string{"session_id", "part_id"},
		},
	}, c.handleAttachPart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "detach_part",
		Description: "Remove a part from the car. Parts that still support other parts cannot be removed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"part_id":    partProp,
			},
			Required: []string{"session_id", "part_id"},
		},
	}, c.handleDetachPart)

	// Driving
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "enter_driving",
		Description: "Start or resume driving. Fails if the car is not road legal.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleEnterDriving)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "drive",
		Description: "Hold the given inputs for a number of simulation frames (30 frames = 1 second). Stops early when the car reaches a destination or crosses a tile border.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"frames": map[string]interface{}{
					"type":        "integer",
					"description": "Number of frames to simulate (default 30, max 600)",
				},
				"throttle": map[string]interface{}{
					"type":        "boolean",
					"description": "Hold the throttle",
				},
				"brake": map[string]interface{}{
					"type":        "boolean",
					"description": "Hold the brake / reverse",
				},
				"steer_left": map[string]interface{}{
					"type":        "boolean",
					"description": "Steer counterclockwise",
				},
				"steer_right": map[string]interface{}{
					"type":        "boolean",
					"description": "Steer clockwise",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDrive)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "exit_driving",
		Description: "Stop driving and return to the workshop. The drive position is kept for resuming.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleExitDriving)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nStarter car parts: %v\n", info.ID, info.CarParts)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "workshop"
		if s.Driving {
			status = "driving"
		}
		fmt.Fprintf(&b, "- %s (%s, created %s)\n", s.ID, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListParts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Count int                 `json:"count"`
		Parts []*service.PartInfo `json:"parts"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/parts", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Catalog (%d pickable parts):\n\n", response.Count)
	for _, p := range response.Parts {
		marks := ""
		if p.Owned {
			marks += " [owned]"
		}
		if p.OnCar {
			marks += " [on car]"
		}
		fmt.Fprintf(&b, "- %d %s%s", p.ID, p.Description, marks)
		if p.Category != "" {
			fmt.Fprintf(&b, " (source: %s)", p.Category)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var car service.CarState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/car", sessionID), nil, &car); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCarState(&car)), nil
}

func (c *Client) handleAttachPart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleMutation(request, "attach")
}

func (c *Client) handleDetachPart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleMutation(request, "detach")
}

func (c *Client) handleMutation(request mcp.CallToolRequest, op string) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	partID, _ := args["part_id"].(float64)

	body := map[string]interface{}{"part_id": int(partID)}

	var result service.MutationResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/car/%s", sessionID, op), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s of part %d succeeded\n", op, int(partID))
	} else {
		fmt.Fprintf(&b, "✗ %s of part %d refused\n", op, int(partID))
		if result.Event != nil {
			fmt.Fprintf(&b, "Reason: %s\n", result.Event.Kind)
		}
	}
	if result.Car != nil {
		b.WriteString("\n")
		b.WriteString(formatCarState(result.Car))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleEnterDriving(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.DriveState
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/drive", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Driving started\n\n" + formatDriveState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDrive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	frames := 30
	if f, ok := args["frames"].(float64); ok && f > 0 {
		frames = int(f)
	}
	if frames > 600 {
		frames = 600
	}

	input := service.DriveInput{}
	input.Throttle, _ = args["throttle"].(bool)
	input.Brake, _ = args["brake"].(bool)
	input.SteerLeft, _ = args["steer_left"].(bool)
	input.SteerRight, _ = args["steer_right"].(bool)

	body := map[string]interface{}{"input": input}

	var last *service.DriveFrameResult
	var notes []string
	for i := 0; i < frames; i++ {
		var frame service.DriveFrameResult
		err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/drive/frame", sessionID), body, &frame)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		last = &frame

		if frame.Event != nil {
			notes = append(notes, fmt.Sprintf("frame %d: %s", i+1, formatDriveEvent(&frame)))
			// Destinations and tile borders are natural stopping points.
			if frame.Event.Kind == "reached_destination" || frame.Event.Kind == "tile_transition" {
				break
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Simulated up to %d frames\n", frames)
	if len(notes) > 0 {
		b.WriteString("\nEvents:\n")
		for _, n := range notes {
			b.WriteString("- " + n + "\n")
		}
	}
	if last != nil {
		b.WriteString("\n")
		b.WriteString(formatDriveState(&last.State))
		if last.Reward != nil {
			fmt.Fprintf(&b, "\nReward: flags=%v parts=%v missions=%v\n",
				last.Reward.CacheFlags, last.Reward.Parts, last.Reward.Missions)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleExitDriving(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response map[string]string
	if err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s/drive", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Driving stopped, back in the workshop"), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", info.ID)
	fmt.Fprintf(&b, "Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Car parts: %v\n", info.CarParts)
	fmt.Fprintf(&b, "Owned parts: %v\n", info.OwnedParts)
	if len(info.CacheFlags) > 0 {
		fmt.Fprintf(&b, "Cache flags: %v\n", info.CacheFlags)
	}
	if len(info.Medals) > 0 {
		fmt.Fprintf(&b, "Medals: %v\n", info.Medals)
	}
	if info.Driving {
		b.WriteString("Status: driving\n")
	} else {
		b.WriteString("Status: workshop\n")
	}
	return b.String()
}

func formatCarState(car *service.CarState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Car parts: %v\n", car.Parts)

	p := car.Properties
	fmt.Fprintf(&b, "Speed: %d | Acceleration: %d | Brake: %d | Steering: %d\n",
		p.Speed, p.Acceleration, p.Brake, p.Steering)
	fmt.Fprintf(&b, "Engine type: %d | Fuel: %d | Battery: %d | Weight: %d\n",
		p.EngineType, p.FuelVolume, p.ElectricVolume, p.Weight)

	if car.RoadLegal {
		b.WriteString("Road legal: YES\n")
	} else {
		fmt.Fprintf(&b, "Road legal: NO (missing: %v)\n", car.Failures)
	}
	if car.Locked {
		b.WriteString("Workshop locked: the car is out driving\n")
	}
	fmt.Fprintf(&b, "Free attachment points: %d\n", len(car.FreePoints))
	return b.String()
}

func formatDriveState(state *service.DriveState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tile: (%d,%d) | Position: (%.0f,%.0f)\n",
		state.TileCol, state.TileRow, state.X, state.Y)
	fmt.Fprintf(&b, "Speed: %.2f | Direction: %d/16 | Fuel: %.0f%%\n",
		state.Speed, state.Direction, state.FuelPercent)
	if state.FuelEmpty {
		b.WriteString("⚠ Out of fuel! Find a gas station.\n")
	}
	if state.Refueling {
		b.WriteString("Refueling in progress\n")
	}
	return b.String()
}

func formatDriveEvent(frame *service.DriveFrameResult) string {
	e := frame.Event
	switch e.Kind {
	case "reached_destination":
		return fmt.Sprintf("reached destination (dialog: %s)", e.DirResource)
	case "tile_transition":
		return fmt.Sprintf("crossed tile border (delta %d,%d)", e.DeltaCol, e.DeltaRow)
	default:
		return string(e.Kind)
	}
}
