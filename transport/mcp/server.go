package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

const instructions = `2048 Environment - MCP Interface

Each session is a step-based 2048 environment. Slide the board up, right,
down or left; equal neighbours merge once per move and a 2 pops up in a
random empty cell after every move that changed the board.

AVAILABLE TOOLS:
- create_session: Start a session (optional config_name and seed)
- list_sessions: List active sessions
- game_state: Current board, score and done flag
- step: Apply one move and get the reward
- next_states: Every board a move can lead to, without committing it
- action_reward: Reward a move would earn, without committing it
- reset: Start a new episode in a session
- list_configs: Available board configurations
- game_instructions: Rules and reward accounting`

// Server exposes a GameService as MCP tools
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by gameService
func NewServer(gameService service.GameService) *Server {
	s := &Server{service: gameService}

	s.mcpServer = server.NewMCPServer(
		"2048 Environment",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func directionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"up", "right", "down", "left"},
		"description": description,
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new 2048 environment session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for tile spawns (optional, 0 picks one)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	// Environment operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score and done flag",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Apply one move and return the reward, done flag and new board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction":  directionProperty("Direction to slide the board"),
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleStep)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "next_states",
		Description: "List every board a move can lead to without committing it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction":  directionProperty("Direction to look ahead"),
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleNextStates)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "action_reward",
		Description: "Reward a move would earn. Omit direction to preview all four.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction":  directionProperty("Direction to preview (optional)"),
			},
			Required: []string{"session_id"},
		},
	}, s.handleActionReward)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset",
		Description: "Start a new episode in a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	// Configuration and help
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules and reward accounting",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func requireString(args map[string]interface{}, key string) (string, error) {
	value, _ := args[key].(string)
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	var seed int64
	// JSON numbers arrive as float64
	if v, ok := args["seed"].(float64); ok {
		seed = int64(v)
	}

	session, err := s.service.CreateSession(ctx, configName, seed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(session)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", len(sessions))
	for _, sess := range sessions {
		fmt.Fprintf(&b, "- %s: config=%s score=%d moves=%d done=%v\n",
			sess.ID, sess.ConfigName, sess.GameState.Score, sess.GameState.Moves, sess.GameState.Done)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireString(arguments(request), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireString(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := requireString(args, "direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Step(ctx, sessionID, direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(result)), nil
}

func (s *Server) handleNextStates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireString(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := requireString(args, "direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.NextStates(ctx, sessionID, direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLookahead(result)), nil
}

func (s *Server) handleActionReward(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireString(args, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	directions := []string{}
	if direction, _ := args["direction"].(string); direction != "" {
		directions = append(directions, direction)
	} else {
		for _, d := range engine.Directions {
			directions = append(directions, d.String())
		}
	}

	var b strings.Builder
	for _, direction := range directions {
		reward, err := s.service.ActionReward(ctx, sessionID, direction)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fmt.Fprintf(&b, "%s: %d\n", reward.Direction, reward.Reward)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireString(arguments(request), "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Episode reset\n" + formatGameState(state)), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `# 2048 Environment

## Moves
up, right, down, left (or u, r, d, l). A move slides every tile as far as it
goes toward that edge. Two equal tiles meeting merge into one tile of double
value; the tile nearer the edge absorbs the other. A tile produced by a merge
does not merge again in the same move.

## After each move
If the board changed, a 2 appears in a uniformly random empty cell. If it did
not change, nothing appears and the reward is 0.

## Reward
The reward of a step is the value created by merges: merging two 8s earns 16.
next_states and action_reward preview a move without committing it.

## Episode end
done is true once no move can change the board: no empty cell and no two
equal neighbours in any row or column. Use reset to start over.`

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n%s",
		session.ID, session.ConfigName, session.Seed, formatGameState(session.GameState))
}

func formatGameState(state *service.GameState) string {
	var b strings.Builder
	b.WriteString(state.Rendered)
	fmt.Fprintf(&b, "Score: %d\nMoves: %d\nMax tile: %d\n", state.Score, state.Moves, state.MaxTile)
	if state.Done {
		b.WriteString("GAME OVER: no move can change the board\n")
	}
	return b.String()
}

func formatStepResult(result *service.StepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move %s: reward %d\n", result.Direction, result.Reward)
	if result.Truncated {
		b.WriteString("Move limit reached\n")
	}
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatLookahead(result *service.LookaheadResult) string {
	var b strings.Builder
	if result.UselessAction {
		fmt.Fprintf(&b, "Move %s does not change the board\n", result.Direction)
		return b.String()
	}
	fmt.Fprintf(&b, "Move %s leads to %d possible boards:\n", result.Direction, result.Count)
	for i, state := range result.States {
		fmt.Fprintf(&b, "\n#%d\n%s", i+1, state)
	}
	return b.String()
}
