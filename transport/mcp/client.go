package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/gridduel/game/engine"
	"github.com/wricardo/gridduel/game/service"
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
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
		"Grid Duel",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Duel - MCP Interface

This is a thin client that proxies all requests to the REST API server.
There is one shared game; moves made here are seen by every connected player.

GAME OBJECTIVE:
Capture every opponent piece on the 5x5 board. Player A starts on row 0,
player B on row 4, and A moves first.

AVAILABLE TOOLS:
- game_state: Get the board, whose turn it is and the winner if any
- move: Move one piece - requires intent explanation
- reset_game: Reset to the starting layout
- move_history: View past moves for one or both players
- game_rules: Get the complete rules
- describe_cell: Get the piece on a cell and where it can move right now

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a piece. The piece tag (e.g. A-P1) must stand on the start cell and belong to the player whose turn it is.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"piece": map[string]interface{}{
					"type":        "string",
					"description": "Piece tag, owner and kind joined by a dash (A-P1, B-H2, ...)",
				},
				"from_row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the piece (0-4)",
				},
				"from_col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the piece (0-4)",
				},
				"to_row": map[string]interface{}{
					"type":        "integer",
					"description": "Destination row (0-4)",
				},
				"to_col": map[string]interface{}{
					"type":        "integer",
					"description": "Destination column (0-4)",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"A", "B"},
					"description": "Player making the move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"piece", "from_row", "from_col", "to_row", "to_col", "player"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the starting layout",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for one player or both",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"A", "B"},
					"description": "Only show this player's moves (optional)",
				},
			},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get comprehensive game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the piece on a cell and the destinations it can legally reach this turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-4)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-4)",
				},
			},
			Required: []string{"row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

// Tool handlers

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	piece, _ := args["piece"].(string)
	player, _ := args["player"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	coords := make([]int, 0, 4)
	for _, key := range []string{"from_row", "from_col", "to_row", "to_col"} {
		n, err := intArg(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		coords = append(coords, n)
	}

	body := engine.MoveRequest{
		Piece:         piece,
		StartPosition: engine.Position{Row: coords[0], Col: coords[1]},
		EndPosition:   engine.Position{Row: coords[2], Col: coords[3]},
		CurrentPlayer: player,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", "/api/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(body, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", "/api/reset", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player, _ := request.GetArguments()["player"].(string)

	path := "/api/history"
	if player != "" {
		path += "?player=" + url.QueryEscape(player)
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `Grid Duel - Complete Rules

BOARD:
5x5 grid, rows and columns numbered 0-4. Positions are written (row, col).
Player A starts on row 0, player B on row 4, each with:
  P1 H1 H2 P1 H1   (columns 0 to 4)
A moves first, then turns alternate.

PIECES:
• P1 moves exactly one cell up, down, left or right
• H1 moves exactly two cells up, down, left or right
• H2 moves exactly two cells diagonally

A piece is named by owner and kind, e.g. A-P1 or B-H2.

CAPTURES:
• Pieces never block a move; only the shape matters
• Opponent pieces on the cell a hero jumps over are captured
• Your own pieces on that cell are left alone
• Whatever opponent piece stands on the destination is removed
• You may not end a move on your own piece

WINNING:
The game ends as soon as one side has no pieces left. The turn does not pass
after a winning move, and further moves are rejected until the game is reset.

MAKING A MOVE:
Send the piece tag, the start and end cells, and your player letter. A move
is rejected with "Invalid move" when:
• it is not your turn, or the piece is not yours
• the piece is not on the start cell
• the shape does not match the piece kind
• the destination is off the board or holds your own piece

TIPS:
• Use describe_cell to list the legal destinations of a piece
• Use game_state to see the board after each move
• Use move_history to review what both players did`

	return mcp.NewToolResultText(rules), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.Position{Row: row, Col: col}
	if !pos.InBounds() {
		return mcp.NewToolResultError(fmt.Sprintf("cell %s is off the board (rows and columns are 0-%d)", pos, engine.BoardSize-1)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

// describeCell reports the occupant of pos and, for the side to move, its
// legal destinations computed on a local copy of state
func describeCell(state *engine.GameState, pos engine.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s\n", pos)

	piece, ok := state.Board.At(pos)
	if !ok {
		b.WriteString("Occupant: empty\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Occupant: %s (player %s, %s)\n", piece.Tag(), piece.Owner, kindDescription(piece.Kind))

	switch {
	case state.GameOver:
		fmt.Fprintf(&b, "Game over, %s won. No moves possible until reset.\n", state.Winner)
		return b.String()
	case piece.Owner != state.CurrentPlayer:
		fmt.Fprintf(&b, "It is %s's turn; this piece cannot move now.\n", state.CurrentPlayer)
		return b.String()
	}

	local := engine.NewEngine()
	if err := local.SetState(state); err != nil {
		fmt.Fprintf(&b, "Could not evaluate moves: %v\n", err)
		return b.String()
	}

	moves := local.LegalMoves(pos)
	if len(moves) == 0 {
		b.WriteString("Legal destinations: none\n")
		return b.String()
	}

	b.WriteString("Legal destinations:\n")
	for _, to := range moves {
		fmt.Fprintf(&b, "  %s%s\n", to, moveEffect(state, piece, pos, to))
	}
	return b.String()
}

// moveEffect describes what a move would capture
func moveEffect(state *engine.GameState, piece engine.Piece, from, to engine.Position) string {
	var captured []string
	if piece.Kind != engine.Pawn {
		mid := engine.Position{Row: (from.Row + to.Row) / 2, Col: (from.Col + to.Col) / 2}
		if p, ok := state.Board.At(mid); ok && p.Owner != piece.Owner {
			captured = append(captured, fmt.Sprintf("%s at %s", p.Tag(), mid))
		}
	}
	if p, ok := state.Board.At(to); ok && p.Owner != piece.Owner {
		captured = append(captured, fmt.Sprintf("%s at %s", p.Tag(), to))
	}
	if len(captured) == 0 {
		return ""
	}
	return " - captures " + strings.Join(captured, ", ")
}

func kindDescription(k engine.Kind) string {
	switch k {
	case engine.Pawn:
		return "one orthogonal step"
	case engine.StraightHero:
		return "two orthogonal steps"
	case engine.DiagonalHero:
		return "two diagonal steps"
	}
	return "unknown kind"
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	b.WriteString("     ")
	for col := 0; col < engine.BoardSize; col++ {
		fmt.Fprintf(&b, "%-6d", col)
	}
	b.WriteString("\n")
	for r, row := range state.Board {
		fmt.Fprintf(&b, "%d    ", r)
		for _, cell := range row {
			tag := "."
			if cell != nil {
				tag = cell.Tag()
			}
			fmt.Fprintf(&b, "%-6s", tag)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Pieces: A=%d B=%d\n", state.Board.Count(engine.PlayerA), state.Board.Count(engine.PlayerB))
	if state.GameOver {
		fmt.Fprintf(&b, "Game over! Winner: %s\n", state.Winner)
	} else {
		fmt.Fprintf(&b, "Current player: %s\n", state.CurrentPlayer)
	}
	fmt.Fprintf(&b, "Moves played: %d\n", len(state.MoveHistory.A)+len(state.MoveHistory.B))
	return b.String()
}

func formatMoveResult(req engine.MoveRequest, result *service.MoveResult) string {
	var b strings.Builder
	if result.Valid {
		fmt.Fprintf(&b, "✓ Moved %s from %s to %s\n", req.Piece, req.StartPosition, req.EndPosition)
		if result.Winner != "" {
			fmt.Fprintf(&b, "🏆 Player %s wins!\n", result.Winner)
		}
	} else {
		fmt.Fprintf(&b, "✗ %s", result.Reason)
		if result.Detail != "" {
			fmt.Fprintf(&b, " (%s)", result.Detail)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (%d moves)\n", history.TotalMoves)

	players := []engine.Player{engine.PlayerA, engine.PlayerB}
	if history.Player != "" {
		players = []engine.Player{history.Player}
	}
	for _, p := range players {
		moves := history.History.For(p)
		fmt.Fprintf(&b, "\nPlayer %s:\n", p)
		if len(moves) == 0 {
			b.WriteString("  (no moves)\n")
		}
		for i, m := range moves {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, m)
		}
	}
	return b.String()
}
