package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/gridduel/game/engine"
	"github.com/wricardo/gridduel/game/service"
	"github.com/wricardo/gridduel/game/session"
	"github.com/wricardo/gridduel/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	MoveFunc           func(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error)
	ResetFunc          func(ctx context.Context) (*engine.GameState, error)
	GetGameStateFunc   func(ctx context.Context) (*engine.GameState, error)
	GetMoveHistoryFunc func(ctx context.Context, player engine.Player) (*service.HistoryResponse, error)
}

func (m *MockGameService) Move(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, clientID, req)
	}
	return &service.MoveResult{
		Valid:     true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return engine.NewEngine().State(), nil
}

func (m *MockGameService) GetGameState(ctx context.Context) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx)
	}
	return engine.NewEngine().State(), nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, player engine.Player) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, player)
	}
	return &service.HistoryResponse{
		Player:  player,
		History: engine.MoveHistory{A: []string{}, B: []string{}},
	}, nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	return NewServer(mockService, nil, nil, "")
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func TestGetGameState(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()

	server.ServeHTTP(w, makeRequest("GET", "/api/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.CurrentPlayer != engine.PlayerA {
		t.Errorf("Expected current player A, got %s", state.CurrentPlayer)
	}
	if state.Board.Count(engine.PlayerA) != 5 || state.Board.Count(engine.PlayerB) != 5 {
		t.Error("Expected the starting board")
	}
	if !strings.Contains(w.Body.String(), `"moveHistory":{"A":[],"B":[]}`) {
		t.Errorf("Expected empty histories in %s", w.Body.String())
	}
}

func TestMove(t *testing.T) {
	validMove := engine.MoveRequest{
		Piece:         "A-P1",
		StartPosition: engine.Position{Row: 0, Col: 0},
		EndPosition:   engine.Position{Row: 1, Col: 0},
		CurrentPlayer: "A",
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*testing.T, *MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Valid move",
			body: `{"piece":"A-P1","startPosition":[0,0],"endPosition":[1,0],"currentPlayer":"A"}`,
			setupMock: func(t *testing.T, m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error) {
					if clientID != "" {
						t.Errorf("HTTP moves should carry no client id, got %q", clientID)
					}
					if req != validMove {
						t.Errorf("Unexpected request %+v", req)
					}
					return &service.MoveResult{Valid: true, GameState: &engine.GameState{CurrentPlayer: engine.PlayerB}}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if !resp.Valid || resp.GameState.CurrentPlayer != engine.PlayerB {
					t.Errorf("Unexpected result %+v", resp)
				}
			},
		},
		{
			name: "Invalid move is still 200",
			body: validMove,
			setupMock: func(t *testing.T, m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error) {
					return &service.MoveResult{
						Valid:     false,
						Reason:    engine.InvalidMoveReason,
						Detail:    engine.ErrNotYourTurn.Error(),
						GameState: &engine.GameState{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if resp.Valid || resp.Reason != engine.InvalidMoveReason {
					t.Errorf("Unexpected result %+v", resp)
				}
			},
		},
		{
			name:           "Malformed body",
			body:           `{"piece":`,
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "Invalid request body" {
					t.Errorf("Unexpected error %q", resp["error"])
				}
			},
		},
		{
			name:           "Position with wrong arity",
			body:           `{"piece":"A-P1","startPosition":[0],"endPosition":[1,0],"currentPlayer":"A"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing start position",
			body:           `{"piece":"A-P1","endPosition":[1,0],"currentPlayer":"A"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Empty body object",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Service error",
			body: validMove,
			setupMock: func(t *testing.T, m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/move", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestReset(t *testing.T) {
	called := false
	server := setupTestServer(&MockGameService{
		ResetFunc: func(ctx context.Context) (*engine.GameState, error) {
			called = true
			return engine.NewEngine().State(), nil
		},
	})
	w := httptest.NewRecorder()

	server.ServeHTTP(w, makeRequest("POST", "/api/reset", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !called {
		t.Error("Reset was not called")
	}
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.Message != "Game reset successfully" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	if resp.State == nil || resp.State.CurrentPlayer != engine.PlayerA {
		t.Error("Expected the reset state in the response")
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedPlayer engine.Player
		expectedStatus int
	}{
		{name: "Both players", query: "", expectedPlayer: "", expectedStatus: http.StatusOK},
		{name: "Player A", query: "?player=A", expectedPlayer: engine.PlayerA, expectedStatus: http.StatusOK},
		{name: "Player B", query: "?player=B", expectedPlayer: engine.PlayerB, expectedStatus: http.StatusOK},
		{name: "Unknown player", query: "?player=C", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got engine.Player
			calls := 0
			server := setupTestServer(&MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, player engine.Player) (*service.HistoryResponse, error) {
					calls++
					got = player
					return &service.HistoryResponse{
						Player:     player,
						History:    engine.MoveHistory{A: []string{"Moved A-P1 from (0, 0) to (1, 0)"}, B: []string{}},
						TotalMoves: 1,
					}, nil
				},
			})
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/history"+tt.query, nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				if calls != 0 {
					t.Error("Service should not be called for a bad player")
				}
				return
			}
			if got != tt.expectedPlayer {
				t.Errorf("Expected player %q, got %q", tt.expectedPlayer, got)
			}
			var resp service.HistoryResponse
			parseResponse(t, w, &resp)
			if resp.TotalMoves != 1 {
				t.Errorf("Expected 1 move, got %d", resp.TotalMoves)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()

	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	var resp map[string]string
	parseResponse(t, w, &resp)
	if w.Code != http.StatusOK || resp["status"] != "healthy" {
		t.Errorf("Unexpected health response %d %v", w.Code, resp)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()

	server.ServeHTTP(w, makeRequest("GET", "/api/move", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>board</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := NewServer(&MockGameService{}, nil, nil, dir)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/", nil))

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1>board</h1>") {
		t.Errorf("Expected index.html, got %d %q", w.Code, w.Body.String())
	}

	// API routes still win over the file server
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health to be served, got %d", w.Code)
	}

	// Without a static dir nothing is served at /
	w = httptest.NewRecorder()
	setupTestServer(&MockGameService{}).ServeHTTP(w, makeRequest("GET", "/", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without static dir, got %d", w.Code)
	}
}

// Live server tests: real coordinator, hub and websocket clients

type liveServer struct {
	*httptest.Server
	hub    *websocket.Hub
	engine *engine.GameEngine
}

func startLiveServer(t *testing.T, eng *engine.GameEngine) *liveServer {
	t.Helper()
	hub := websocket.NewHub()
	go hub.Run()

	coord := session.NewCoordinator(eng, hub)
	ts := httptest.NewServer(NewServer(coord, hub, coord, ""))
	t.Cleanup(func() {
		ts.Close()
		hub.Close()
	})
	return &liveServer{Server: ts, hub: hub, engine: eng}
}

func (s *liveServer) dial(t *testing.T) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if msg := readMsg(t, conn); msg.Type != service.TypeInit {
		t.Fatalf("Expected init first, got %s", msg.Type)
	}
	return conn
}

func (s *liveServer) postMove(t *testing.T, req engine.MoveRequest) service.MoveResult {
	t.Helper()
	body, _ := json.Marshal(req)
	resp, err := http.Post(s.URL+"/api/move", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer resp.Body.Close()

	var result service.MoveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode move result: %v", err)
	}
	return result
}

func readMsg(t *testing.T, conn *gorillaws.Conn) service.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var msg service.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode %s: %v", data, err)
	}
	return msg
}

func sendMove(t *testing.T, conn *gorillaws.Conn, req engine.MoveRequest) {
	t.Helper()
	if err := conn.WriteJSON(service.Message{Type: service.TypeMove, Move: &req}); err != nil {
		t.Fatalf("Failed to send move: %v", err)
	}
}

func waitForClients(t *testing.T, hub *websocket.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
}

func TestLive_MoveBroadcastsToAllClients(t *testing.T) {
	srv := startLiveServer(t, engine.NewEngine())
	c1 := srv.dial(t)
	c2 := srv.dial(t)
	waitForClients(t, srv.hub, 2)

	sendMove(t, c1, engine.MoveRequest{
		Piece:         "A-P1",
		StartPosition: engine.Position{Row: 0, Col: 0},
		EndPosition:   engine.Position{Row: 1, Col: 0},
		CurrentPlayer: "A",
	})

	for _, conn := range []*gorillaws.Conn{c1, c2} {
		msg := readMsg(t, conn)
		if msg.Type != service.TypeUpdate {
			t.Fatalf("Expected update, got %+v", msg)
		}
		if msg.State.CurrentPlayer != engine.PlayerB {
			t.Errorf("Expected B to move, got %s", msg.State.CurrentPlayer)
		}
		if tag := msg.State.Board[1][0].Tag(); tag != "A-P1" {
			t.Errorf("Expected A-P1 at (1, 0), got %s", tag)
		}
		if got := msg.State.MoveHistory.A; len(got) != 1 || got[0] != "Moved A-P1 from (0, 0) to (1, 0)" {
			t.Errorf("Unexpected history %v", got)
		}
	}
}

func TestLive_InvalidMoveOnlyReachesSender(t *testing.T) {
	srv := startLiveServer(t, engine.NewEngine())
	c1 := srv.dial(t)
	c2 := srv.dial(t)
	waitForClients(t, srv.hub, 2)

	// B tries to move on A's turn
	sendMove(t, c2, engine.MoveRequest{
		Piece:         "B-P1",
		StartPosition: engine.Position{Row: 4, Col: 0},
		EndPosition:   engine.Position{Row: 3, Col: 0},
		CurrentPlayer: "B",
	})

	msg := readMsg(t, c2)
	if msg.Type != service.TypeInvalidMove || msg.Reason != engine.InvalidMoveReason {
		t.Fatalf("Expected invalidMove, got %+v", msg)
	}

	// A valid HTTP move reaches both; c1's next frame must be that update
	result := srv.postMove(t, engine.MoveRequest{
		Piece:         "A-H1",
		StartPosition: engine.Position{Row: 0, Col: 1},
		EndPosition:   engine.Position{Row: 2, Col: 1},
		CurrentPlayer: "A",
	})
	if !result.Valid {
		t.Fatalf("Expected valid move, got %+v", result)
	}

	if msg := readMsg(t, c1); msg.Type != service.TypeUpdate {
		t.Errorf("c1 should only see the update, got %+v", msg)
	}
	if msg := readMsg(t, c2); msg.Type != service.TypeUpdate {
		t.Errorf("c2 should see the update, got %+v", msg)
	}
}

func TestLive_InvalidHTTPMoveIsNotBroadcast(t *testing.T) {
	srv := startLiveServer(t, engine.NewEngine())
	c1 := srv.dial(t)
	waitForClients(t, srv.hub, 1)

	result := srv.postMove(t, engine.MoveRequest{
		Piece:         "A-P1",
		StartPosition: engine.Position{Row: 0, Col: 0},
		EndPosition:   engine.Position{Row: 2, Col: 0},
		CurrentPlayer: "A",
	})
	if result.Valid || result.Reason != engine.InvalidMoveReason {
		t.Fatalf("Expected rejection, got %+v", result)
	}
	if result.Detail != engine.ErrIllegalShape.Error() {
		t.Errorf("Expected illegal shape detail, got %q", result.Detail)
	}

	resp, err := http.Post(srv.URL+"/api/reset", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	// The reset update is the first thing c1 sees
	msg := readMsg(t, c1)
	if msg.Type != service.TypeUpdate || msg.State.CurrentPlayer != engine.PlayerA {
		t.Errorf("Expected reset update, got %+v", msg)
	}
}

func TestLive_WinningMoveSendsGameOver(t *testing.T) {
	eng := engine.NewEngine()
	var board engine.Board
	board[2][0] = &engine.Piece{Owner: engine.PlayerA, Kind: engine.StraightHero}
	board[2][1] = &engine.Piece{Owner: engine.PlayerB, Kind: engine.Pawn}
	board[0][4] = &engine.Piece{Owner: engine.PlayerA, Kind: engine.Pawn}
	if err := eng.SetState(&engine.GameState{Board: board, CurrentPlayer: engine.PlayerA}); err != nil {
		t.Fatal(err)
	}

	srv := startLiveServer(t, eng)
	c1 := srv.dial(t)
	c2 := srv.dial(t)
	waitForClients(t, srv.hub, 2)

	sendMove(t, c1, engine.MoveRequest{
		Piece:         "A-H1",
		StartPosition: engine.Position{Row: 2, Col: 0},
		EndPosition:   engine.Position{Row: 2, Col: 2},
		CurrentPlayer: "A",
	})

	for _, conn := range []*gorillaws.Conn{c1, c2} {
		update := readMsg(t, conn)
		if update.Type != service.TypeUpdate {
			t.Fatalf("Expected update before gameOver, got %+v", update)
		}
		if update.State.CurrentPlayer != engine.PlayerA || !update.State.GameOver {
			t.Errorf("Turn should stay with the winner, got %+v", update.State)
		}
		over := readMsg(t, conn)
		if over.Type != service.TypeGameOver || over.Winner != engine.PlayerA {
			t.Errorf("Expected gameOver for A, got %+v", over)
		}
	}

	var state engine.GameState
	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Winner != engine.PlayerA || state.Board.Count(engine.PlayerB) != 0 {
		t.Errorf("Unexpected final state %+v", state)
	}
}
