package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/wricardo/gridduel/game/engine"
	"github.com/wricardo/gridduel/game/service"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Broadcaster delivers outbound messages to connected clients. Implementations
// must not block on slow clients.
type Broadcaster interface {
	Broadcast(msg service.Message)
	SendTo(clientID string, msg service.Message)
}

// Coordinator owns the single game instance and serializes every call into it
type Coordinator struct {
	engine engine.Engine
	out    Broadcaster
	mu     sync.Mutex
}

// NewCoordinator creates a coordinator for eng that publishes through out
func NewCoordinator(eng engine.Engine, out Broadcaster) *Coordinator {
	return &Coordinator{
		engine: eng,
		out:    out,
	}
}

// Join hands the init message for a new connection to attach. The engine lock
// is held while attach runs, so no update can reach the connection before it.
func (c *Coordinator) Join(clientID string, attach func(init service.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	attach(service.InitMessage(c.engine.State()))
	log.Printf("Client %s joined (turn: %s)", clientID, c.engine.CurrentPlayer())
}

// HandleMessage processes one raw frame from a connection. Malformed frames
// are logged and dropped without touching the game.
func (c *Coordinator) HandleMessage(clientID string, data []byte) {
	msg, err := service.DecodeMessage(data)
	if err != nil {
		log.Printf("Ignoring message from %s: %v", clientID, err)
		return
	}

	switch msg.Type {
	case service.TypeInit:
		// The init state was already sent when the connection joined.
	case service.TypeMove:
		c.Move(context.Background(), clientID, *msg.Move)
	}
}

// Move applies a move. Valid moves are broadcast to everyone, followed by a
// gameOver notice when the move wins. Rejections go to clientID alone; an
// empty clientID means the caller reads the result instead.
func (c *Coordinator) Move(ctx context.Context, clientID string, req engine.MoveRequest) (*service.MoveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.engine.ApplyMove(req)
	state := c.engine.State()

	if !res.Valid {
		log.Printf("Rejected move from %s: %s %v->%v as %q: %v",
			clientOrAPI(clientID), req.Piece, req.StartPosition, req.EndPosition, req.CurrentPlayer, res.Err)
		if clientID != "" {
			c.out.SendTo(clientID, service.InvalidMoveMessage(res.Reason))
		}
		return service.NewMoveResult(res, state), nil
	}

	log.Printf("Move from %s: %s %v->%v (next: %s)",
		clientOrAPI(clientID), req.Piece, req.StartPosition, req.EndPosition, state.CurrentPlayer)
	c.out.Broadcast(service.UpdateMessage(state))
	if res.Winner != "" {
		log.Printf("Game over, winner: %s", res.Winner)
		c.out.Broadcast(service.GameOverMessage(res.Winner))
	}

	return service.NewMoveResult(res, state), nil
}

// Reset restores the starting layout and broadcasts it
func (c *Coordinator) Reset(ctx context.Context) (*engine.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.engine.Reset()
	c.out.Broadcast(service.UpdateMessage(state))
	log.Println("Game reset")

	return state, nil
}

// GetGameState returns a snapshot of the current game
func (c *Coordinator) GetGameState(ctx context.Context) (*engine.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.engine.State(), nil
}

// GetMoveHistory returns the history of player, or of both players when
// player is empty
func (c *Coordinator) GetMoveHistory(ctx context.Context, player engine.Player) (*service.HistoryResponse, error) {
	if player != "" && !player.Valid() {
		return nil, ErrUnknownPlayer
	}

	c.mu.Lock()
	history := c.engine.History()
	c.mu.Unlock()

	resp := &service.HistoryResponse{Player: player}
	switch player {
	case "":
		resp.History = history
		resp.TotalMoves = len(history.A) + len(history.B)
	case engine.PlayerA:
		resp.History = engine.MoveHistory{A: history.A, B: []string{}}
		resp.TotalMoves = len(history.A)
	case engine.PlayerB:
		resp.History = engine.MoveHistory{A: []string{}, B: history.B}
		resp.TotalMoves = len(history.B)
	}
	return resp, nil
}

func clientOrAPI(clientID string) string {
	if clientID == "" {
		return "api"
	}
	return clientID
}

var _ service.GameService = (*Coordinator)(nil)
