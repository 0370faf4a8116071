package service

import (
	"context"

	"github.com/wricardo/gridduel/game/engine"
)

// GameService defines all game-related operations exposed to transports
type GameService interface {
	// Game Operations
	Move(ctx context.Context, clientID string, req engine.MoveRequest) (*MoveResult, error)
	Reset(ctx context.Context) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, player engine.Player) (*HistoryResponse, error)
}
