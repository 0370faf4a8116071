package service

import (
	"github.com/wricardo/gridduel/game/engine"
)

// MoveResult contains the result of a move operation
type MoveResult struct {
	Valid     bool              `json:"valid"`
	Winner    engine.Player     `json:"winner,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Detail    string            `json:"detail,omitempty"` // which rule rejected the move
	GameState *engine.GameState `json:"game_state"`
}

// NewMoveResult builds a MoveResult from an engine result and the state after it
func NewMoveResult(res engine.Result, state *engine.GameState) *MoveResult {
	out := &MoveResult{
		Valid:     res.Valid,
		Winner:    res.Winner,
		Reason:    res.Reason,
		GameState: state,
	}
	if res.Err != nil {
		out.Detail = res.Err.Error()
	}
	return out
}

// HistoryResponse contains move history for one or both players
type HistoryResponse struct {
	Player     engine.Player      `json:"player,omitempty"`
	History    engine.MoveHistory `json:"history"`
	TotalMoves int                `json:"total_moves"`
}
