// Package engine provides the rules of the 5x5 capture game.
//
// The engine package implements:
//   - Board layout and piece identity (owner, kind)
//   - Per-kind movement rules and destination checks
//   - Path captures and destination overwrite
//   - Turn alternation and win detection
//   - Per-player move history
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is an immutable snapshot of the board,
// the player to move and the move history. MoveRequest is a proposed move and
// Result its outcome.
//
// Usage:
//
//	e := engine.NewEngine()
//
//	res := e.ApplyMove(engine.MoveRequest{
//		Piece:         "A-P1",
//		StartPosition: engine.Position{Row: 0, Col: 0},
//		EndPosition:   engine.Position{Row: 1, Col: 0},
//		CurrentPlayer: "A",
//	})
//	if !res.Valid {
//		log.Printf("rejected: %v", res.Err)
//	}
//	state := e.State()
//
// Game Rules:
//
// Each player starts with five pieces on their home row. P1 moves one step
// orthogonally, H1 two steps orthogonally and H2 two steps diagonally.
// Opponent pieces on the cells passed over are captured and whatever stands on
// the destination is replaced. A player wins as soon as the opponent has no
// pieces left; the turn does not pass after a winning move.
//
// Concurrency:
//
// GameEngine holds no locks. Callers sharing one instance must serialize all
// calls, see package session.
package engine
