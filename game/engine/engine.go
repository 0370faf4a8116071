package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	State() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	Winner() Player
	CurrentPlayer() Player

	// Movement operations
	ApplyMove(req MoveRequest) Result
	LegalMoves(from Position) []Position

	// Board queries
	PieceAt(pos Position) (Piece, bool)
	CountPieces(p Player) int

	// History
	History() MoveHistory
}

var _ Engine = (*GameEngine)(nil)

// GameEngine implements the Engine interface. It holds no locks; callers
// that share an instance must serialize access.
type GameEngine struct {
	board   Board
	turn    Player
	history MoveHistory
	winner  Player
}

// NewEngine creates an engine with the starting layout, A to move
func NewEngine() *GameEngine {
	e := &GameEngine{}
	e.Reset()
	return e
}

// State returns a deep copy of the current game state
func (e *GameEngine) State() *GameState {
	return &GameState{
		Board:         e.board.clone(),
		CurrentPlayer: e.turn,
		MoveHistory:   e.history.clone(),
		GameOver:      e.winner != "",
		Winner:        e.winner,
	}
}

// SetState replaces the engine state with a copy of state. Used to restore a
// position, e.g. in tests and tooling.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if !state.CurrentPlayer.Valid() {
		return fmt.Errorf("invalid current player %q", state.CurrentPlayer)
	}
	if state.Winner != "" && !state.Winner.Valid() {
		return fmt.Errorf("invalid winner %q", state.Winner)
	}
	for r, row := range state.Board {
		for c, cell := range row {
			if cell != nil && (!cell.Owner.Valid() || !cell.Kind.Valid()) {
				return fmt.Errorf("invalid piece at (%d, %d): %w", r, c, ErrUnknownPiece)
			}
		}
	}

	e.board = state.Board.clone()
	e.turn = state.CurrentPlayer
	e.history = state.MoveHistory.clone()
	e.winner = state.Winner
	return nil
}

// Reset restores the starting layout. Valid in any state, including after a win.
func (e *GameEngine) Reset() *GameState {
	e.board = StartingBoard()
	e.turn = PlayerA
	e.history = MoveHistory{A: []string{}, B: []string{}}
	e.winner = ""
	return e.State()
}

// IsGameOver returns whether a player has won
func (e *GameEngine) IsGameOver() bool {
	return e.winner != ""
}

// Winner returns the winning player, or "" while the game is running
func (e *GameEngine) Winner() Player {
	return e.winner
}

// CurrentPlayer returns whose turn it is
func (e *GameEngine) CurrentPlayer() Player {
	return e.turn
}

// PieceAt returns the piece at pos. Out of range positions are empty.
func (e *GameEngine) PieceAt(pos Position) (Piece, bool) {
	return e.board.At(pos)
}

// CountPieces returns how many pieces p still has on the board
func (e *GameEngine) CountPieces(p Player) int {
	return e.board.Count(p)
}

// History returns a copy of both players' move history
func (e *GameEngine) History() MoveHistory {
	return e.history.clone()
}

// ApplyMove validates and executes a move. Rule violations come back as an
// invalid Result and leave the state untouched.
func (e *GameEngine) ApplyMove(req MoveRequest) Result {
	piece, err := e.checkTurn(req)
	if err != nil {
		return rejected(err)
	}

	from, to := req.StartPosition, req.EndPosition
	if err := checkShape(piece.Kind, from, to); err != nil {
		return rejected(err)
	}
	if err := e.checkDestination(piece, to); err != nil {
		return rejected(err)
	}

	e.board.execute(piece, from, to)
	e.history.append(piece.Owner, describeMove(piece, from, to))

	if e.board.Count(piece.Owner.Opponent()) == 0 {
		e.winner = piece.Owner
		return Result{Valid: true, Winner: piece.Owner}
	}

	e.turn = e.turn.Opponent()
	return Result{Valid: true}
}

// LegalMoves lists every destination the piece at from could move to right
// now. It is empty when the cell is empty, not the mover's, or the game is over.
func (e *GameEngine) LegalMoves(from Position) []Position {
	piece, ok := e.board.At(from)
	if !ok || piece.Owner != e.turn || e.IsGameOver() {
		return nil
	}

	var moves []Position
	for _, d := range displacements[piece.Kind] {
		to := Position{Row: from.Row + d.Row, Col: from.Col + d.Col}
		if e.checkDestination(piece, to) == nil {
			moves = append(moves, to)
		}
	}
	return moves
}

// checkTurn verifies the request against the actual turn and board. Client
// asserted identity is only trusted once it matches engine state.
func (e *GameEngine) checkTurn(req MoveRequest) (Piece, error) {
	if e.IsGameOver() {
		return Piece{}, ErrGameOver
	}

	piece, err := ParsePiece(req.Piece)
	if err != nil {
		return Piece{}, err
	}
	if string(piece.Owner) != req.CurrentPlayer {
		return Piece{}, ErrWrongOwner
	}
	if piece.Owner != e.turn {
		return Piece{}, ErrNotYourTurn
	}
	if !req.StartPosition.InBounds() {
		return Piece{}, ErrOutOfBounds
	}
	if occupant, ok := e.board.At(req.StartPosition); !ok || occupant != piece {
		return Piece{}, ErrPieceMismatch
	}
	return piece, nil
}

func (e *GameEngine) checkDestination(piece Piece, to Position) error {
	if !to.InBounds() {
		return ErrOutOfBounds
	}
	if occupant, ok := e.board.At(to); ok && occupant.Owner == piece.Owner {
		return ErrOwnPieceAtDestination
	}
	return nil
}

func describeMove(piece Piece, from, to Position) string {
	return fmt.Sprintf("Moved %s from %s to %s", piece.Tag(), from, to)
}
