package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Player identifies one side of the game
type Player string

const (
	PlayerA Player = "A"
	PlayerB Player = "B"

	// Board dimensions
	BoardSize = 5

	// InvalidMoveReason is the reason reported for every rejected move
	InvalidMoveReason = "Invalid move"
)

// Opponent returns the other player
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Valid reports whether p is one of the two players
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// ParsePlayer converts a wire identifier into a Player
func ParsePlayer(s string) (Player, error) {
	p := Player(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown player %q", s)
	}
	return p, nil
}

// Kind is a piece type. Each kind has its own movement rule.
type Kind string

const (
	Pawn         Kind = "P1" // one orthogonal step
	StraightHero Kind = "H1" // two orthogonal steps
	DiagonalHero Kind = "H2" // two diagonal steps
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case Pawn, StraightHero, DiagonalHero:
		return true
	}
	return false
}

// Piece is an (owner, kind) pair. Pieces are values; two equal pieces are
// indistinguishable.
type Piece struct {
	Owner Player
	Kind  Kind
}

// Tag returns the wire form, e.g. "A-P1"
func (p Piece) Tag() string {
	return string(p.Owner) + "-" + string(p.Kind)
}

func (p Piece) String() string {
	return p.Tag()
}

// ParsePiece parses a tag such as "B-H2"
func ParsePiece(tag string) (Piece, error) {
	owner, kind, ok := strings.Cut(tag, "-")
	if !ok {
		return Piece{}, fmt.Errorf("%w: %q", ErrUnknownPiece, tag)
	}
	p := Piece{Owner: Player(owner), Kind: Kind(kind)}
	if !p.Owner.Valid() || !p.Kind.Valid() {
		return Piece{}, fmt.Errorf("%w: %q", ErrUnknownPiece, tag)
	}
	return p, nil
}

// MarshalJSON encodes the piece as its tag
func (p Piece) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Tag())
}

// UnmarshalJSON decodes a tag string
func (p *Piece) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	parsed, err := ParsePiece(tag)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Position is a (row, col) board coordinate. It travels as [row, col].
type Position struct {
	Row int
	Col int
}

// InBounds reports whether the position lies on the board
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// MarshalJSON encodes the position as a two element array
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON decodes a [row, col] array
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("position must have 2 coordinates, got %d", len(pair))
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// Board is the 5x5 grid. A nil cell is empty.
type Board [BoardSize][BoardSize]*Piece

// MoveHistory holds per-player move descriptions in the order they happened
type MoveHistory struct {
	A []string `json:"A"`
	B []string `json:"B"`
}

// For returns the history of one player
func (h MoveHistory) For(p Player) []string {
	if p == PlayerB {
		return h.B
	}
	return h.A
}

func (h *MoveHistory) append(p Player, entry string) {
	if p == PlayerB {
		h.B = append(h.B, entry)
		return
	}
	h.A = append(h.A, entry)
}

func (h MoveHistory) clone() MoveHistory {
	return MoveHistory{
		A: append(make([]string, 0, len(h.A)), h.A...),
		B: append(make([]string, 0, len(h.B)), h.B...),
	}
}

// GameState is an externally visible snapshot. It shares no memory with the
// engine that produced it.
type GameState struct {
	Board         Board       `json:"board"`
	CurrentPlayer Player      `json:"currentPlayer"`
	MoveHistory   MoveHistory `json:"moveHistory"`
	GameOver      bool        `json:"gameOver"`
	Winner        Player      `json:"winner,omitempty"`
}

// MoveRequest is a proposed move as sent by a client
type MoveRequest struct {
	Piece         string   `json:"piece"`
	StartPosition Position `json:"startPosition"`
	EndPosition   Position `json:"endPosition"`
	CurrentPlayer string   `json:"currentPlayer"`
}

// UnmarshalJSON rejects requests with a missing, null or empty field. A zero
// Position is a real cell, so absence must not decode to (0, 0).
func (m *MoveRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Piece         *string   `json:"piece"`
		StartPosition *Position `json:"startPosition"`
		EndPosition   *Position `json:"endPosition"`
		CurrentPlayer *string   `json:"currentPlayer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Piece == nil || *raw.Piece == "":
		return fmt.Errorf("%w: piece", ErrIncompleteMove)
	case raw.StartPosition == nil:
		return fmt.Errorf("%w: startPosition", ErrIncompleteMove)
	case raw.EndPosition == nil:
		return fmt.Errorf("%w: endPosition", ErrIncompleteMove)
	case raw.CurrentPlayer == nil || *raw.CurrentPlayer == "":
		return fmt.Errorf("%w: currentPlayer", ErrIncompleteMove)
	}

	*m = MoveRequest{
		Piece:         *raw.Piece,
		StartPosition: *raw.StartPosition,
		EndPosition:   *raw.EndPosition,
		CurrentPlayer: *raw.CurrentPlayer,
	}
	return nil
}

// Result is the outcome of ApplyMove. Err names the failed validation stage
// and is never serialized.
type Result struct {
	Valid  bool   `json:"valid"`
	Winner Player `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

func rejected(err error) Result {
	return Result{Valid: false, Reason: InvalidMoveReason, Err: err}
}
