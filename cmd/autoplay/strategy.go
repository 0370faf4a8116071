package main

import (
	"math/rand"

	"github.com/wricardo/gridduel/game/engine"
)

// Candidate is one legal move for the side to play
type Candidate struct {
	Piece engine.Piece
	From  engine.Position
	To    engine.Position
	Gain  int // opponent pieces removed
}

// Request converts the candidate into a MoveRequest for its owner
func (c Candidate) Request() engine.MoveRequest {
	return engine.MoveRequest{
		Piece:         c.Piece.Tag(),
		StartPosition: c.From,
		EndPosition:   c.To,
		CurrentPlayer: string(c.Piece.Owner),
	}
}

// Candidates lists every legal move in state for the player to move
func Candidates(state *engine.GameState) []Candidate {
	if state.GameOver {
		return nil
	}

	local := engine.NewEngine()
	if err := local.SetState(state); err != nil {
		return nil
	}

	var out []Candidate
	for r := 0; r < engine.BoardSize; r++ {
		for c := 0; c < engine.BoardSize; c++ {
			from := engine.Position{Row: r, Col: c}
			piece, ok := state.Board.At(from)
			if !ok || piece.Owner != state.CurrentPlayer {
				continue
			}
			for _, to := range local.LegalMoves(from) {
				out = append(out, Candidate{
					Piece: piece,
					From:  from,
					To:    to,
					Gain:  gain(state, piece, from, to),
				})
			}
		}
	}
	return out
}

// gain counts the opponent pieces a move removes: the jumped cell for heroes
// and the destination for everyone
func gain(state *engine.GameState, piece engine.Piece, from, to engine.Position) int {
	n := 0
	if piece.Kind != engine.Pawn {
		mid := engine.Position{Row: (from.Row + to.Row) / 2, Col: (from.Col + to.Col) / 2}
		if p, ok := state.Board.At(mid); ok && p.Owner != piece.Owner {
			n++
		}
	}
	if p, ok := state.Board.At(to); ok && p.Owner != piece.Owner {
		n++
	}
	return n
}

// Strategy picks the next move
type Strategy interface {
	Next(state *engine.GameState) (Candidate, bool)
}

// GreedyStrategy takes the move that captures most, breaking ties at random
type GreedyStrategy struct {
	rng *rand.Rand
}

func NewGreedyStrategy(seed int64) *GreedyStrategy {
	return &GreedyStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (s *GreedyStrategy) Next(state *engine.GameState) (Candidate, bool) {
	candidates := Candidates(state)
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := 0
	for _, c := range candidates {
		if c.Gain > best {
			best = c.Gain
		}
	}

	var top []Candidate
	for _, c := range candidates {
		if c.Gain == best {
			top = append(top, c)
		}
	}
	return top[s.rng.Intn(len(top))], true
}

// RandomStrategy plays any legal move
type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomStrategy) Next(state *engine.GameState) (Candidate, bool) {
	candidates := Candidates(state)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}
