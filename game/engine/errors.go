package engine

import "errors"

// Rule violations. They are reported through Result.Err, never returned.
var (
	ErrGameOver              = errors.New("game is over")
	ErrUnknownPiece          = errors.New("unknown piece")
	ErrWrongOwner            = errors.New("piece does not belong to the claimed player")
	ErrNotYourTurn           = errors.New("claimed player is not the current player")
	ErrOutOfBounds           = errors.New("position out of bounds")
	ErrPieceMismatch         = errors.New("start position does not hold the claimed piece")
	ErrIllegalShape          = errors.New("displacement not allowed for piece kind")
	ErrOwnPieceAtDestination = errors.New("destination holds a friendly piece")
)

// ErrIncompleteMove is a decoding error: a move request lacks a field
var ErrIncompleteMove = errors.New("incomplete move request")
