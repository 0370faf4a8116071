package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wricardo/gridduel/game/engine"
)

// Message types on the persistent connection
const (
	TypeInit        = "init"
	TypeUpdate      = "update"
	TypeInvalidMove = "invalidMove"
	TypeGameOver    = "gameOver"
	TypeMove        = "move"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message is the single envelope used in both directions, discriminated by Type
type Message struct {
	Type   string              `json:"type"`
	State  *engine.GameState   `json:"state,omitempty"`
	Reason string              `json:"reason,omitempty"`
	Winner engine.Player       `json:"winner,omitempty"`
	Move   *engine.MoveRequest `json:"move,omitempty"`
}

// InitMessage is sent once to a connection right after it joins
func InitMessage(state *engine.GameState) Message {
	return Message{Type: TypeInit, State: state}
}

// UpdateMessage is broadcast after every valid move or reset
func UpdateMessage(state *engine.GameState) Message {
	return Message{Type: TypeUpdate, State: state}
}

// InvalidMoveMessage goes to the requesting connection only
func InvalidMoveMessage(reason string) Message {
	return Message{Type: TypeInvalidMove, Reason: reason}
}

// GameOverMessage is broadcast after the update of a winning move
func GameOverMessage(winner engine.Player) Message {
	return Message{Type: TypeGameOver, Winner: winner}
}

// DecodeMessage parses an inbound client frame. Only init and move are
// accepted; a move must carry its body.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch msg.Type {
	case TypeInit:
		return msg, nil
	case TypeMove:
		if msg.Move == nil {
			return Message{}, fmt.Errorf("%w: move without body", ErrMalformedMessage)
		}
		return msg, nil
	case "":
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}
