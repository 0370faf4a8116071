// Package service defines the contract between the game and its transports.
//
// The service package provides:
//   - The GameService interface used by the REST API and MCP tools
//   - Result types for moves and history queries
//   - The message envelope exchanged over the persistent connection
//
// Message Protocol:
//
// Every frame is a JSON object with a "type" discriminator.
//
// Server to client:
//   - {"type":"init","state":GameState}      once, on connect
//   - {"type":"update","state":GameState}    to everyone after a valid move
//   - {"type":"invalidMove","reason":"..."}  to the requester only
//   - {"type":"gameOver","winner":"A"}       to everyone after the update
//
// Client to server:
//   - {"type":"init"}                        informational
//   - {"type":"move","move":MoveRequest}     the only mutating message
//
// DecodeMessage rejects everything else with ErrMalformedMessage or
// ErrUnknownMessageType; callers log and drop such frames.
package service
