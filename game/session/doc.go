// Package session coordinates the single shared game.
//
// The session package implements:
//   - Exclusive ownership of one engine.Engine for the process lifetime
//   - Serialized access to the engine through a mutex
//   - Relaying of inbound moves and fan-out of the outcome
//   - Reset and read-only queries for the REST and MCP surfaces
//
// Core Types:
//
// Coordinator implements service.GameService. Broadcaster is the outbound
// side it depends on; transport/websocket.Hub implements it.
//
// Message Flow:
//
// A valid move is broadcast to every connection as an update, followed by a
// gameOver message when it ends the game. A rejected move is sent only to the
// connection that proposed it. Other connections never learn of it.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	coord := session.NewCoordinator(engine.NewEngine(), hub)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, coord)
//	})
//
// Concurrency:
//
// Every engine call, and the broadcasts it triggers, happens under one lock.
// Connections therefore observe updates in move order and never see a
// partially applied move. The Broadcaster must not call back into the
// Coordinator.
package session
