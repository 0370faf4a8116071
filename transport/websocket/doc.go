// Package websocket provides the persistent connection transport for the game.
//
// The websocket package implements:
//   - Connection upgrade and per-client read/write pumps
//   - Client identity (a ksuid assigned on connect)
//   - Broadcast to every client and direct delivery to one client
//   - Dropping clients that stop draining their queue
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns the set of
// connected clients. Only the Run goroutine touches that set; everything else
// talks to it over channels. Each client has a read pump that forwards frames
// to a Handler and a write pump that drains its buffered send queue.
//
// Message Protocol:
//
// Every frame is one JSON service.Message, see package service. The hub does
// not look inside messages; it only encodes and delivers them.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Close()
//
//	coord := session.NewCoordinator(engine.NewEngine(), hub)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, coord)
//	})
//
// Connection Lifecycle:
//
// 1. Client connects and is assigned an id
// 2. Handler.Join queues the init message, then the client is registered
// 3. Client sends moves, receives updates and replies
// 4. Disconnection or a full queue triggers cleanup
//
// Concurrency:
//
// Broadcast and SendTo hand the encoded message to the Run goroutine and
// never wait on a client. The hub never calls back into the Handler, so a
// Handler may hold its own lock while publishing.
package websocket
