// Package api provides HTTP REST API handlers for the game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Game Operations:
//   - GET /api/state - Current game state
//   - POST /api/move - Submit a move (MoveRequest body)
//   - POST /api/reset - Restore the starting layout
//   - GET /api/history?player=A - Move history for one player, or both
//   - GET /api/health - Liveness probe
//
// Live updates:
//   - GET /ws - WebSocket upgrade, see package websocket
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A move body looks like:
//
//	{
//	  "piece": "A-P1",
//	  "startPosition": [0, 0],
//	  "endPosition": [1, 0],
//	  "currentPlayer": "A"
//	}
//
// A move that breaks a rule is not an HTTP error: the response is 200 with
// "valid": false, "reason": "Invalid move" and a "detail" naming the rule.
// Valid moves made over HTTP are broadcast to WebSocket clients like any
// other move.
//
// Usage:
//
//	coord := session.NewCoordinator(engine.NewEngine(), hub)
//	srv := api.NewServer(coord, hub, coord, "./static")
//	http.ListenAndServe(":8080", srv)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
