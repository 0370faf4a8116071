// Package mcp provides a Model Context Protocol server for the game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Text rendering of the board, move results and history
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Board grid, piece counts and whose turn it is
//   - move: Move one piece (piece, from_row, from_col, to_row, to_col, player, intent)
//   - reset_game: Restore the starting layout
//   - move_history: Moves of one player, or both
//   - game_rules: The complete rules
//   - describe_cell: Occupant of a cell and its legal destinations
//
// Every tool is a thin proxy over the REST API, see package api. Rule
// violations come back as normal text results; only transport failures and
// bad arguments are reported as tool errors.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST /mcp on the game server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	resp := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
