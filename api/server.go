package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wricardo/gridduel/game/engine"
	"github.com/wricardo/gridduel/game/service"
	"github.com/wricardo/gridduel/game/session"
	"github.com/wricardo/gridduel/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service   service.GameService
	hub       *websocket.Hub
	handler   websocket.Handler
	staticDir string
	router    *mux.Router
}

// NewServer creates a new API server. hub and handler may be nil, in which
// case /ws is not served. An empty staticDir disables file serving.
func NewServer(gameService service.GameService, hub *websocket.Hub, handler websocket.Handler, staticDir string) *Server {
	s := &Server{
		service:   gameService,
		hub:       hub,
		handler:   handler,
		staticDir: staticDir,
		router:    mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game operations
	api.HandleFunc("/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/move", s.handleMove).Methods("POST")
	api.HandleFunc("/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	if s.hub != nil && s.handler != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}

	// Static files
	if s.staticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req engine.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// HTTP callers read the outcome from the response, so no client id
	result, err := s.service.Move(r.Context(), "", req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := "OK"
	if !result.Valid {
		status = "REJECTED " + result.Detail
	}
	log.Printf("[MOVE] api %s %v->%v as %s status=%s",
		req.Piece, req.StartPosition, req.EndPosition, req.CurrentPlayer, status)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Reset(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	var player engine.Player
	if p := r.URL.Query().Get("player"); p != "" {
		parsed, err := engine.ParsePlayer(p)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		player = parsed
	}

	history, err := s.service.GetMoveHistory(r.Context(), player)
	if errors.Is(err, session.ErrUnknownPlayer) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.handler)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
