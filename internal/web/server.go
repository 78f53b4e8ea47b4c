package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/sovereign/internal/game"
	"github.com/peterkuimelis/sovereign/internal/room"
)

// ErrorResponse is the JSON body for rejected HTTP requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP and websocket gateway in front of the room manager.
type Server struct {
	manager *room.Manager
	catalog *game.Catalog
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer wires the gateway's routes.
func NewServer(manager *room.Manager, catalog *game.Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		manager: manager,
		catalog: catalog,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /ws/{id}", s.handleWebSocket)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type createGameRequest struct {
	Kingdom []string `json:"kingdom"`
}

type createGameResponse struct {
	GameID string `json:"game_id"`
}

// handleCreateGame makes a new room. An optional body may pin part of the
// kingdom selection.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	rm := s.manager.Create(req.Kingdom)
	writeJSON(w, http.StatusCreated, createGameResponse{GameID: rm.ID})
}

// handleCards returns the loaded catalog for client rendering.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Cards())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebSocket attaches one connection to its room: a writer goroutine
// pumps room messages out while this goroutine feeds inbound payloads in.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "game not found"})
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Error("websocket accept", "room", rm.ID, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	client := room.NewClient()
	rm.Attach(client)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for data := range client.Send() {
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "room closed")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		rm.Submit(client, data)
	}
	rm.Detach(client)
	<-writeDone
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
