package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"zerpy/pkg/controller"
	"zerpy/pkg/logger"
	"zerpy/pkg/refresh"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RefreshInterval is how often headless mode re-fetches the active account.
var RefreshInterval = 30 * time.Second

// Server exposes the wallet state over HTTP for headless runs: a JSON
// status endpoint plus a websocket stream of refresh outcomes. It applies
// current refresh results itself since no TUI is running to do it.
type Server struct {
	controller  *controller.Controller
	coordinator *refresh.Coordinator
	clients     map[*websocket.Conn]bool
	mu          sync.Mutex
	mux         *http.ServeMux
}

func NewServer(ctrl *controller.Controller, coord *refresh.Coordinator) *Server {
	s := &Server{
		controller:  ctrl,
		coordinator: coord,
		clients:     make(map[*websocket.Conn]bool),
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) Start(ctx context.Context, port int) error {
	go s.listenToCoordinator()
	go s.refreshLoop(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("API server listening on :%d", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) refreshLoop(ctx context.Context) {
	s.coordinator.Trigger(s.controller.ActiveAccount())

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.coordinator.Trigger(s.controller.ActiveAccount())
		case <-ctx.Done():
			return
		}
	}
}

type statusAccount struct {
	Address string `json:"address"`
	Alias   string `json:"alias,omitempty"`
}

func (s *Server) statusPayload() map[string]interface{} {
	accounts := make([]statusAccount, 0)
	for _, acc := range s.controller.Accounts() {
		accounts = append(accounts, statusAccount{Address: acc.Address, Alias: acc.Alias})
	}

	data := map[string]interface{}{
		"active":   s.controller.ActiveAccount(),
		"accounts": accounts,
	}
	if balance, err := s.controller.Balance(); err == nil {
		data["balance"] = balance
		data["transactions"] = s.controller.FormattedTransactions()
	}
	return data
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.statusPayload())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	initial := map[string]interface{}{
		"type": "initial",
		"data": s.statusPayload(),
	}
	_ = conn.WriteJSON(initial)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToCoordinator() {
	sub := s.coordinator.Subscribe()
	defer s.coordinator.Unsubscribe(sub)

	for outcome := range sub {
		applied := false
		if s.coordinator.IsCurrent(outcome) && outcome.Err == nil {
			applied = s.controller.ApplySnapshot(outcome.Snapshot)
		}

		event := map[string]interface{}{
			"type":       "refresh",
			"request_id": outcome.RequestID,
			"address":    outcome.Address,
			"applied":    applied,
		}
		if outcome.Err != nil {
			event["error"] = outcome.Err.Error()
		}
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
