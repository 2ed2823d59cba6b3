package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"zerpy/pkg/api"
	"zerpy/pkg/config"
	"zerpy/pkg/controller"
	"zerpy/pkg/refresh"
)

func testServer() *Server {
	cfg := &config.Config{
		Server: "http://localhost:3000",
		Accounts: map[string]config.AccountEntry{
			"rAAA": {APIKey: "k", Secret: "s", Alias: "main"},
		},
	}
	ctrl := controller.NewController(cfg, api.NewClient(cfg.Server))
	coord := refresh.NewCoordinator(ctrl)
	return NewServer(ctrl, coord)
}

func TestHandleStatus(t *testing.T) {
	s := testServer()

	req, _ := http.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()

	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "rAAA", resp["active"])
	assert.Contains(t, resp, "accounts")
	assert.NotContains(t, rr.Body.String(), "s3cret", "credentials must never leave the process")
	assert.NotContains(t, rr.Body.String(), "apiKey")
}

func TestStartStopsOnContextCancel(t *testing.T) {
	s := testServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, 0) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestHandleWS(t *testing.T) {
	s := testServer()
	server := httptest.NewServer(s.mux)
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	assert.NoError(t, err)
	defer func() { _ = ws.Close() }()

	var msg map[string]interface{}
	err = ws.ReadJSON(&msg)
	assert.NoError(t, err)
	assert.Equal(t, "initial", msg["type"])
}
