package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/session"
)

func TestSessionsAndHealth(t *testing.T) {
	h := hub.New(nil)
	ctrl := session.New(session.Options{ID: "ABC"})
	if err := h.Register(ctrl, "192.0.2.1", "vt100", 80, 24); err != nil {
		t.Fatalf("register: %v", err)
	}
	routes := Routes(http.NotFoundHandler(), h)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []hub.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "ABC" || entries[0].Term != "vt100" {
		t.Fatalf("entries = %+v", entries)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("post status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" || health["sessions"] != float64(1) {
		t.Fatalf("health = %v", health)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "termframe_sessions_active") {
		t.Fatalf("metrics status = %d", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	shutdown := make(chan struct{})
	srv, err := New(Config{
		BasePath:   "/console",
		OnShutdown: func() { close(shutdown) },
	}, Routes(http.NotFoundHandler(), hub.New(nil)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/console/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return")
	}
	select {
	case <-shutdown:
	default:
		t.Fatalf("shutdown hook not called")
	}
}

func TestNewRejectsBadBasePath(t *testing.T) {
	if _, err := New(Config{BasePath: "/a/../b"}, http.NotFoundHandler()); err == nil {
		t.Fatalf("expected base path error")
	}
}
