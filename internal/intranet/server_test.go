package intranet

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlagEndpointPayload(t *testing.T) {
	server := New("flag{test-secret}", 0)
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/internal/flag", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "admin-secret: flag{test-secret}\n" {
		t.Fatalf("unexpected flag payload: %q", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestInfoEndpoint(t *testing.T) {
	server := New("flag{test-secret}", 0)

	req := httptest.NewRequest(http.MethodGet, "/internal/info", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var payload struct {
		Name   string `json:"name"`
		Uptime int64  `json:"uptime"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if payload.Name != serviceName {
		t.Fatalf("unexpected name: %q", payload.Name)
	}
	if payload.Uptime < 0 {
		t.Fatalf("negative uptime: %d", payload.Uptime)
	}
}

func TestListenerBindsLoopbackOnly(t *testing.T) {
	server := New("flag{test-secret}", 0)

	ln, err := server.ListenLoopback()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		t.Fatalf("unexpected addr type %T", ln.Addr())
	}
	if !addr.IP.IsLoopback() {
		t.Fatalf("listener bound to non-loopback address %s", addr)
	}
}
