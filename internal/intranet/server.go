// Package intranet is the privileged internal service. It binds only the
// loopback interface; that bind is its sole protection.
package intranet

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Port is the fixed internal port. Not configurable.
const Port = 8000

const serviceName = "internal-admin-service"

// Server serves the privileged resource. The secret is injected once at
// construction and never changes.
type Server struct {
	secret    string
	port      int
	startedAt time.Time
	proc      *process.Process
}

// New builds the internal server. port 0 lets tests bind an ephemeral port;
// production always passes Port.
func New(secret string, port int) *Server {
	s := &Server{
		secret:    secret,
		port:      port,
		startedAt: time.Now(),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = p
	}
	return s
}

// ListenLoopback binds 127.0.0.1 exclusively. The host is not a parameter:
// a wildcard bind would void the service's only protection.
func (s *Server) ListenLoopback() (net.Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return nil, fmt.Errorf("bind internal listener: %w", err)
	}
	return ln, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/flag", s.handleFlag)
	mux.HandleFunc("/internal/info", s.handleInfo)
	return mux
}

func (s *Server) handleFlag(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "admin-secret: %s\n", s.secret)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   serviceName,
		"uptime": s.uptimeSeconds(),
	})
}

func (s *Server) uptimeSeconds() int64 {
	if s.proc != nil {
		if createMS, err := s.proc.CreateTime(); err == nil && createMS > 0 {
			return time.Now().UnixMilli()/1000 - createMS/1000
		}
	}
	return int64(time.Since(s.startedAt).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
