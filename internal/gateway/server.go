// Package gateway is the public-facing proxy: it validates the requested
// URL against the blacklist and fetches it server-side.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pltanton/ssrf-lab/internal/fetcher"
	"github.com/pltanton/ssrf-lab/internal/policy"
)

// Fetcher performs the outbound request for a validated URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (fetcher.Result, error)
}

type Server struct {
	fetcher Fetcher
	log     zerolog.Logger
}

func NewServer(f Fetcher, log zerolog.Logger) *Server {
	return &Server{
		fetcher: f,
		log:     log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/fetch", s.handleFetch)
	mux.HandleFunc("/api/info", s.handleInfo)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

type fetchResponse struct {
	Status    int    `json:"status"`
	URL       string `json:"url"`
	Body      string `json:"body"`
	Truncated bool   `json:"truncated"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	log := s.log.With().Str("request_id", reqID).Str("url", rawURL).Logger()

	if rawURL == "" {
		log.Warn().Msg("missing url parameter")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url parameter required"})
		return
	}

	decision := policy.Validate(rawURL)
	switch decision.Verdict {
	case policy.VerdictForbidden:
		log.Warn().Str("verdict", "forbidden").Msg("url rejected")
		writeJSON(w, http.StatusForbidden, map[string]string{"error": decision.Reason})
		return
	case policy.VerdictUnsupportedScheme:
		log.Warn().Str("verdict", "unsupported-scheme").Msg("url rejected")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only http and https allowed"})
		return
	}

	result, err := s.fetcher.Fetch(r.Context(), rawURL)
	if err != nil {
		log.Error().Err(err).Msg("outbound fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "fetch failed",
			"detail": err.Error(),
		})
		return
	}

	log.Info().Int("status", result.StatusCode).Bool("truncated", result.Truncated).Msg("fetch completed")
	writeJSON(w, http.StatusOK, fetchResponse{
		Status:    result.StatusCode,
		URL:       result.URL,
		Body:      result.Body,
		Truncated: result.Truncated,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "ssrf-lab gateway",
		"endpoints": []string{
			"GET /api/fetch?url=<url>",
			"GET /api/info",
			"GET /api/health",
		},
		"note": "fetches arbitrary URLs server-side; local addresses are blacklisted by substring",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>SSRF Lab</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 900px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; }
    #out { min-height: 320px; max-height: 60vh; overflow: auto; white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; font-family: monospace; }
    .row { display: flex; gap: 8px; margin-top: 10px; }
    input { flex: 1; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>SSRF Lab &mdash; URL fetcher</h2>
      <p>Paste a URL and the server fetches it for you. Local addresses are blocked.</p>
      <div id="out"></div>
      <div class="row">
        <input id="url" placeholder="http://example.com/" />
        <button id="go">Fetch</button>
      </div>
    </div>
  </div>
  <script>
    const out = document.getElementById('out');
    const url = document.getElementById('url');
    const go = document.getElementById('go');
    async function run() {
      const target = url.value.trim();
      if (!target) return;
      out.textContent = 'fetching ' + target + ' ...';
      const resp = await fetch('/api/fetch?url=' + encodeURIComponent(target));
      const data = await resp.json();
      out.textContent = JSON.stringify(data, null, 2);
    }
    go.addEventListener('click', run);
    url.addEventListener('keydown', (e) => { if (e.key === 'Enter') run(); });
  </script>
</body>
</html>`
