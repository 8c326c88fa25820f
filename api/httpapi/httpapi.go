// Package httpapi exposes a RankService over REST plus a WebSocket event
// stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	wsadapter "rankboard/adapters/websocket"
	"rankboard/analytics"
	"rankboard/core"
	"rankboard/engine"
	"rankboard/leaderboard"
	"rankboard/realtime"
)

// Options configures the HTTP API surface.
type Options struct {
	// PathPrefix, if set, is prepended to all routes (e.g., "/api").
	PathPrefix string
	// AllowCORSOrigin, if non-empty, enables basic CORS with the given origin (use "*" for any).
	AllowCORSOrigin string
	// APIKeys, if non-empty, enables static API key auth via Authorization: Bearer or X-API-Key.
	APIKeys []string
	// RateLimitEnabled toggles rate limiting.
	RateLimitEnabled bool
	// RateLimitRPM is the allowed requests per minute per client key.
	RateLimitRPM int
	// RateLimitBurst defines burst capacity.
	RateLimitBurst int
	// Logger receives one debug line per request. Nil disables request logging.
	Logger *slog.Logger
	// Stats, if set, is served at {prefix}/stats.
	Stats *analytics.Tracker
}

// BoardResponse is the body of GET {prefix}/board.
type BoardResponse struct {
	Size      int                    `json:"size"`
	Standings []leaderboard.Standing `json:"standings"`
}

// SortResponse is the body of POST {prefix}/board/sort.
type SortResponse struct {
	Size       int     `json:"size"`
	DurationUS float64 `json:"duration_us"`
}

// MoveResponse is the body of POST {prefix}/records/{name}/score. Rank is
// the 1-based rank after the update.
type MoveResponse struct {
	leaderboard.Move
	Rank      int                   `json:"rank"`
	Direction leaderboard.Direction `json:"direction"`
}

// NewMux builds an http.Handler for the leaderboard API.
// Routes:
//   - GET  {prefix}/board?limit=N
//   - POST {prefix}/board/sort
//   - GET  {prefix}/records/{name}
//   - POST {prefix}/records/{name}/score?value=S
//   - GET  {prefix}/stats (when Options.Stats is set)
//   - GET  {prefix}/healthz
//   - WS   {prefix}/ws
func NewMux(svc *engine.RankService, hub *realtime.Hub, opts Options) http.Handler {
	h := &handlers{svc: svc}
	p := opts.PathPrefix

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+withPrefix(p, "/healthz"), h.health)
	mux.HandleFunc("GET "+withPrefix(p, "/board"), h.board)
	mux.HandleFunc("POST "+withPrefix(p, "/board/sort"), h.sort)
	mux.HandleFunc("GET "+withPrefix(p, "/records/{name}"), h.record)
	mux.HandleFunc("POST "+withPrefix(p, "/records/{name}/score"), h.updateScore)
	if opts.Stats != nil {
		mux.HandleFunc("GET "+withPrefix(p, "/stats"), func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, opts.Stats.Report(time.Now()))
		})
	}
	if hub != nil {
		mux.Handle("GET "+withPrefix(p, "/ws"), wsadapter.Handler(hub))
	}
	mux.HandleFunc(withPrefix(p, "/"), func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
	})

	var handler http.Handler = mux
	if opts.AllowCORSOrigin != "" {
		handler = withCORS(handler, opts.AllowCORSOrigin)
	}
	if len(opts.APIKeys) > 0 {
		handler = withAPIKeyAuth(handler, opts.APIKeys)
	}
	if opts.RateLimitEnabled && opts.RateLimitRPM > 0 && opts.RateLimitBurst > 0 {
		handler = withRateLimit(handler, newRateLimiter(opts.RateLimitRPM, opts.RateLimitBurst))
	}
	if opts.Logger != nil {
		handler = withRequestLog(handler, opts.Logger)
	}
	return handler
}

type handlers struct {
	svc *engine.RankService
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"records": h.svc.Size(),
	})
}

func (h *handlers) board(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}
	standings, err := h.svc.Standings(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if standings == nil {
		standings = []leaderboard.Standing{}
	}
	writeJSON(w, http.StatusOK, BoardResponse{Size: h.svc.Size(), Standings: standings})
}

func (h *handlers) sort(w http.ResponseWriter, r *http.Request) {
	took, err := h.svc.Sort(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SortResponse{
		Size:       h.svc.Size(),
		DurationUS: float64(took.Nanoseconds()) / 1e3,
	})
}

func (h *handlers) record(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Lookup(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handlers) updateScore(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.ParseInt(r.URL.Query().Get("value"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_score", "value must be an integer", nil)
		return
	}
	m, err := h.svc.UpdateScore(r.Context(), r.PathValue("name"), score)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Move: m, Rank: m.To + 1, Direction: m.Direction()})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}

func withPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	if prefix[len(prefix)-1] == '/' {
		return prefix[:len(prefix)-1] + path
	}
	return prefix + path
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, details any) {
	writeJSON(w, status, apiError{Code: code, Message: msg, Details: details})
}
