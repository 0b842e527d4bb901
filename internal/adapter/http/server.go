package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
)

// SeriesReader returns the last good series for a provider.
type SeriesReader interface {
	Latest(provider string) (domain.SeriesEvent, bool)
}

// Display controls how the served window is cut and which icon variant is named.
type Display struct {
	Clock      clockwork.Clock
	Location   *time.Location
	WindowSize int
}

// Server exposes health, readiness, metrics, and the latest normalized series.
type Server struct {
	httpServer *http.Server
	series     SeriesReader
	display    Display
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /series/{provider} routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, series SeriesReader, display Display, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	if display.Clock == nil {
		display.Clock = clockwork.NewRealClock()
	}
	if display.Location == nil {
		display.Location = time.UTC
	}
	if display.WindowSize <= 0 {
		display.WindowSize = domain.HourlyWindow
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		series:  series,
		display: display,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /series/{provider}", s.handleSeries)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// windowEntry is one display step with the named icon already resolved for
// the configured location.
type windowEntry struct {
	domain.SeriesEntry
	Night     bool            `json:"night"`
	NamedIcon domain.IconName `json:"named_icon"`
}

type seriesResponse struct {
	ID          string                   `json:"id"`
	Provider    string                   `json:"provider"`
	IssuedAt    time.Time                `json:"issued_at"`
	ProcessedAt time.Time                `json:"processed_at"`
	ValidAt     time.Time                `json:"valid_at"`
	Window      []windowEntry            `json:"window"`
	Current     *domain.StationReportRow `json:"current,omitempty"`
	CurrentIcon domain.IconName          `json:"current_icon,omitempty"`
}

// handleSeries serves the last good series with the display window cut at the
// current time rather than at processing time.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	event, ok := s.series.Latest(provider)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status": "not found",
			"error":  "no series for provider " + provider,
		})
		return
	}

	now := s.display.Clock.Now()
	series := domain.NewCanonicalSeries(event.Steps, event.IssuedAt)
	window := series.Window(now, s.display.WindowSize)

	resp := seriesResponse{
		ID:          event.ID,
		Provider:    event.Provider,
		IssuedAt:    event.IssuedAt,
		ProcessedAt: event.ProcessedAt,
		ValidAt:     now.UTC(),
		Window:      make([]windowEntry, len(window)),
		Current:     event.Current,
	}
	for i, e := range window {
		night := domain.IsNightHour(e.Step.Time().In(s.display.Location).Hour())
		resp.Window[i] = windowEntry{SeriesEntry: e, Night: night, NamedIcon: e.Icon.Named(night)}
	}
	if event.Current != nil && event.CurrentIcon != nil {
		night := domain.IsNightHour(now.In(s.display.Location).Hour())
		resp.CurrentIcon = event.CurrentIcon.Named(night)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
