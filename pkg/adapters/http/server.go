// Package http exposes calculator sessions over a JSON API with server-sent
// state diffs. The contract lives in openapi.yaml and every request is
// validated against it before reaching a handler.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Engine   ports.Calculator
	Sessions *session.Manager
	Streams  *StreamManager
	Archive  ports.TapeArchive
	Logger   *slog.Logger

	gatherer     prometheus.Gatherer
	now          func() time.Time
	newID        func() string
	maxInputSize int
}

// Option configures a Server.
type Option func(*Server)

// WithArchive enables the tape endpoints.
func WithArchive(archive ports.TapeArchive) Option {
	return func(s *Server) {
		s.Archive = archive
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics serves the gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithMaxInputSize bounds expressions and command arguments in bytes.
func WithMaxInputSize(limit int) Option {
	return func(s *Server) {
		s.maxInputSize = limit
	}
}

// WithClock overrides time.Now for tape timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithIDGenerator overrides the generator of new session and tape IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *Server) {
		s.newID = gen
	}
}

// NewServer creates a Server. Sessions must share the engine's defaults.
func NewServer(engine ports.Calculator, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.Logger
	return s
}

// NewHandler builds the router for engine and sessions.
func NewHandler(engine ports.Calculator, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	return NewServer(engine, sessions, opts...).Handler()
}

// Handler builds the chi router. It fails if the embedded contract is invalid.
func (s *Server) Handler() (http.Handler, error) {
	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(specYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validateRequest(spec, s.Logger))

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Post("/evaluate", s.Evaluate)

		r.Get("/sessions", s.ListSessions)
		r.Post("/sessions", s.CreateSession)
		r.Get("/sessions/{id}", s.GetSession)
		r.Delete("/sessions/{id}", s.DeleteSession)
		r.Post("/sessions/{id}/commands", s.ApplyCommands)
		r.Post("/sessions/{id}/keys", s.PressKeys)
		r.Post("/sessions/{id}/expression", s.TypeExpression)
		r.Post("/sessions/{id}/tapes", s.ArchiveTape)

		r.Get("/tapes", s.ListTapes)
		r.Get("/tapes/{id}", s.GetTape)

		r.Get("/events", s.SubscribeEvents)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Abacus API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := LoadSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "abacus-http",
		"version":     abacus.Version,
		"api_version": apiVersion,
	})
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrTapeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownCommand):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEvaluation):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeError(w, status, err)
}
