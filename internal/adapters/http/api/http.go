// Package api wires the widget host onto HTTP routes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/starrating/internal/adapters/http/swagger"
	service "github.com/okian/starrating/internal/app"
	"github.com/okian/starrating/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Defaults() service.Settings
	Create(ctx context.Context, s service.Settings) (*service.Widget, error)
	Get(ctx context.Context, id string) (*service.Widget, error)
	Update(ctx context.Context, id string, s service.Settings) (*service.Widget, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []service.Render
	Interact(ctx context.Context, id string, in service.Interaction) (service.Result, error)
	Changes(ctx context.Context, id string, limit int) ([]service.Change, error)
}

// Server wires HTTP routes for the widget API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	widgetsHandler      *WidgetsHandler
	interactionsHandler *InteractionsHandler

	origins []string
	logger  logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		widgetsHandler:      NewWidgetsHandler(deps),
		interactionsHandler: NewInteractionsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Router builds the full chi router: base middleware, CORS, metrics, the
// API routes and the OpenAPI document.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger(s.logger))

	s.Register(ctx, r)
	swagger.Register(ctx, r)
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Route("/widgets", func(r chi.Router) {
		r.Get("/", s.widgetsHandler.HandleList)
		r.Post("/", s.widgetsHandler.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.widgetsHandler.HandleGet)
			r.Put("/", s.widgetsHandler.HandleUpdate)
			r.Delete("/", s.widgetsHandler.HandleDelete)
			r.Get("/changes", s.widgetsHandler.HandleChanges)
			r.Post("/click", s.interactionsHandler.HandleClick)
			r.Post("/keys", s.interactionsHandler.HandleKey)
		})
	})
}

type errorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps host errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidSettings), errors.Is(err, service.ErrInvalidInteraction):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrTooManyWidgets):
		writeError(w, http.StatusConflict, "widget_limit", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%w: %w", ErrInternal, err))
	}
}

// decode reads a JSON body into v, rejecting unknown fields and trailing data.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}
