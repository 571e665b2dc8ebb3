// Package server exposes the transform engine over HTTP: a JSON
// transform endpoint, the county registry, health, and Prometheus
// metrics.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
	"github.com/hoosiergeo/ingcs-cli/internal/input"
	"github.com/hoosiergeo/ingcs-cli/internal/transform"
)

// Server wires the transform engine and county registry to HTTP routes.
type Server struct {
	engine   *transform.Engine
	registry *county.Registry
	metrics  *Metrics
	log      *zap.Logger

	httpServer *http.Server
}

// New builds the server for addr.
func New(addr string, engine *transform.Engine, registry *county.Registry) *Server {
	s := &Server{
		engine:   engine,
		registry: registry,
		metrics:  NewMetrics(),
		log:      zap.L().With(zap.String("component", "server")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/transform", s.handleTransform)
		r.Get("/counties", s.handleCounties)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Start() error {
	s.log.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router; used by tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// transformRequest is the POST /v1/transform body.
type transformRequest struct {
	County     string         `json:"county"`
	AutoDetect bool           `json:"auto_detect"`
	Rows       []transformRow `json:"rows"`
}

type transformRow struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.TransformRequests.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}

	rows := make([]input.Point, len(req.Rows))
	for i, p := range req.Rows {
		rows[i] = input.Point{ID: p.ID, Lat: p.Lat, Lon: p.Lon}
	}

	table, err := s.engine.Transform(r.Context(), rows, transform.Options{
		County:     req.County,
		AutoDetect: req.AutoDetect,
	})
	if err != nil {
		if eris.Is(err, transform.ErrNoValidCoordinates) {
			s.metrics.TransformRequests.WithLabelValues("empty_batch").Inc()
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.metrics.TransformRequests.WithLabelValues("error").Inc()
		s.log.Error("transform failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.TransformRequests.WithLabelValues("ok").Inc()
	s.metrics.TransformRows.Observe(float64(len(rows)))
	writeJSON(w, http.StatusOK, table)
}

// countyInfo is one entry of GET /v1/counties.
type countyInfo struct {
	Name     string `json:"name"`
	Display  string `json:"display"`
	Zone     string `json:"zone"`
	EPSG     int    `json:"epsg"`
	Verified bool   `json:"verified"`
	FIPS     string `json:"fips,omitempty"`
}

func (s *Server) handleCounties(w http.ResponseWriter, _ *http.Request) {
	names := s.registry.Names()
	out := make([]countyInfo, 0, len(names))
	for _, name := range names {
		c, _ := s.registry.Lookup(name)
		out = append(out, countyInfo{
			Name:     c.Name,
			Display:  county.DisplayName(c.Name),
			Zone:     county.ZoneFor(c.Name).String(),
			EPSG:     c.EPSGCode,
			Verified: c.Verified,
			FIPS:     c.FIPS,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"counties": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": eris.Cause(err).Error()})
}
