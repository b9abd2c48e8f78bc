// Package http exposes the conversion pipeline over HTTP alongside health
// and Prometheus metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tuneswap/internal/core"
	"tuneswap/internal/store"
)

// Converter is the conversion operation the server exposes.
type Converter interface {
	Convert(ctx context.Context, rawURL string) (*core.ConversionResult, error)
}

// StatsReader provides aggregated usage counters.
type StatsReader interface {
	Summary(ctx context.Context) (*store.Summary, error)
}

// FallbackURL builds the destination used when a URL cannot be converted at
// all, typically the bare regional search page.
type FallbackURL func() string

type Server struct {
	config    *core.ServerConfig
	logger    *zap.Logger
	server    *http.Server
	metrics   *Metrics
	converter Converter
	stats     StatsReader
	fallback  FallbackURL
}

type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ResolverMethods    *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates and registers the conversion metrics.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tuneswap_conversions_total",
				Help: "Total number of link conversions",
			},
			[]string{"kind", "status"},
		),
		ResolverMethods: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tuneswap_resolver_method_total",
				Help: "Metadata extraction method that produced each result",
			},
			[]string{"method"},
		),
		ConversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tuneswap_conversion_duration_seconds",
				Help:    "Time spent converting links",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tuneswap_errors_total",
				Help: "Total number of errors",
			},
			[]string{"component", "type"},
		),
	}

	prometheus.MustRegister(
		metrics.ConversionsTotal,
		metrics.ResolverMethods,
		metrics.ConversionDuration,
		metrics.ErrorsTotal,
	)

	return metrics
}

// RecordConversion counts a finished conversion by kind and match status.
func (m *Metrics) RecordConversion(kind, status string) {
	m.ConversionsTotal.WithLabelValues(kind, status).Inc()
}

// RecordResolverMethod counts which extraction method produced a result.
func (m *Metrics) RecordResolverMethod(method string) {
	m.ResolverMethods.WithLabelValues(method).Inc()
}

// RecordConversionSeconds observes a conversion duration.
func (m *Metrics) RecordConversionSeconds(kind string, seconds float64) {
	m.ConversionDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordError counts an error by component and type.
func (m *Metrics) RecordError(component, errorType string) {
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// NewServer creates the HTTP server over the given collaborators. stats may
// be nil, in which case /api/stats reports an empty summary.
func NewServer(
	config *core.ServerConfig,
	converter Converter,
	stats StatsReader,
	fallback FallbackURL,
	metrics *Metrics,
	logger *zap.Logger,
) *Server {
	s := &Server{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		converter: converter,
		stats:     stats,
		fallback:  fallback,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "tuneswap"})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": "tuneswap"})
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/r", s.handleRedirect)
	mux.HandleFunc("/api/stats", s.handleStats)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing url parameter"})
		return
	}

	result, err := s.converter.Convert(r.Context(), rawURL)
	switch {
	case errors.Is(err, core.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "conversion is disabled"})
		return
	case errors.Is(err, core.ErrNotConvertible):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "not a convertible link"})
		return
	case err != nil:
		s.logger.Error("Conversion failed", zap.String("url", rawURL), zap.Error(err))
		s.metrics.RecordError("http", "convert")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "conversion failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRedirect converts and issues a 302 to the destination. Unconvertible
// links land on the regional search page rather than an error, mirroring the
// pipeline's no-hard-failure design.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	result, err := s.converter.Convert(r.Context(), rawURL)
	switch {
	case errors.Is(err, core.ErrDisabled):
		http.Error(w, "conversion is disabled", http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Redirect(w, r, s.fallback(), http.StatusFound)
		return
	}

	http.Redirect(w, r, result.DestinationURL, http.StatusFound)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusOK, &store.Summary{})
		return
	}

	summary, err := s.stats.Summary(r.Context())
	if err != nil {
		s.logger.Error("Failed to read stats", zap.Error(err))
		s.metrics.RecordError("http", "stats")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read stats"})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}
