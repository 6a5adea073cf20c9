package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/cache"
	"github.com/Simplici0/interior-estimator/internal/catalog"
	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
	"github.com/Simplici0/interior-estimator/internal/metrics"
	"github.com/Simplici0/interior-estimator/internal/pricing"
)

const (
	maxRequestBytes   = 1 << 20
	healthPingTimeout = 2 * time.Second

	codeInvalidJSON = "INVALID_JSON"
	calculateFailed = "Calculation failed"
)

type estimateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

type server struct {
	catalog *catalog.Catalog
	view    catalogView
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   estimateCache
}

func newServer(cat *catalog.Catalog, logger *zap.Logger, m *metrics.Metrics, c estimateCache) *server {
	s := &server{
		catalog: cat,
		logger:  logger,
		metrics: m,
		cache:   c,
	}
	if cat != nil {
		s.view = newCatalogView(cat)
	}
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Post("/api/calculate", s.handleCalculate)
	r.Get("/api/catalog", s.handleCatalog)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req pricing.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.metrics.ObserveEstimate(metrics.OutcomeInvalid, time.Since(start))
		writeError(w, codeInvalidJSON, "Request body must be a JSON object", http.StatusBadRequest)
		return
	}

	key := s.cacheKey(req)
	if body, ok := s.cached(ctx, key); ok {
		s.metrics.ObserveEstimate(metrics.OutcomeOK, time.Since(start))
		writeRawJSON(w, body, http.StatusOK)
		return
	}

	resp, err := s.estimate(req)
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeValidation) {
			s.metrics.ObserveEstimate(metrics.OutcomeInvalid, time.Since(start))
			writeError(w, string(apperrors.TypeValidation), apperrors.MessageOf(err), http.StatusBadRequest)
			return
		}
		s.metrics.ObserveEstimate(metrics.OutcomeError, time.Since(start))
		s.logger.Error("calculation failed",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(ctx)),
		)
		writeError(w, string(apperrors.TypeInternal), calculateFailed, http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.metrics.ObserveEstimate(metrics.OutcomeError, time.Since(start))
		s.logger.Error("encode estimate", zap.Error(err))
		writeError(w, string(apperrors.TypeInternal), calculateFailed, http.StatusInternalServerError)
		return
	}

	s.remember(ctx, key, body)
	s.metrics.ObserveEstimate(metrics.OutcomeOK, time.Since(start))
	writeRawJSON(w, body, http.StatusOK)
}

// estimate runs the engine and converts a panic into an internal error so
// the caller never sees a partial breakdown.
func (s *server) estimate(req pricing.Request) (resp pricing.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = apperrors.Internal("estimate panicked", fmt.Errorf("%v", p))
		}
	}()

	b, err := pricing.Estimate(s.catalog, req)
	if err != nil {
		return pricing.Response{}, err
	}
	return pricing.NewResponse(b), nil
}

func (s *server) cacheKey(req pricing.Request) string {
	if s.cache == nil || s.catalog == nil {
		return ""
	}
	key, err := cache.Key(s.catalog.Fingerprint(), req)
	if err != nil {
		s.logger.Warn("build cache key", zap.Error(err))
		return ""
	}
	return key
}

func (s *server) cached(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	body, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.ObserveCache(metrics.CacheError)
		s.logger.Warn("estimate cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}
	s.metrics.ObserveCache(metrics.CacheHit)
	return body, true
}

func (s *server) remember(ctx context.Context, key string, body []byte) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, body); err != nil {
		s.metrics.ObserveCache(metrics.CacheError)
		s.logger.Warn("estimate cache write failed", zap.Error(err))
	}
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, string(apperrors.TypeNotFound), "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.view, http.StatusOK)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, map[string]any{"status": "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{
		"status":       "ok",
		"catalogItems": s.catalog.Len(),
		"fingerprint":  s.catalog.Fingerprint(),
		"cache":        s.cacheStatus(r.Context()),
	}, http.StatusOK)
}

// cacheStatus reports the Redis state. The cache is optional, so an
// unreachable server does not fail the health check.
func (s *server) cacheStatus(ctx context.Context) string {
	if s.cache == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := s.cache.Ping(ctx); err != nil {
		s.logger.Warn("cache ping failed", zap.Error(err))
		return "unreachable"
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, body []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}
