package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/suggest"
	healthuc "github.com/dalil-cloud/dalil/internal/usecase/health"
	searchuc "github.com/dalil-cloud/dalil/internal/usecase/search"
)

// Error response codes.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeRateLimited         = "rate_limited"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeUpstreamDecode      = "upstream_decode_failed"
	codeInternalError       = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta describes the returned result window.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResponse is the business listing page envelope.
type ListResponse struct {
	Data        []domain.Business    `json:"data"`
	Meta        Meta                 `json:"meta"`
	Suggestions *suggest.Suggestions `json:"suggestions,omitempty"`
}

// SuggestResponse wraps an interpreted free-text query.
type SuggestResponse struct {
	Data suggest.Suggestions `json:"data"`
}

// CategoriesResponse wraps the canonical category table.
type CategoriesResponse struct {
	Data []domain.Category `json:"data"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the directory search API over chi.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrUpstreamDecode, http.StatusBadGateway, codeUpstreamDecode),
		upstreamStatusHandler,
	}
	return s
}

// Routes registers all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/v1/businesses", s.ListBusinesses)
	r.Get("/api/v1/suggest", s.Suggest)
	r.Get("/api/v1/categories", s.ListCategories)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListBusinesses handles GET /api/v1/businesses.
func (s *Server) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	q, err := decodeListQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := ListResponse{
		Data: res.Items,
		Meta: Meta{
			Page:       res.Page,
			PerPage:    res.PerPage,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
	}
	if !res.Suggestions.IsEmpty() {
		sug := res.Suggestions
		resp.Suggestions = &sug
	}

	writeJSON(w, http.StatusOK, resp)
}

// Suggest handles GET /api/v1/suggest. It runs the free-text interpreter
// without executing a search, so clients can preview derived filters.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	writeJSON(w, http.StatusOK, SuggestResponse{Data: suggest.Interpret(q)})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Data: domain.Categories()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrRateLimited,
		domain.ErrUpstreamDecode,
		domain.ErrUpstreamUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// upstreamStatusHandler handles backend failures, surfacing the backend status code.
func upstreamStatusHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		return false
	}
	var statusErr *domain.UpstreamStatusError
	if errors.As(err, &statusErr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"code":            codeUpstreamUnavailable,
			"message":         msg,
			"upstream_status": statusErr.StatusCode,
		})
		return true
	}
	writeError(w, http.StatusBadGateway, codeUpstreamUnavailable, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
