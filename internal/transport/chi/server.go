// Package chi implements the legacy HTTP query-parameter API in front
// of the search engine.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georef/internal/domain"
	"github.com/kailas-cloud/georef/internal/domain/boolval"
	"github.com/kailas-cloud/georef/internal/domain/search/filter"
	"github.com/kailas-cloud/georef/internal/domain/search/match"
	"github.com/kailas-cloud/georef/internal/domain/search/request"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
	healthuc "github.com/kailas-cloud/georef/internal/usecase/health"
	searchuc "github.com/kailas-cloud/georef/internal/usecase/search"
	shapeuc "github.com/kailas-cloud/georef/internal/usecase/shape"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search, fetch and radius endpoints.
type Server struct {
	search        *searchuc.Service
	shapes        *shapeuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxNumResults int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxNumResults caps the
// client-supplied num_results parameter.
func NewServer(
	search *searchuc.Service,
	shapes *shapeuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	maxNumResults int,
) *Server {
	s := &Server{
		search:        search,
		shapes:        shapes,
		health:        health,
		logger:        logger,
		maxNumResults: maxNumResults,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingQuery, http.StatusBadRequest),
		// The legacy service answers a bad radius with 404, not 400;
		// clients depend on it.
		sentinelHandler(domain.ErrRadiusTooSmall, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
	}
	return s
}

// Routes mounts the API on the given router. Non-GET methods on the
// legacy /api/ routes answer with the constant liveness payload the
// original service returned.
func (s *Server) Routes(r chi.Router) {
	for _, route := range []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/api/search/", s.FuzzySearch},
		{"/api/fetch/", s.Fetch},
		{"/api/radius/", s.Radius},
	} {
		r.Get(route.path, route.handler)
		r.Options(route.path, s.legacyHealthy)
	}

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRecord is the minimal response record for a fuzzy-search hit.
// shape_id stays in the payload as null when the entry has no shape.
type searchRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ShapeID *int64 `json:"shape_id"`
}

// searchRecordRef extends searchRecord with the geographic context,
// returned only when include_ref is requested.
type searchRecordRef struct {
	searchRecord
	Ref *domshape.RefData `json:"ref"`
}

// FuzzySearch handles GET /api/search/.
func (s *Server) FuzzySearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// Presence, not content: ?q= is a valid (empty) query.
	if !params.Has("q") {
		s.handleDomainError(w, domain.ErrMissingQuery)
		return
	}

	req := s.parseSearchRequest(params)
	matches, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var payload any
	if req.IncludeRef() {
		payload = buildRefRecords(matches)
	} else {
		payload = buildRecords(matches)
	}

	if cb := req.Callback(); cb != "" {
		s.writeCallback(w, cb, payload)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// Fetch handles GET /api/fetch/.
func (s *Server) Fetch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	sh, err := s.shapes.Fetch(r.Context(), params.Get("shape_id"), params.Get("shape_ref_code"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sh)
}

// Radius handles GET /api/radius/.
func (s *Server) Radius(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	radius := request.DefaultRadius
	if v := params.Get("radius"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			radius = n
		}
	}
	countryExact := boolval.ParseDefault(params.Get("country_exact"), false)

	shapes, err := s.shapes.Radius(
		r.Context(), params.Get("shape_id"), params.Get("shape_ref_code"), radius, countryExact,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if shapes == nil {
		shapes = []domshape.Shape{}
	}
	writeJSON(w, http.StatusOK, shapes)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// legacyHealthy reproduces the constant payload (typo included) the
// original service returned for non-GET methods on /api/ routes.
func (s *Server) legacyHealthy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"heathly": true})
}

// parseSearchRequest normalizes the raw query parameters. Unparseable
// num_results falls back to the default instead of failing the request;
// oversized values are clamped.
func (s *Server) parseSearchRequest(params url.Values) request.Search {
	numResults := 0
	if v := params.Get("num_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			numResults = n
		}
	}
	if s.maxNumResults > 0 && numResults > s.maxNumResults {
		numResults = s.maxNumResults
	}

	return request.NewSearch(
		params.Get("q"),
		numResults,
		params.Has("include_ref"),
		params.Get("callback"),
		filter.Resolve(params),
	)
}

func buildRecords(matches []match.Match) []searchRecord {
	records := make([]searchRecord, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		records = append(records, searchRecord{
			ID:      m.ID(),
			Name:    m.Name(),
			ShapeID: m.ShapeID(),
		})
	}
	return records
}

func buildRefRecords(matches []match.Match) []searchRecordRef {
	records := make([]searchRecordRef, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		records = append(records, searchRecordRef{
			searchRecord: searchRecord{
				ID:      m.ID(),
				Name:    m.Name(),
				ShapeID: m.ShapeID(),
			},
			Ref: m.RefData(),
		})
	}
	return records
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCallback wraps the payload in a JSONP call. The original service
// served these as the framework default content type for the jQuery
// Autocomplete consumers; that stays text/html.
func (s *Server) writeCallback(w http.ResponseWriter, callback string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal callback payload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s(%s);", callback, body)
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingQuery,
		domain.ErrRadiusTooSmall,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
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
	writeError(w, http.StatusInternalServerError, "internal error")
}
