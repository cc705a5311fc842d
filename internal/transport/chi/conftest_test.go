package chi

import (
	"context"
	"net/http"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georef/internal/domain/search/filter"
	"github.com/kailas-cloud/georef/internal/domain/search/match"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
	healthuc "github.com/kailas-cloud/georef/internal/usecase/health"
	searchuc "github.com/kailas-cloud/georef/internal/usecase/search"
	shapeuc "github.com/kailas-cloud/georef/internal/usecase/shape"
)

type mockEngine struct {
	fuzzySearchFn func(ctx context.Context, query string, filters *filter.Set, limit int) ([]match.Match, error)
}

func (m *mockEngine) FuzzySearch(ctx context.Context, query string, filters *filter.Set, limit int) ([]match.Match, error) {
	return m.fuzzySearchFn(ctx, query, filters, limit)
}

type mockRepo struct {
	getByIDFn      func(ctx context.Context, id int64) (*domshape.Shape, error)
	getByRefCodeFn func(ctx context.Context, code string) (*domshape.Shape, error)
	refCodeForIDFn func(ctx context.Context, id int64) (string, error)
	radiusSearchFn func(ctx context.Context, code string, radiusMiles float64, countryExact bool) ([]domshape.Shape, error)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domshape.Shape, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepo) GetByRefCode(ctx context.Context, code string) (*domshape.Shape, error) {
	return m.getByRefCodeFn(ctx, code)
}

func (m *mockRepo) RefCodeForID(ctx context.Context, id int64) (string, error) {
	return m.refCodeForIDFn(ctx, id)
}

func (m *mockRepo) RadiusSearch(ctx context.Context, code string, radiusMiles float64, countryExact bool) ([]domshape.Shape, error) {
	return m.radiusSearchFn(ctx, code, radiusMiles, countryExact)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

// newTestServer wires a router around mocks the way main does.
func newTestServer(engine *mockEngine, repo *mockRepo, pinger *mockPinger) http.Handler {
	if engine == nil {
		engine = &mockEngine{}
	}
	if repo == nil {
		repo = &mockRepo{}
	}
	if pinger == nil {
		pinger = &mockPinger{}
	}

	srv := NewServer(
		searchuc.New(engine),
		shapeuc.New(repo),
		healthuc.New(pinger),
		zap.NewNop(),
		100,
	)

	r := chirouter.NewRouter()
	srv.Routes(r)
	return r
}

func doRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
