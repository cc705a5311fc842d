package shape

import (
	"context"
	"testing"

	"github.com/kailas-cloud/georef/internal/db"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	searchGeoFn   func(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error)
	searchListFn  func(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error) {
	if m.searchGeoFn != nil {
		return m.searchGeoFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

// testShape builds a complete shape record for tests.
func testShape() *domshape.Shape {
	return &domshape.Shape{
		ID:        42,
		RefCode:   "bos",
		Name:      "Boston, MA",
		GeoType:   "city",
		IsZipCode: false,
		Aliases:   []string{"Beantown"},
		RefData: domshape.RefData{
			Country:    "US",
			StateProv:  "MA",
			City:       "Boston",
			PostalCode: "02108",
			Latitude:   42.3601,
			Longitude:  -71.0589,
		},
	}
}

// shapeFields is the flat hash form of testShape.
func shapeFields() map[string]string {
	return buildShapeFields(testShape())
}
