package shape

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/georef/internal/db"
	"github.com/kailas-cloud/georef/internal/domain"
	"github.com/kailas-cloud/georef/internal/domain/geo"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

// radiusLimit caps the number of hits pulled from a geo query before
// distance ordering.
const radiusLimit = 1000

// store is the consumer interface for shape storage and lookup (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

// Repo implements shape storage and the engine lookups behind the fetch
// and radius usecases.
type Repo struct {
	store store
}

// New creates a shape repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndexes creates the shape and entry FT indexes if absent.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, def := range []*db.IndexDefinition{shapeIndex(), entryIndex()} {
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}

// Save stores one shape record plus its searchable name entries.
func (r *Repo) Save(ctx context.Context, s *domshape.Shape) error {
	return r.SaveAll(ctx, []domshape.Shape{*s})
}

// SaveAll stores a batch of shapes in a single pipelined round-trip.
func (r *Repo) SaveAll(ctx context.Context, shapes []domshape.Shape) error {
	if len(shapes) == 0 {
		return nil
	}

	var items []db.HashSetItem
	for i := range shapes {
		s := &shapes[i]
		items = append(items, db.HashSetItem{
			Key:    shapeKey(s.ID),
			Fields: buildShapeFields(s),
		})
		items = append(items, buildEntryItems(s)...)
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d shapes: %w", len(shapes), err)
	}
	return nil
}

// GetByID resolves a shape by its numeric id.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domshape.Shape, error) {
	fields, err := r.store.HGetAll(ctx, shapeKey(id))
	if err != nil {
		return nil, fmt.Errorf("get shape %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return parseShapeFields(fields)
}

// GetByRefCode resolves a shape by its case-insensitive reference code.
func (r *Repo) GetByRefCode(ctx context.Context, code string) (*domshape.Shape, error) {
	normalized := domshape.NormalizeRefCode(code)
	if normalized == "" {
		return nil, domain.ErrNotFound
	}

	query := fmt.Sprintf("@ref_code:{%s}", tagEscaper.Replace(normalized))
	sr, err := r.store.SearchList(ctx, domain.ShapeIndexName, query, 0, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("get shape by code %q: %w", normalized, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return parseShapeFields(sr.Entries[0].Fields)
}

// RefCodeForID resolves a shape id to its reference code.
func (r *Repo) RefCodeForID(ctx context.Context, id int64) (string, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.RefCode, nil
}

// RadiusSearch returns the shapes within radiusMiles of the shape named
// by code, nearest first. With countryExact the hits are constrained to
// the origin's country.
func (r *Repo) RadiusSearch(
	ctx context.Context, code string, radiusMiles float64, countryExact bool,
) ([]domshape.Shape, error) {
	origin, err := r.GetByRefCode(ctx, code)
	if err != nil {
		return nil, err
	}

	country := ""
	if countryExact {
		country = origin.RefData.Country
	}

	sr, err := r.store.SearchGeo(ctx, &db.GeoQuery{
		IndexName:   domain.ShapeIndexName,
		Latitude:    origin.RefData.Latitude,
		Longitude:   origin.RefData.Longitude,
		RadiusMiles: radiusMiles,
		Country:     country,
		Limit:       radiusLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("radius search %q: %w", code, err)
	}

	shapes := make([]domshape.Shape, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		s, err := parseShapeFields(entry.Fields)
		if err != nil {
			continue
		}
		shapes = append(shapes, *s)
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		di := geo.Haversine(
			origin.RefData.Latitude, origin.RefData.Longitude,
			shapes[i].RefData.Latitude, shapes[i].RefData.Longitude,
		)
		dj := geo.Haversine(
			origin.RefData.Latitude, origin.RefData.Longitude,
			shapes[j].RefData.Latitude, shapes[j].RefData.Longitude,
		)
		return di < dj
	})

	return shapes, nil
}

func shapeKey(id int64) string {
	return fmt.Sprintf("%s%d", domain.ShapeKeyPrefix, id)
}
