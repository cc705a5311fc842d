package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/georef/internal/db"
	"github.com/kailas-cloud/georef/internal/domain"
	"github.com/kailas-cloud/georef/internal/domain/geo"
	"github.com/kailas-cloud/georef/internal/domain/search/filter"
	"github.com/kailas-cloud/georef/internal/domain/search/match"
	"github.com/kailas-cloud/georef/internal/domain/shape"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Engine.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Fields returned per name entry. Ref data is flattened into the hash.
var returnFields = []string{
	"name", "shape_id",
	"country", "state_prov", "city", "postal_code", "lat", "lon",
}

// FuzzySearch performs a fuzzy name search over the entry index with
// optional filter pre-filtering.
func (r *Repo) FuzzySearch(
	ctx context.Context, query string, filters *filter.Set, limit int,
) ([]match.Match, error) {
	q := &db.TextQuery{
		IndexName:    domain.EntryIndexName,
		Query:        query,
		Filters:      filters,
		Limit:        limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search %q: %w", query, err)
	}

	return parseMatches(sr), nil
}

// parseMatches converts db.SearchResult into []match.Match.
func parseMatches(sr *db.SearchResult) []match.Match {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	matches := make([]match.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, domain.EntryKeyPrefix)

		var shapeID *int64
		if v := entry.Fields["shape_id"]; v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				shapeID = &n
			}
		}

		matches = append(matches, match.New(
			id, entry.Fields["name"], entry.Score, shapeID, parseRefData(entry.Fields),
		))
	}

	return matches
}

// parseRefData rebuilds the geographic context from flat hash fields.
// Entries without coordinates carry no ref data.
func parseRefData(fields map[string]string) *shape.RefData {
	latStr, ok := fields["lat"]
	if !ok {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(fields["lon"], 64)
	if err != nil {
		return nil
	}
	if !geo.ValidateCoordinates(lat, lon) {
		return nil
	}

	return &shape.RefData{
		Country:    fields["country"],
		StateProv:  fields["state_prov"],
		City:       fields["city"],
		PostalCode: fields["postal_code"],
		Latitude:   lat,
		Longitude:  lon,
	}
}
