package search

import (
	"context"

	"github.com/kailas-cloud/georef/internal/domain/search/filter"
	"github.com/kailas-cloud/georef/internal/domain/search/match"
)

// Engine defines the storage contract for fuzzy search.
type Engine interface {
	FuzzySearch(ctx context.Context, query string, filters *filter.Set, limit int) ([]match.Match, error)
}
