package request

import "github.com/kailas-cloud/georef/internal/domain/search/filter"

// Defaults applied when the client omits the parameter.
const (
	// DefaultNumResults is the fuzzy-search result count.
	DefaultNumResults = 8
	// DefaultRadius is the proximity-search radius in miles.
	DefaultRadius = 50
)

// Search is a normalized fuzzy-search request. The query string may be
// empty: presence of the parameter, not its content, is what the
// transport validates.
type Search struct {
	query      string
	numResults int
	includeRef bool
	callback   string
	filters    *filter.Set
}

// NewSearch normalizes search parameters. numResults falls back to
// DefaultNumResults when not positive.
func NewSearch(query string, numResults int, includeRef bool, callback string, filters *filter.Set) Search {
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	return Search{
		query:      query,
		numResults: numResults,
		includeRef: includeRef,
		callback:   callback,
		filters:    filters,
	}
}

// Query returns the search text.
func (s *Search) Query() string { return s.query }

// NumResults returns the requested result count.
func (s *Search) NumResults() int { return s.numResults }

// IncludeRef reports whether matches carry their full geographic context.
func (s *Search) IncludeRef() bool { return s.includeRef }

// Callback returns the JSONP callback name, empty for plain JSON.
func (s *Search) Callback() string { return s.callback }

// Filters returns the resolved filter set, nil when no filters apply.
func (s *Search) Filters() *filter.Set { return s.filters }
