package db

import "github.com/kailas-cloud/georef/internal/domain/search/filter"

// TextQuery is the input for fuzzy name search. Query is raw user text;
// the store escapes and expands it into prefix and fuzzy terms.
type TextQuery struct {
	IndexName    string
	Query        string
	Filters      *filter.Set
	Limit        int
	ReturnFields []string
}

// GeoQuery is the input for radius search around a point. Radius is in
// statute miles. Country, when non-empty, constrains hits to that
// country code.
type GeoQuery struct {
	IndexName    string
	Latitude     float64
	Longitude    float64
	RadiusMiles  float64
	Country      string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
