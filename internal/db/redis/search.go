package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/georef/internal/db"
	"github.com/kailas-cloud/georef/internal/domain/search/filter"
)

// Index field names the filter keys map onto. Entry hashes store boolean
// flags as "1"/"0" tags and geographic codes as upper-case tags.
const (
	fieldName      = "name"
	fieldLocation  = "location"
	fieldCountry   = "country"
	fieldStateProv = "state_prov"
)

var flagFields = map[filter.Key]string{
	filter.KeyIsZipCode:           "is_zip_code",
	filter.KeyIsAggregate:         "is_aggregate",
	filter.KeyIsThreeDigitZipCode: "is_three_digit_zip_code",
	filter.KeyGeoType:             "geo_type",
}

// SearchText runs a fuzzy name search via FT.SEARCH. Each query token
// matches either by prefix or within Levenshtein distance 1, mirroring
// how people misspell place names. An empty query degrades to match-all
// so callers can browse by filters alone.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	textPart := "*"
	if terms := buildFuzzyTerms(q.Query); terms != "*" {
		textPart = fmt.Sprintf("@%s:(%s)", fieldName, terms)
	}

	queryStr := textPart
	if filterStr := buildFilter(q.Filters); filterStr != "" {
		queryStr = filterStr + " " + textPart
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseScoredResult(raw)
}

// SearchGeo runs a radius search via FT.SEARCH over a GEO field.
func (s *Store) SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.RadiusMiles <= 0 {
		return nil, fmt.Errorf("radius must be positive")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	geoPart := fmt.Sprintf("@%s:[%s %s %s mi]",
		fieldLocation,
		strconv.FormatFloat(q.Longitude, 'f', -1, 64),
		strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		strconv.FormatFloat(q.RadiusMiles, 'f', -1, 64),
	)

	queryStr := geoPart
	if q.Country != "" {
		queryStr = buildTagFilter(fieldCountry, q.Country) + " " + geoPart
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// SearchList performs paginated search via FT.SEARCH with a raw query string.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	args := []string{index, query, "LIMIT", strconv.Itoa(offset), strconv.Itoa(limit)}

	if len(fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// --- Result parsing ---

func parseScoredResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// buildFilter translates a filter set into an FT.SEARCH pre-filter
// query string. Boolean flags are stored as "1"/"0" tags.
func buildFilter(set *filter.Set) string {
	if set == nil || set.IsEmpty() {
		return ""
	}

	var parts []string

	for _, key := range []filter.Key{
		filter.KeyIsZipCode,
		filter.KeyIsAggregate,
		filter.KeyIsThreeDigitZipCode,
		filter.KeyGeoType,
	} {
		v, ok := set.Flags()[key]
		if !ok {
			continue
		}
		tag := "0"
		if v {
			tag = "1"
		}
		parts = append(parts, buildTagFilter(flagFields[key], tag))
	}

	if set.Country() != "" {
		parts = append(parts, buildTagFilter(fieldCountry, set.Country()))
	}
	if set.StateProv() != "" {
		parts = append(parts, buildTagFilter(fieldStateProv, set.StateProv()))
	}

	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

// --- Query helpers ---

// buildFuzzyTerms turns free text into per-token prefix-or-fuzzy
// alternations, e.g. "new yrok" -> "(new*|%new%) (yrok*|%yrok%)".
func buildFuzzyTerms(query string) string {
	tokens := strings.Fields(strings.ToLower(query))
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		escaped := escapeQuery(tok)
		if escaped == "" {
			continue
		}
		if len(escaped) < 3 {
			// Too short for fuzzy matching to be meaningful.
			parts = append(parts, escaped+"*")
			continue
		}
		parts = append(parts, fmt.Sprintf("(%s*|%%%s%%)", escaped, escaped))
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`,`, `\,`,
	`:`, `\:`,
	`/`, `\/`,
)
