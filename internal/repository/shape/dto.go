package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/georef/internal/db"
	"github.com/kailas-cloud/georef/internal/domain"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

const aliasSeparator = "|"

// buildShapeFields converts a domain Shape into a flat map[string]string
// for HSET. The location field holds "lon,lat" for the GEO index.
func buildShapeFields(s *domshape.Shape) map[string]string {
	m := map[string]string{
		"id":                      strconv.FormatInt(s.ID, 10),
		"ref_code":                domshape.NormalizeRefCode(s.RefCode),
		"name":                    s.Name,
		"is_zip_code":             boolTag(s.IsZipCode),
		"is_aggregate":            boolTag(s.IsAggregate),
		"is_three_digit_zip_code": boolTag(s.IsThreeDigitZipCode),
		"lat":                     formatCoord(s.RefData.Latitude),
		"lon":                     formatCoord(s.RefData.Longitude),
		"location":                formatCoord(s.RefData.Longitude) + "," + formatCoord(s.RefData.Latitude),
	}
	if s.GeoType != "" {
		m["geo_type"] = s.GeoType
	}
	if len(s.Aliases) > 0 {
		m["aliases"] = strings.Join(s.Aliases, aliasSeparator)
	}
	setIfPresent(m, "country", s.RefData.Country)
	setIfPresent(m, "state_prov", s.RefData.StateProv)
	setIfPresent(m, "city", s.RefData.City)
	setIfPresent(m, "postal_code", s.RefData.PostalCode)
	return m
}

// parseShapeFields converts a flat hash map back into a domain Shape.
func parseShapeFields(fields map[string]string) (*domshape.Shape, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse shape id %q: %w", fields["id"], err)
	}

	s := &domshape.Shape{
		ID:                  id,
		RefCode:             fields["ref_code"],
		Name:                fields["name"],
		GeoType:             fields["geo_type"],
		IsZipCode:           fields["is_zip_code"] == "1",
		IsAggregate:         fields["is_aggregate"] == "1",
		IsThreeDigitZipCode: fields["is_three_digit_zip_code"] == "1",
		RefData: domshape.RefData{
			Country:    fields["country"],
			StateProv:  fields["state_prov"],
			City:       fields["city"],
			PostalCode: fields["postal_code"],
		},
	}

	if v := fields["aliases"]; v != "" {
		s.Aliases = strings.Split(v, aliasSeparator)
	}
	if lat, err := strconv.ParseFloat(fields["lat"], 64); err == nil {
		s.RefData.Latitude = lat
	}
	if lon, err := strconv.ParseFloat(fields["lon"], 64); err == nil {
		s.RefData.Longitude = lon
	}

	return s, nil
}

// buildEntryItems produces the searchable name-entry hashes for a shape:
// one primary entry keyed by the shape id plus one per alias.
func buildEntryItems(s *domshape.Shape) []db.HashSetItem {
	items := make([]db.HashSetItem, 0, 1+len(s.Aliases))

	primaryID := strconv.FormatInt(s.ID, 10)
	items = append(items, db.HashSetItem{
		Key:    domain.EntryKeyPrefix + primaryID,
		Fields: buildEntryFields(s, s.Name),
	})

	for i, alias := range s.Aliases {
		items = append(items, db.HashSetItem{
			Key:    fmt.Sprintf("%s%s:%d", domain.EntryKeyPrefix, primaryID, i+1),
			Fields: buildEntryFields(s, alias),
		})
	}

	return items
}

func buildEntryFields(s *domshape.Shape, name string) map[string]string {
	m := map[string]string{
		"name":                    name,
		"shape_id":                strconv.FormatInt(s.ID, 10),
		"is_zip_code":             boolTag(s.IsZipCode),
		"is_aggregate":            boolTag(s.IsAggregate),
		"is_three_digit_zip_code": boolTag(s.IsThreeDigitZipCode),
		"lat":                     formatCoord(s.RefData.Latitude),
		"lon":                     formatCoord(s.RefData.Longitude),
	}
	// The filter table coerces geo_type to a boolean, so entries carry a
	// has-category tag; the raw category stays on the shape hash.
	m["geo_type"] = boolTag(s.GeoType != "")
	setIfPresent(m, "country", s.RefData.Country)
	setIfPresent(m, "state_prov", s.RefData.StateProv)
	setIfPresent(m, "city", s.RefData.City)
	setIfPresent(m, "postal_code", s.RefData.PostalCode)
	return m
}

func setIfPresent(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func boolTag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// tagEscaper escapes reference codes for use inside a TAG query clause.
var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "\"", "\\\"", "'", "\\'",
	":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)",
	"-", "\\-", "+", "\\+", "=", "\\=", "~", "\\~",
	" ", "\\ ",
)
