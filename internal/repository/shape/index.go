package shape

import (
	"github.com/kailas-cloud/georef/internal/db"
	"github.com/kailas-cloud/georef/internal/domain"
)

// shapeIndex addresses shapes by reference code and centroid.
func shapeIndex() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     domain.ShapeIndexName,
		Prefixes: []string{domain.ShapeKeyPrefix},
		Fields: []db.IndexField{
			{Name: "ref_code", Type: db.IndexFieldTag},
			{Name: "country", Type: db.IndexFieldTag},
			{Name: "location", Type: db.IndexFieldGeo},
		},
	}
}

// entryIndex backs fuzzy name search with the filterable tags.
func entryIndex() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     domain.EntryIndexName,
		Prefixes: []string{domain.EntryKeyPrefix},
		Fields: []db.IndexField{
			{Name: "name", Type: db.IndexFieldText},
			{Name: "is_zip_code", Type: db.IndexFieldTag},
			{Name: "is_aggregate", Type: db.IndexFieldTag},
			{Name: "is_three_digit_zip_code", Type: db.IndexFieldTag},
			{Name: "geo_type", Type: db.IndexFieldTag},
			{Name: "country", Type: db.IndexFieldTag},
			{Name: "state_prov", Type: db.IndexFieldTag},
		},
	}
}
