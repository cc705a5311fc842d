// Package shape defines the geographic reference entity served by the API.
package shape

import "strings"

// RefData is the geographic context attached to a shape: city, state,
// zip and country plus the shape centroid.
type RefData struct {
	Country    string  `json:"country,omitempty"`
	StateProv  string  `json:"state_prov,omitempty"`
	City       string  `json:"city,omitempty"`
	PostalCode string  `json:"postal_code,omitempty"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
}

// Shape is a geographic reference entity (postal or administrative
// boundary) addressable either by numeric id or by case-insensitive
// reference code. Fetch responses return it verbatim.
type Shape struct {
	ID                  int64    `json:"id"`
	RefCode             string   `json:"ref_code"`
	Name                string   `json:"name"`
	GeoType             string   `json:"geo_type,omitempty"`
	IsZipCode           bool     `json:"is_zip_code"`
	IsAggregate         bool     `json:"is_aggregate"`
	IsThreeDigitZipCode bool     `json:"is_three_digit_zip_code"`
	Aliases             []string `json:"aliases,omitempty"`
	RefData             RefData  `json:"ref_data"`
}

// NormalizeRefCode lowercases a reference code for lookups. Reference
// codes are stored lowercase; the two addressing schemes (id, code)
// meet only through the engine.
func NormalizeRefCode(code string) string {
	return strings.ToLower(code)
}
