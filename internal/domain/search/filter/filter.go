// Package filter resolves raw query parameters into the validated
// filter set passed to the search engine.
package filter

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/georef/internal/domain/boolval"
)

// Key identifies a recognized filter parameter. The set is closed:
// anything else in the query string is ignored.
type Key string

// Recognized filter keys.
const (
	KeyIsZipCode           Key = "is_zip_code"
	KeyIsAggregate         Key = "is_aggregate"
	KeyIsThreeDigitZipCode Key = "is_three_digit_zip_code"
	KeyGeoType             Key = "geo_type"
	KeyCountry             Key = "ref_data.country"
	KeyStateProv           Key = "ref_data.state_prov"
)

// Set is the validated subset of filter parameters. Flags are tri-state
// (nil = not requested); codes are empty when not requested. A nil *Set
// means "no filters" and is distinct from an empty Set.
type Set struct {
	isZipCode           *bool
	isAggregate         *bool
	isThreeDigitZipCode *bool
	geoType             *bool
	country             string
	stateProv           string
}

// IsZipCode returns the zip-code flag filter, nil when not set.
func (s *Set) IsZipCode() *bool { return s.isZipCode }

// IsAggregate returns the aggregate flag filter, nil when not set.
func (s *Set) IsAggregate() *bool { return s.isAggregate }

// IsThreeDigitZipCode returns the three-digit-zip flag filter, nil when not set.
func (s *Set) IsThreeDigitZipCode() *bool { return s.isThreeDigitZipCode }

// GeoType returns the geo-type flag filter, nil when not set.
//
// geo_type reads as a category parameter elsewhere in the domain but the
// legacy service coerced it as a boolean; that behavior is kept verbatim.
func (s *Set) GeoType() *bool { return s.geoType }

// Country returns the two-letter country code filter, empty when not set.
func (s *Set) Country() string { return s.country }

// StateProv returns the two-letter state/province code filter, empty when not set.
func (s *Set) StateProv() string { return s.stateProv }

// IsEmpty reports whether no filter survived validation.
func (s *Set) IsEmpty() bool {
	return s.isZipCode == nil && s.isAggregate == nil &&
		s.isThreeDigitZipCode == nil && s.geoType == nil &&
		s.country == "" && s.stateProv == ""
}

// Flags returns the boolean filters that are set, keyed by parameter name.
func (s *Set) Flags() map[Key]bool {
	out := make(map[Key]bool, 4)
	if s.isZipCode != nil {
		out[KeyIsZipCode] = *s.isZipCode
	}
	if s.isAggregate != nil {
		out[KeyIsAggregate] = *s.isAggregate
	}
	if s.isThreeDigitZipCode != nil {
		out[KeyIsThreeDigitZipCode] = *s.isThreeDigitZipCode
	}
	if s.geoType != nil {
		out[KeyGeoType] = *s.geoType
	}
	return out
}

// rule binds a recognized key to its validator. apply reports whether
// the raw value was accepted into the set.
type rule struct {
	key   Key
	apply func(s *Set, raw string) bool
}

// The table is ordered; Resolve evaluates rules deterministically.
var rules = []rule{
	{KeyIsZipCode, func(s *Set, raw string) bool { return setFlag(&s.isZipCode, raw) }},
	{KeyIsAggregate, func(s *Set, raw string) bool { return setFlag(&s.isAggregate, raw) }},
	{KeyIsThreeDigitZipCode, func(s *Set, raw string) bool { return setFlag(&s.isThreeDigitZipCode, raw) }},
	{KeyGeoType, func(s *Set, raw string) bool { return setFlag(&s.geoType, raw) }},
	{KeyCountry, func(s *Set, raw string) bool { return setCode(&s.country, raw) }},
	{KeyStateProv, func(s *Set, raw string) bool { return setCode(&s.stateProv, raw) }},
}

func setFlag(dst **bool, raw string) bool {
	v, ok := boolval.Parse(raw)
	if !ok {
		return false
	}
	*dst = &v
	return true
}

// Geographic codes must be exactly two characters; anything else is
// dropped. Counted in runes so non-ASCII codes pass the length check.
func setCode(dst *string, raw string) bool {
	if utf8.RuneCountInString(raw) != 2 {
		return false
	}
	*dst = strings.ToUpper(raw)
	return true
}

// Resolve narrows raw query parameters to the recognized filter keys and
// validates each value. Unknown keys and values that fail validation are
// dropped silently so a malformed filter never rejects the whole request.
// Returns nil when nothing valid remains.
func Resolve(params url.Values) *Set {
	var s Set
	accepted := false
	for _, r := range rules {
		if !params.Has(string(r.key)) {
			continue
		}
		if r.apply(&s, params.Get(string(r.key))) {
			accepted = true
		}
	}
	if !accepted {
		return nil
	}
	return &s
}
