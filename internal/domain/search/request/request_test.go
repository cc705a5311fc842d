package request

import (
	"net/url"
	"testing"

	"github.com/kailas-cloud/georef/internal/domain/search/filter"
)

func TestNewSearch_Defaults(t *testing.T) {
	s := NewSearch("spring", 0, false, "", nil)
	if s.NumResults() != DefaultNumResults {
		t.Errorf("numResults = %d, want %d", s.NumResults(), DefaultNumResults)
	}
	if s.Query() != "spring" {
		t.Errorf("query = %q", s.Query())
	}
	if s.IncludeRef() || s.Callback() != "" || s.Filters() != nil {
		t.Error("optional fields should be zero")
	}
}

func TestNewSearch_NegativeCount(t *testing.T) {
	s := NewSearch("q", -3, false, "", nil)
	if s.NumResults() != DefaultNumResults {
		t.Errorf("numResults = %d, want %d", s.NumResults(), DefaultNumResults)
	}
}

func TestNewSearch_ExplicitCount(t *testing.T) {
	s := NewSearch("q", 25, true, "cb", nil)
	if s.NumResults() != 25 {
		t.Errorf("numResults = %d, want 25", s.NumResults())
	}
	if !s.IncludeRef() {
		t.Error("includeRef should be true")
	}
	if s.Callback() != "cb" {
		t.Errorf("callback = %q", s.Callback())
	}
}

func TestNewSearch_CarriesFilters(t *testing.T) {
	f := filter.Resolve(url.Values{"is_zip_code": {"1"}})
	s := NewSearch("q", 8, false, "", f)
	if s.Filters() != f {
		t.Error("filters not carried through")
	}
}
