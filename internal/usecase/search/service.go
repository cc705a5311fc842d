package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/georef/internal/domain/search/match"
	"github.com/kailas-cloud/georef/internal/domain/search/request"
)

// Service handles fuzzy name search requests.
type Service struct {
	engine Engine
}

// New creates a search service.
func New(engine Engine) *Service {
	return &Service{engine: engine}
}

// Search runs the normalized request against the engine. An empty hit
// list is a valid result, not an error.
func (s *Service) Search(ctx context.Context, req *request.Search) ([]match.Match, error) {
	matches, err := s.engine.FuzzySearch(ctx, req.Query(), req.Filters(), req.NumResults())
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}
	return matches, nil
}
