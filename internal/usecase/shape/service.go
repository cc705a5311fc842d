package shape

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/georef/internal/domain"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

// Service resolves shapes by id or reference code and runs proximity
// search around them.
type Service struct {
	repo Repository
}

// New creates a shape service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Fetch resolves a single shape. A numeric id wins over a reference
// code; an unparseable id or missing identifiers resolve to not found.
func (s *Service) Fetch(ctx context.Context, shapeID, refCode string) (*domshape.Shape, error) {
	switch {
	case shapeID != "":
		id, err := strconv.ParseInt(shapeID, 10, 64)
		if err != nil {
			return nil, domain.ErrNotFound
		}
		return s.repo.GetByID(ctx, id)
	case refCode != "":
		return s.repo.GetByRefCode(ctx, refCode)
	default:
		return nil, domain.ErrNotFound
	}
}

// Radius returns the shapes within radius miles of the identified
// origin. A supplied shape id is resolved to its reference code first
// and supersedes any directly supplied code. The radius bound is
// checked after id resolution but before the code check, so a bad
// radius wins over a missing shape.
func (s *Service) Radius(
	ctx context.Context, shapeID, refCode string, radius int, countryExact bool,
) ([]domshape.Shape, error) {
	code := refCode
	if shapeID != "" {
		code = ""
		if id, err := strconv.ParseInt(shapeID, 10, 64); err == nil {
			resolved, err := s.repo.RefCodeForID(ctx, id)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("resolve ref code for %d: %w", id, err)
			}
			code = resolved
		}
	}

	if radius < 1 {
		return nil, domain.ErrRadiusTooSmall
	}
	if code == "" {
		return nil, domain.ErrNotFound
	}

	shapes, err := s.repo.RadiusSearch(ctx, code, float64(radius), countryExact)
	if err != nil {
		return nil, err
	}
	return shapes, nil
}
