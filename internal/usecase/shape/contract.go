package shape

import (
	"context"

	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

// Repository defines the engine contract for shape resolution and
// proximity search.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domshape.Shape, error)
	GetByRefCode(ctx context.Context, code string) (*domshape.Shape, error)
	RefCodeForID(ctx context.Context, id int64) (string, error)
	RadiusSearch(ctx context.Context, code string, radiusMiles float64, countryExact bool) ([]domshape.Shape, error)
}
