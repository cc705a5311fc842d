package ingest

import (
	"context"

	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

// ShapeWriter persists shape records with their searchable entries.
type ShapeWriter interface {
	SaveAll(ctx context.Context, shapes []domshape.Shape) error
}

// MarkerStore tracks whether the reference snapshot has been loaded.
type MarkerStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
