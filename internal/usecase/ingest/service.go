// Package ingest loads the geographic reference snapshot into the
// store at startup. The snapshot is NDJSON, one shape per line.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/georef/internal/domain"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
	"github.com/kailas-cloud/georef/internal/metrics"
)

// batchSize bounds the number of shapes written per pipelined round-trip.
const batchSize = 500

// Scanner buffer large enough for shapes with long alias lists.
const maxLineBytes = 1 << 20

// Service seeds the store from a reference snapshot.
type Service struct {
	shapes ShapeWriter
	marker MarkerStore
	logger *zap.Logger
}

// New creates an ingest service.
func New(shapes ShapeWriter, marker MarkerStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{shapes: shapes, marker: marker, logger: logger}
}

// Run loads shapes from r unless a previous load is recorded. force
// replays the load regardless of the marker. Returns the number of
// shapes written.
func (s *Service) Run(ctx context.Context, r io.Reader, force bool) (int, error) {
	if !force {
		loaded, err := s.marker.Exists(ctx, domain.SeedMarkerKey)
		if err != nil {
			return 0, fmt.Errorf("check seed marker: %w", err)
		}
		if loaded {
			s.logger.Info("reference snapshot already loaded, skipping seed")
			return 0, nil
		}
	}

	start := time.Now()
	total := 0
	batch := make([]domshape.Shape, 0, batchSize)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var sh domshape.Shape
		if err := json.Unmarshal(raw, &sh); err != nil {
			return total, fmt.Errorf("parse snapshot line %d: %w", line, err)
		}

		batch = append(batch, sh)
		if len(batch) == batchSize {
			if err := s.shapes.SaveAll(ctx, batch); err != nil {
				return total, fmt.Errorf("write seed batch: %w", err)
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("read snapshot: %w", err)
	}

	if len(batch) > 0 {
		if err := s.shapes.SaveAll(ctx, batch); err != nil {
			return total, fmt.Errorf("write seed batch: %w", err)
		}
		total += len(batch)
	}

	if err := s.marker.Set(ctx, domain.SeedMarkerKey, []byte("1")); err != nil {
		return total, fmt.Errorf("set seed marker: %w", err)
	}

	metrics.SeedShapesLoadedTotal.Add(float64(total))
	metrics.SeedDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("reference snapshot loaded",
		zap.Int("shapes", total),
		zap.Duration("took", time.Since(start)),
	)
	return total, nil
}
