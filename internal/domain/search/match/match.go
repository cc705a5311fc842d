package match

import "github.com/kailas-cloud/georef/internal/domain/shape"

// Match is a single fuzzy-search hit produced by the engine. A match
// points at a name entry; shapeID references the underlying shape and
// may be absent for entries without a resolved boundary.
type Match struct {
	id      string
	name    string
	score   float64
	shapeID *int64
	refData *shape.RefData
}

// New creates a search match.
func New(id, name string, score float64, shapeID *int64, refData *shape.RefData) Match {
	return Match{id: id, name: name, score: score, shapeID: shapeID, refData: refData}
}

// ID returns the name-entry identifier.
func (m *Match) ID() string { return m.id }

// Name returns the display name.
func (m *Match) Name() string { return m.name }

// Score returns the engine relevance score.
func (m *Match) Score() float64 { return m.score }

// ShapeID returns the referenced shape id, nil when unresolved.
func (m *Match) ShapeID() *int64 { return m.shapeID }

// RefData returns the geographic context, nil when the entry has none.
func (m *Match) RefData() *shape.RefData { return m.refData }
