package domain

// Storage key layout. Shapes are addressable hashes; entries are the
// searchable name records referencing shapes.
const (
	// KeyPrefix namespaces every key written by this service.
	KeyPrefix = "georef:"

	// ShapeKeyPrefix is the prefix for shape record hashes.
	ShapeKeyPrefix = KeyPrefix + "shape:"
	// EntryKeyPrefix is the prefix for searchable name-entry hashes.
	EntryKeyPrefix = KeyPrefix + "entry:"

	// ShapeIndexName is the FT index over shape records (ref code, geo).
	ShapeIndexName = KeyPrefix + "shape-idx"
	// EntryIndexName is the FT index over name entries (fuzzy search).
	EntryIndexName = KeyPrefix + "entry-idx"

	// SeedMarkerKey flags that the reference snapshot has been loaded.
	SeedMarkerKey = KeyPrefix + "seed:loaded"
)
