package types

// JSONMap is a free-form JSON object column (gateway snapshots, product
// snapshots, metadata). Stored via GORM's JSON serializer.
type JSONMap map[string]any
