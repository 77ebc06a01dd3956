// Package store provides SQLite access for depscope scan history.
package store

import "time"

// ScanSnapshot is a point-in-time capture of one completed scan.
type ScanSnapshot struct {
	ID            int64     `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	ProjectRoot   string    `json:"project_root"`
	Version       string    `json:"version"`
	FileCount     int       `json:"file_count"`
	EdgeCount     int       `json:"edge_count"`
	PackageCount  int       `json:"package_count"`
	AvgImportance float64   `json:"avg_importance"`
	MaxImportance int       `json:"max_importance"`
}

// TopFile is one of the highest-importance files recorded with a snapshot.
type TopFile struct {
	ID         int64  `json:"id"`
	SnapshotID int64  `json:"snapshot_id"`
	Path       string `json:"path"`
	Importance int    `json:"importance"`
	Dependents int    `json:"dependents"`
}

// ScanDiff compares the two most recent snapshots of a project root.
type ScanDiff struct {
	Previous *ScanSnapshot `json:"previous"`
	Current  *ScanSnapshot `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta is the change in a single snapshot metric.
type MetricDelta struct {
	Name     string  `json:"name"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}
