package store

import (
	"database/sql"
	"time"
)

// RecordScan inserts a scan snapshot plus its top-file rows and returns the
// snapshot ID.
func (db *DB) RecordScan(snap *ScanSnapshot, topFiles []TopFile) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO scan_snapshots
		(taken_at, project_root, version, file_count, edge_count, package_count,
		 avg_importance, max_importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), snap.ProjectRoot, snap.Version,
		snap.FileCount, snap.EdgeCount, snap.PackageCount,
		snap.AvgImportance, snap.MaxImportance,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, tf := range topFiles {
		if _, err := tx.Exec(
			"INSERT INTO top_files (snapshot_id, path, importance, dependents) VALUES (?, ?, ?, ?)",
			id, tf.Path, tf.Importance, tf.Dependents,
		); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// GetLatestSnapshot returns the most recent snapshot for a project root, or
// nil if none exist.
func (db *DB) GetLatestSnapshot(projectRoot string) (*ScanSnapshot, error) {
	row := db.conn.QueryRow(
		snapshotColumns+" WHERE project_root = ? ORDER BY id DESC LIMIT 1",
		projectRoot,
	)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot for a project root
// (1 = latest, 2 = previous, and so on).
func (db *DB) GetSnapshotN(projectRoot string, n int) (*ScanSnapshot, error) {
	row := db.conn.QueryRow(
		snapshotColumns+" WHERE project_root = ? ORDER BY id DESC LIMIT 1 OFFSET ?",
		projectRoot, n-1,
	)
	return scanSnapshot(row)
}

const snapshotColumns = `SELECT id, taken_at, project_root, version, file_count,
	edge_count, package_count, avg_importance, max_importance FROM scan_snapshots`

func scanSnapshot(row *sql.Row) (*ScanSnapshot, error) {
	var s ScanSnapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.ProjectRoot, &s.Version, &s.FileCount,
		&s.EdgeCount, &s.PackageCount, &s.AvgImportance, &s.MaxImportance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// GetTopFiles returns the top-file rows for a snapshot, highest importance
// first.
func (db *DB) GetTopFiles(snapshotID int64) ([]TopFile, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, path, importance, dependents FROM top_files WHERE snapshot_id = ? ORDER BY importance DESC, path",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var files []TopFile
	for rows.Next() {
		var tf TopFile
		if err := rows.Scan(&tf.ID, &tf.SnapshotID, &tf.Path, &tf.Importance, &tf.Dependents); err != nil {
			return nil, err
		}
		files = append(files, tf)
	}
	return files, rows.Err()
}

// DiffLatest compares the two most recent snapshots for a project root.
// Either side may be nil when there is not enough history.
func (db *DB) DiffLatest(projectRoot string) (*ScanDiff, error) {
	current, err := db.GetSnapshotN(projectRoot, 1)
	if err != nil {
		return nil, err
	}
	previous, err := db.GetSnapshotN(projectRoot, 2)
	if err != nil {
		return nil, err
	}

	diff := &ScanDiff{Previous: previous, Current: current}
	if current == nil || previous == nil {
		return diff, nil
	}

	add := func(name string, prev, curr float64) {
		diff.Deltas = append(diff.Deltas, MetricDelta{
			Name: name, Previous: prev, Current: curr, Delta: curr - prev,
		})
	}
	add("files", float64(previous.FileCount), float64(current.FileCount))
	add("dependency edges", float64(previous.EdgeCount), float64(current.EdgeCount))
	add("package dependencies", float64(previous.PackageCount), float64(current.PackageCount))
	add("avg importance", previous.AvgImportance, current.AvgImportance)
	add("max importance", float64(previous.MaxImportance), float64(current.MaxImportance))

	return diff, nil
}
