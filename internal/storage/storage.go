// Package storage persists scanned trees as JSON. The record shape (field
// names and nesting) is a compatibility surface shared with other readers of
// saved trees and must not change.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/depscope/internal/filetree"
)

// Record is the serialized form of a scanned tree plus its scan config.
type Record struct {
	Config   RecordConfig   `json:"config"`
	FileTree *filetree.Node `json:"fileTree"`
}

// RecordConfig describes where and when the tree was produced.
type RecordConfig struct {
	Filename      string    `json:"filename"`
	BaseDirectory string    `json:"baseDirectory"`
	ProjectRoot   string    `json:"projectRoot"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// NewRecord wraps a finished tree in the persisted record shape.
func NewRecord(filename, baseDirectory, projectRoot string, tree *filetree.Node) *Record {
	return &Record{
		Config: RecordConfig{
			Filename:      filename,
			BaseDirectory: baseDirectory,
			ProjectRoot:   projectRoot,
			LastUpdated:   time.Now().UTC(),
		},
		FileTree: tree,
	}
}

// Save writes the record to path as indented JSON. The write is atomic:
// a temp file in the same directory is renamed over the target.
func Save(path string, rec *Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating tree directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tree-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing tree: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing tree file: %w", err)
	}
	return nil
}

// Load reads a previously saved record from path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding tree file: %w", err)
	}
	return &rec, nil
}
