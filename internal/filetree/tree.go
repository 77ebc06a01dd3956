package filetree

// SetSummary attaches a free-text annotation to a file node. Summaries are
// caller-owned; the engine never derives or clears them. Returns false if
// the path is not a file in the tree.
func (tc *TreeContext) SetSummary(path, summary string) bool {
	n := tc.FindNode(path)
	if n == nil || n.IsDirectory {
		return false
	}
	n.Summary = summary
	return true
}

// GetSummary returns a file's annotation. The second result is false if the
// path is not a file in the tree.
func (tc *TreeContext) GetSummary(path string) (string, bool) {
	n := tc.FindNode(path)
	if n == nil || n.IsDirectory {
		return "", false
	}
	return n.Summary, true
}

// Stats summarizes a tree for reporting and snapshot history.
type Stats struct {
	FileCount     int
	EdgeCount     int
	PackageCount  int
	AvgImportance float64
	MaxImportance int
}

// ComputeStats walks the tree once and aggregates counts used by the scan
// summary and the history store.
func (tc *TreeContext) ComputeStats() Stats {
	var s Stats
	total := 0
	for _, f := range tc.FlattenFiles() {
		s.FileCount++
		s.EdgeCount += len(f.Dependencies)
		s.PackageCount += len(f.PackageDependencies)
		total += f.Importance
		if f.Importance > s.MaxImportance {
			s.MaxImportance = f.Importance
		}
	}
	if s.FileCount > 0 {
		s.AvgImportance = float64(total) / float64(s.FileCount)
	}
	return s
}
