package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/depscope/internal/diagram"
	"github.com/blackwell-systems/depscope/internal/filetree"
	"github.com/blackwell-systems/depscope/internal/storage"
)

// ScanResult summarizes a completed scan for tool callers.
type ScanResult struct {
	ProjectRoot   string  `json:"project_root"`
	FileCount     int     `json:"file_count"`
	EdgeCount     int     `json:"edge_count"`
	PackageCount  int     `json:"package_count"`
	AvgImportance float64 `json:"avg_importance"`
	SavedTo       string  `json:"saved_to,omitempty"`
}

// FileImportanceResult describes one file's graph position and score.
type FileImportanceResult struct {
	Path                string                       `json:"path"`
	Importance          int                          `json:"importance"`
	Dependencies        []string                     `json:"dependencies"`
	Dependents          []string                     `json:"dependents"`
	PackageDependencies []filetree.PackageDependency `json:"packageDependencies,omitempty"`
	Summary             string                       `json:"summary,omitempty"`
}

// ImportantFilesResult lists the highest-scoring files.
type ImportantFilesResult struct {
	Files []FileImportanceResult `json:"files"`
}

// OKResult is the generic success/failure shape for mutating tools.
type OKResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

var (
	noArgsSchema        = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	pathSchema          = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Absolute or project-relative file path"}},"required":["path"],"additionalProperties":false}`)
	importantSchema     = json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer","description":"Maximum number of files to return (default 10)"},"min_importance":{"type":"integer","description":"Minimum importance score (default 0)"}},"additionalProperties":false}`)
	setImportanceSchema = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string"},"importance":{"type":"integer","description":"Score in [0,10]"}},"required":["path","importance"],"additionalProperties":false}`)
	setSummarySchema    = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string"},"summary":{"type":"string"}},"required":["path","summary"],"additionalProperties":false}`)
	excludeSchema       = json.RawMessage(`{"type":"object","properties":{"patterns":{"type":"array","items":{"type":"string"},"description":"Exclusion glob patterns; replaces the configured list"}},"required":["patterns"],"additionalProperties":false}`)
	diagramSchema       = json.RawMessage(`{"type":"object","properties":{"style":{"type":"string","enum":["directory","dependency","hybrid"]},"max_depth":{"type":"integer"},"min_importance":{"type":"integer"}},"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "create_file_tree",
		Description: "Scan the project, build the dependency graph, score every file, and save the tree.",
		InputSchema: noArgsSchema,
		Handler:     s.handleCreateFileTree,
	})
	s.registerTool(toolDef{
		Name:        "find_important_files",
		Description: "List the highest-importance files with their dependency and dependent edges.",
		InputSchema: importantSchema,
		Handler:     s.handleFindImportantFiles,
	})
	s.registerTool(toolDef{
		Name:        "get_file_importance",
		Description: "Importance score, dependencies, and dependents for one file.",
		InputSchema: pathSchema,
		Handler:     s.handleGetFileImportance,
	})
	s.registerTool(toolDef{
		Name:        "set_file_importance",
		Description: "Manually override a file's importance score (0-10). Holds until the next rescan.",
		InputSchema: setImportanceSchema,
		Handler:     s.handleSetFileImportance,
	})
	s.registerTool(toolDef{
		Name:        "recalculate_importance",
		Description: "Re-run the importance scorer over the whole tree.",
		InputSchema: noArgsSchema,
		Handler:     s.handleRecalculateImportance,
	})
	s.registerTool(toolDef{
		Name:        "add_file",
		Description: "Incrementally index a newly created file without a full rescan.",
		InputSchema: pathSchema,
		Handler:     s.handleAddFile,
	})
	s.registerTool(toolDef{
		Name:        "remove_file",
		Description: "Incrementally remove a deleted file and repair its neighbors' edges.",
		InputSchema: pathSchema,
		Handler:     s.handleRemoveFile,
	})
	s.registerTool(toolDef{
		Name:        "set_file_summary",
		Description: "Attach a free-text summary to a file.",
		InputSchema: setSummarySchema,
		Handler:     s.handleSetFileSummary,
	})
	s.registerTool(toolDef{
		Name:        "get_file_summary",
		Description: "Read a file's summary annotation.",
		InputSchema: pathSchema,
		Handler:     s.handleGetFileSummary,
	})
	s.registerTool(toolDef{
		Name:        "exclude_and_rescan",
		Description: "Replace the exclusion patterns and rescan the project.",
		InputSchema: excludeSchema,
		Handler:     s.handleExcludeAndRescan,
	})
	s.registerTool(toolDef{
		Name:        "generate_diagram",
		Description: "Render the current tree as Mermaid graph text.",
		InputSchema: diagramSchema,
		Handler:     s.handleGenerateDiagram,
	})
}

// errNoTree is returned by tools that need a scanned tree before use.
var errNoTree = errors.New("no file tree yet: run create_file_tree first")

func (s *Server) requireTree() error {
	if s.tree.Root == nil {
		return errNoTree
	}
	return nil
}

// resolvePath turns a possibly project-relative tool argument into the
// canonical absolute form the tree is keyed by.
func (s *Server) resolvePath(p string) string {
	p = filetree.NormalizePath(p)
	if p == "" {
		return p
	}
	if p[0] == '/' || (len(p) > 1 && p[1] == ':') {
		return p
	}
	return s.tree.ProjectRoot + "/" + p
}

func (s *Server) handleCreateFileTree(args json.RawMessage) (any, error) {
	s.tree.Scan()

	rec := storage.NewRecord(filepath.Base(s.treePath), s.cfg.BaseDirectory, s.tree.ProjectRoot, s.tree.Root)
	saved := s.treePath
	if err := s.save(rec); err != nil {
		// The in-memory tree is still valid; report the save failure.
		saved = ""
	}

	stats := s.tree.ComputeStats()
	return ScanResult{
		ProjectRoot:   s.tree.ProjectRoot,
		FileCount:     stats.FileCount,
		EdgeCount:     stats.EdgeCount,
		PackageCount:  stats.PackageCount,
		AvgImportance: stats.AvgImportance,
		SavedTo:       saved,
	}, nil
}

// save persists the current tree record, isolated for error handling.
func (s *Server) save(rec *storage.Record) error {
	return storage.Save(s.treePath, rec)
}

func (s *Server) handleFindImportantFiles(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}

	limit := 10
	minImportance := 0
	var params struct {
		Limit         *int `json:"limit"`
		MinImportance *int `json:"min_importance"`
	}
	if err := json.Unmarshal(args, &params); err == nil {
		if params.Limit != nil && *params.Limit > 0 {
			limit = *params.Limit
		}
		if params.MinImportance != nil {
			minImportance = *params.MinImportance
		}
	}

	files := s.tree.FindImportantFiles(limit, minImportance)
	result := ImportantFilesResult{Files: make([]FileImportanceResult, 0, len(files))}
	for _, f := range files {
		result.Files = append(result.Files, fileResult(f))
	}
	return result, nil
}

func (s *Server) handleGetFileImportance(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}

	n := s.tree.FindNode(s.resolvePath(path))
	if n == nil || n.IsDirectory {
		return nil, fmt.Errorf("not a file in the tree: %s", path)
	}
	return fileResult(n), nil
}

func (s *Server) handleSetFileImportance(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	var params struct {
		Path       string `json:"path"`
		Importance int    `json:"importance"`
	}
	if err := json.Unmarshal(args, &params); err != nil || params.Path == "" {
		return nil, errors.New("path and importance are required")
	}

	if !s.tree.SetImportance(s.resolvePath(params.Path), params.Importance) {
		return OKResult{OK: false, Message: "not a file in the tree"}, nil
	}
	return OKResult{OK: true}, nil
}

func (s *Server) handleRecalculateImportance(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	s.tree.RecalculateImportance()
	stats := s.tree.ComputeStats()
	return ScanResult{
		ProjectRoot:   s.tree.ProjectRoot,
		FileCount:     stats.FileCount,
		EdgeCount:     stats.EdgeCount,
		PackageCount:  stats.PackageCount,
		AvgImportance: stats.AvgImportance,
	}, nil
}

func (s *Server) handleAddFile(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}

	if !s.tree.AddFile(s.resolvePath(path)) {
		return OKResult{OK: false, Message: "parent not in tree or file already indexed"}, nil
	}
	return OKResult{OK: true}, nil
}

func (s *Server) handleRemoveFile(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}

	if !s.tree.RemoveFile(s.resolvePath(path)) {
		return OKResult{OK: false, Message: "not a file in the tree"}, nil
	}
	return OKResult{OK: true}, nil
}

func (s *Server) handleSetFileSummary(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	var params struct {
		Path    string `json:"path"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(args, &params); err != nil || params.Path == "" {
		return nil, errors.New("path and summary are required")
	}

	if !s.tree.SetSummary(s.resolvePath(params.Path), params.Summary) {
		return OKResult{OK: false, Message: "not a file in the tree"}, nil
	}
	return OKResult{OK: true}, nil
}

func (s *Server) handleGetFileSummary(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}

	summary, ok := s.tree.GetSummary(s.resolvePath(path))
	if !ok {
		return nil, fmt.Errorf("not a file in the tree: %s", path)
	}
	return map[string]string{"path": path, "summary": summary}, nil
}

func (s *Server) handleExcludeAndRescan(args json.RawMessage) (any, error) {
	var params struct {
		Patterns []string `json:"patterns"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, errors.New("patterns are required")
	}

	s.tree.Excludes = filetree.NewExcludeFilter(params.Patterns)
	return s.handleCreateFileTree(nil)
}

func (s *Server) handleGenerateDiagram(args json.RawMessage) (any, error) {
	if err := s.requireTree(); err != nil {
		return nil, err
	}
	var params struct {
		Style         string `json:"style"`
		MaxDepth      int    `json:"max_depth"`
		MinImportance int    `json:"min_importance"`
	}
	_ = json.Unmarshal(args, &params)

	text := diagram.Render(s.tree.Root, diagram.Options{
		Style:         diagram.Style(params.Style),
		MaxDepth:      params.MaxDepth,
		MinImportance: params.MinImportance,
	})
	return map[string]string{"mermaid": text}, nil
}

// pathArg extracts the required "path" argument.
func pathArg(args json.RawMessage) (string, error) {
	var params struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &params); err != nil || params.Path == "" {
		return "", errors.New("path is required")
	}
	return params.Path, nil
}

// fileResult converts a node to the tool response shape. Nil slices become
// empty so callers always see arrays.
func fileResult(n *filetree.Node) FileImportanceResult {
	deps := n.Dependencies
	if deps == nil {
		deps = []string{}
	}
	dependents := n.Dependents
	if dependents == nil {
		dependents = []string{}
	}
	return FileImportanceResult{
		Path:                n.Path,
		Importance:          n.Importance,
		Dependencies:        deps,
		Dependents:          dependents,
		PackageDependencies: n.PackageDependencies,
		Summary:             n.Summary,
	}
}
