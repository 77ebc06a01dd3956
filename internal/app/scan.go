package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/config"
	"github.com/blackwell-systems/depscope/internal/filetree"
	"github.com/blackwell-systems/depscope/internal/output"
	"github.com/blackwell-systems/depscope/internal/storage"
	"github.com/blackwell-systems/depscope/internal/store"
)

var (
	scanFlagExclude []string
	scanFlagJSON    bool
	scanFlagNoSave  bool
	scanFlagTop     int
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a project and build its dependency graph",
	Long: `Scan walks the project tree, extracts imports from every recognized
source file, links dependencies to dependents, and scores each file from
0 to 10. The resulting tree is saved for later queries and a snapshot of
the scan metrics is recorded in the history database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanFlagExclude, "exclude", nil, "Additional glob patterns to exclude (can be repeated)")
	scanCmd.Flags().BoolVar(&scanFlagJSON, "json", false, "Output as JSON")
	scanCmd.Flags().BoolVar(&scanFlagNoSave, "no-save", false, "Skip writing the tree record and history snapshot")
	scanCmd.Flags().IntVar(&scanFlagTop, "top", 10, "Number of top files to display")

	rootCmd.AddCommand(scanCmd)
}

// buildTree loads config, resolves the project root, and runs a full scan.
func buildTree(args []string) (*config.Config, *filetree.TreeContext, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	root := cfg.ProjectRoot
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving project root: %w", err)
	}
	cfg.ProjectRoot = abs

	excludes := append([]string{}, cfg.Exclude...)
	excludes = append(excludes, scanFlagExclude...)

	tree := filetree.NewTreeContext(abs, excludes)
	if cfg.SDKPackage != "" {
		tree.SDKPackage = cfg.SDKPackage
	}
	tree.Scan()
	return cfg, tree, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	started := time.Now()

	cfg, tree, err := buildTree(args)
	if err != nil {
		return err
	}

	stats := tree.ComputeStats()
	top := tree.FindImportantFiles(scanFlagTop, 0)

	if !scanFlagNoSave {
		rec := storage.NewRecord(config.DefaultTreeName, cfg.BaseDirectory, cfg.ProjectRoot, tree.Root)
		if err := storage.Save(cfg.TreePath(), rec); err != nil {
			return fmt.Errorf("saving tree: %w", err)
		}
		if err := recordSnapshot(cfg.ProjectRoot, stats, top); err != nil {
			return fmt.Errorf("recording snapshot: %w", err)
		}
	}

	if scanFlagJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tree.Root)
	}

	renderScanSummary(cfg.ProjectRoot, stats, time.Since(started))
	renderImportantTable(tree, top)
	return nil
}

// recordSnapshot appends this scan's metrics to the history database.
func recordSnapshot(projectRoot string, stats filetree.Stats, top []*filetree.Node) error {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return err
	}

	snap := &store.ScanSnapshot{
		TakenAt:       time.Now(),
		ProjectRoot:   projectRoot,
		Version:       appVersion,
		FileCount:     stats.FileCount,
		EdgeCount:     stats.EdgeCount,
		PackageCount:  stats.PackageCount,
		AvgImportance: stats.AvgImportance,
		MaxImportance: stats.MaxImportance,
	}

	topFiles := make([]store.TopFile, 0, len(top))
	for _, n := range top {
		topFiles = append(topFiles, store.TopFile{
			Path:       n.Path,
			Importance: n.Importance,
			Dependents: len(n.Dependents),
		})
	}

	_, err = db.RecordScan(snap, topFiles)
	return err
}

func renderScanSummary(projectRoot string, stats filetree.Stats, elapsed time.Duration) {
	fmt.Println(output.Section("Scan: " + projectRoot))
	fmt.Println()
	fmt.Printf(" %s  files: %s  edges: %s  packages: %s  avg importance: %s\n",
		output.StyleMuted.Render(elapsed.Round(time.Millisecond).String()),
		output.StyleBold.Render(fmt.Sprintf("%d", stats.FileCount)),
		output.StyleBold.Render(fmt.Sprintf("%d", stats.EdgeCount)),
		output.StyleBold.Render(fmt.Sprintf("%d", stats.PackageCount)),
		output.StyleBold.Render(fmt.Sprintf("%.1f", stats.AvgImportance)))
}

// renderImportantTable prints a styled table of the given files.
func renderImportantTable(tree *filetree.TreeContext, files []*filetree.Node) {
	if len(files) == 0 {
		fmt.Println(output.StyleMuted.Render("\n No files found."))
		return
	}

	fmt.Println(output.Section("Important Files"))
	fmt.Println()

	// The styled bar goes last so its ANSI codes cannot skew column widths.
	tbl := output.NewTable("File", "Deps", "Dependents", "Importance").AlignRight(1, 2)
	for _, n := range files {
		tbl.AddRow(
			relDisplay(tree.ProjectRoot, n.Path),
			fmt.Sprintf("%d", len(n.Dependencies)),
			fmt.Sprintf("%d", len(n.Dependents)),
			output.ImportanceBar(n.Importance, 10),
		)
	}
	tbl.Print()
}

// relDisplay shortens an absolute tree path for display.
func relDisplay(projectRoot, path string) string {
	if rel, err := filepath.Rel(projectRoot, filepath.FromSlash(path)); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
