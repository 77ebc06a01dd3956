package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/config"
	"github.com/blackwell-systems/depscope/internal/filetree"
	"github.com/blackwell-systems/depscope/internal/storage"
)

var (
	importantFlagLimit  int
	importantFlagMin    int
	importantFlagRescan bool
	importantFlagJSON   bool
)

var importantCmd = &cobra.Command{
	Use:   "important [path]",
	Short: "List the highest-importance files",
	Long: `Important lists files ranked by their importance score. By default it
reads the tree saved by the last scan; pass --rescan to rebuild the graph
from the filesystem first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportant,
}

func init() {
	importantCmd.Flags().IntVar(&importantFlagLimit, "limit", 10, "Maximum number of files to list")
	importantCmd.Flags().IntVar(&importantFlagMin, "min", 0, "Only list files with importance >= this value")
	importantCmd.Flags().BoolVar(&importantFlagRescan, "rescan", false, "Rebuild the graph instead of reading the saved tree")
	importantCmd.Flags().BoolVar(&importantFlagJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(importantCmd)
}

// loadOrScanTree returns a tree context backed by the saved record, or a
// fresh scan when no record exists (or rescan was requested).
func loadOrScanTree(args []string, rescan bool) (*filetree.TreeContext, error) {
	if rescan {
		_, tree, err := buildTree(args)
		return tree, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rec, err := storage.Load(cfg.TreePath())
	if err != nil {
		// No saved tree yet; fall back to a full scan.
		_, tree, serr := buildTree(args)
		return tree, serr
	}

	tree := filetree.NewTreeContext(rec.Config.ProjectRoot, cfg.Exclude)
	tree.Root = rec.FileTree
	return tree, nil
}

func runImportant(cmd *cobra.Command, args []string) error {
	tree, err := loadOrScanTree(args, importantFlagRescan)
	if err != nil {
		return err
	}

	files := tree.FindImportantFiles(importantFlagLimit, importantFlagMin)

	if importantFlagJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	renderImportantTable(tree, files)
	return nil
}
