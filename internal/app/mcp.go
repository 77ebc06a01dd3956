package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/config"
	"github.com/blackwell-systems/depscope/internal/filetree"
	"github.com/blackwell-systems/depscope/internal/mcp"
	"github.com/blackwell-systems/depscope/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Run an MCP stdio server over the graph",
	Long: `Start a Model Context Protocol stdio server exposing the dependency
graph as tools: scanning, importance queries, incremental updates, file
summaries, and diagram generation.

Add to your agent's MCP configuration:
  {"mcpServers":{"depscope":{"command":"depscope","args":["mcp"]}}}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving project root: %w", err)
		}
		cfg.ProjectRoot = abs
	}

	tree := filetree.NewTreeContext(cfg.ProjectRoot, cfg.Exclude)
	if cfg.SDKPackage != "" {
		tree.SDKPackage = cfg.SDKPackage
	}

	// Resume from the last saved tree when one exists; clients can always
	// rebuild with create_file_tree.
	if rec, err := storage.Load(cfg.TreePath()); err == nil &&
		filetree.NormalizePath(rec.Config.ProjectRoot) == tree.ProjectRoot {
		tree.Root = rec.FileTree
	}

	srv := mcp.NewServer(cfg, tree)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
