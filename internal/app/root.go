// Package app contains the Cobra command tree for depscope.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "depscope",
	Short: "Dependency graph analysis for source trees",
	Long: `depscope scans a project tree, extracts import relationships across
JavaScript, TypeScript, Python, C, Rust, Lua, and Zig sources, and scores
every file by structural importance. The graph can be queried from the
command line, rendered as a Mermaid diagram, kept live with a filesystem
watcher, or served to agents over MCP.

Run 'depscope scan' to build the graph for the current directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			output.SetNoColor(true)
			return
		}
		output.AutoColor(false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("depscope", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  scan       Scan a project and build its dependency graph")
		fmt.Println("  important  List the highest-importance files")
		fmt.Println("  diagram    Render the graph as a Mermaid diagram")
		fmt.Println("  history    Compare the two most recent scans")
		fmt.Println("  watch      Keep the graph live as files change")
		fmt.Println("  mcp        Run an MCP stdio server over the graph")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/depscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
