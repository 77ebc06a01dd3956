package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/config"
	"github.com/blackwell-systems/depscope/internal/output"
	"github.com/blackwell-systems/depscope/internal/store"
)

var historyFlagJSON bool

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "Compare the two most recent scans",
	Long: `History reads the scan snapshot database and shows how the graph
changed between the two most recent scans of a project: file count,
dependency edges, package dependencies, and importance trends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyFlagJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	root := cfg.ProjectRoot
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return err
	}

	diff, err := db.DiffLatest(abs)
	if err != nil {
		return fmt.Errorf("need at least two scans of %s: %w", abs, err)
	}

	if historyFlagJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	renderDiff(diff)
	return nil
}

func renderDiff(diff *store.ScanDiff) {
	fmt.Println(output.Section("Scan History: " + diff.Current.ProjectRoot))
	fmt.Println()
	fmt.Printf(" %s  vs  %s\n",
		output.StyleMuted.Render(diff.Previous.TakenAt.Format("2006-01-02 15:04")),
		output.StyleBold.Render(diff.Current.TakenAt.Format("2006-01-02 15:04")))
	fmt.Println()

	tbl := output.NewTable("Metric", "Previous", "Current", "Trend").AlignRight(1, 2)
	for _, d := range diff.Deltas {
		tbl.AddRow(
			d.Name,
			formatMetric(d.Previous),
			formatMetric(d.Current),
			output.TrendArrow(d.Delta, true),
		)
	}
	tbl.Print()
}

// formatMetric trims trailing zeros so counts read as integers.
func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
