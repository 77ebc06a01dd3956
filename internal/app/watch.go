package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/depscope/internal/config"
	"github.com/blackwell-systems/depscope/internal/filetree"
	"github.com/blackwell-systems/depscope/internal/storage"
	"github.com/blackwell-systems/depscope/internal/watcher"
)

var (
	watchDaemon   bool
	watchDebounce string
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Keep the graph live as files change",
	Long: `Watch scans the project, then monitors it for file creation, deletion,
and edits. Each change is applied to the in-memory graph incrementally and
the saved tree record is refreshed, so queries against the saved tree stay
current without rescanning.

Examples:
  depscope watch                  # run in foreground (ctrl-c to stop)
  depscope watch --daemon         # run in background, write PID file
  depscope watch --debounce 1s    # coalesce events for 1s (default: 300ms)
  depscope watch --stop           # stop the background daemon`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchDebounce, "debounce", "", "Event coalescing window as duration string (e.g. 500ms, 1s)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress per-change terminal output")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}

	cfg, tree, err := buildTree(args)
	if err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	if watchDebounce != "" {
		debounce, err = time.ParseDuration(watchDebounce)
		if err != nil {
			return fmt.Errorf("invalid debounce %q: %w", watchDebounce, err)
		}
	}

	if watchDaemon {
		return runDaemon(cfg, tree, debounce)
	}

	return runForeground(cfg, tree, debounce)
}

// saveTree refreshes the saved record after incremental updates.
func saveTree(cfg *config.Config, tree *filetree.TreeContext) {
	rec := storage.NewRecord(config.DefaultTreeName, cfg.BaseDirectory, cfg.ProjectRoot, tree.Root)
	if err := storage.Save(cfg.TreePath(), rec); err != nil {
		fmt.Fprintln(os.Stderr, "saving tree:", err)
	}
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(cfg *config.Config, tree *filetree.TreeContext, debounce time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	if !watchQuiet {
		stats := tree.ComputeStats()
		fmt.Printf("depscope watching %s (%d files, debounce %s)\n",
			cfg.ProjectRoot, stats.FileCount, debounce)
	}

	changeFn := func(c watcher.Change) {
		saveTree(cfg, tree)
		if !watchQuiet {
			printChange(c)
		}
	}

	w := watcher.New(tree, debounce, changeFn)

	err := w.Run(ctx)
	if err == context.Canceled {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon sets up PID and log files, then runs the watcher. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(cfg *config.Config, tree *filetree.TreeContext, debounce time.Duration) error {
	// Ensure config directory exists.
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	// Check for existing daemon.
	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		// Stale PID file, remove it.
		_ = os.Remove(pidFilePath())
	}

	// Write PID file.
	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	// Open log file for output.
	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	writeLog(logFile, "depscope daemon started (PID %d, watching %s, debounce %s)",
		pid, cfg.ProjectRoot, debounce)

	changeFn := func(c watcher.Change) {
		saveTree(cfg, tree)
		writeLog(logFile, "%s %s (applied=%t)", c.Op, c.Path, c.Applied)
	}

	w := watcher.New(tree, debounce, changeFn)

	err = w.Run(ctx)
	if err == context.Canceled {
		writeLog(logFile, "daemon stopped")
		return nil
	}
	return err
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// writeLog writes a timestamped line to the log file.
func writeLog(f *os.File, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(f, "[%s] %s\n", timestamp, msg)
}

// printChange formats one incremental update for the terminal.
func printChange(c watcher.Change) {
	marker := "\xe2\x9c\x93" // check mark
	if !c.Applied {
		marker = "-"
	}
	fmt.Printf("[%s] %s %-7s %s\n", c.Time.Format("15:04:05"), marker, c.Op, c.Path)
}
