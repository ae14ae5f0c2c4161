package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-fanout-go/internal/config"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on file changes.
func newWatchCmd() *cobra.Command {
	var (
		flags        pipelineFlags
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Auto-rebuild when the names or config file changes",
		Long: `Watch monitors the names file and the config file and rebuilds the
bundle on every change. Rapid changes are debounced. Each rebuild stamps a
new revision timestamp.

Examples:
    wetwire-fanout watch -o bundle.yaml
    wetwire-fanout watch --names BUCKETS --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, &flags, watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format for build: yaml or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the input files and rebuilds on changes.
func runWatch(cmd *cobra.Command, flags *pipelineFlags, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	files := watchedFiles(flags)

	// Editors replace files on save, so watch the parent directories and
	// filter events by name.
	for _, dir := range watchedDirs(files) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	for file := range files {
		fmt.Fprintf(os.Stderr, "Watching: %s\n", file)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rebuild := func() {
		if err := runBuild(cmd, flags, opts.outputFormat, opts.outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		}
	}

	fmt.Fprintln(os.Stderr, "Running initial build...")
	rebuild()

	// Debounce timer
	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Fprintln(os.Stderr, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !shouldRebuild(event, files) {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(os.Stderr, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nStopping watch...")
			return nil
		}
	}
}

// watchedFiles returns the absolute paths of the names and config files.
func watchedFiles(flags *pipelineFlags) map[string]bool {
	files := map[string]bool{}
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			files[abs] = true
		}
	}
	add(flags.namesFile)
	if flags.configFile != "" {
		add(flags.configFile)
	} else {
		add(config.DefaultPath)
	}
	return files
}

func watchedDirs(files map[string]bool) []string {
	seen := map[string]bool{}
	var dirs []string
	for f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// shouldRebuild reports whether event writes, creates or renames one of
// the watched files.
func shouldRebuild(event fsnotify.Event, files map[string]bool) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return files[abs]
}
