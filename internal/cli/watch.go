package cli

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/buildmind/buildmind/internal/scanner"
	"github.com/buildmind/buildmind/internal/store"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the project for file changes and auto-reindex",
		Long: `Start a long-running watcher that monitors the project directory for file
changes (create, modify, delete) and incrementally updates the code
structure index.

Changes are debounced so that rapid edits (e.g. saving multiple files at
once) are batched into a single re-index pass.

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}

			log := newLogger(false)
			defer func() { _ = log.Sync() }()

			database, contextStore, err := openStore(root, log)
			if err != nil {
				return err
			}
			defer database.Close()

			projectID := projectIDFor(root)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			ignore := scanner.NewIgnoreMatcher(root)

			if err := addWatchDirs(watcher, root, ignore); err != nil {
				return fmt.Errorf("add watch directories: %w", err)
			}

			debounce := time.Duration(debounceMs) * time.Millisecond
			fmt.Printf("Watching %s for changes (debounce %s). Press Ctrl-C to stop.\n", root, debounce)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			pending := make(map[string]fsnotify.Op)
			timer := time.NewTimer(debounce)
			timer.Stop() // Don't fire immediately.

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}

					rel, err := filepath.Rel(root, event.Name)
					if err != nil || rel == "." {
						continue
					}

					if shouldIgnoreEvent(rel, ignore) {
						continue
					}

					// If a new directory was created, start watching it.
					if event.Has(fsnotify.Create) {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							if !scanner.HardIgnore(filepath.Base(event.Name)) {
								_ = watcher.Add(event.Name)
							}
							continue
						}
					}

					if scanner.SkipFile(filepath.Base(rel)) {
						continue
					}

					pending[rel] = event.Op
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					if len(pending) == 0 {
						continue
					}
					batch := pending
					pending = make(map[string]fsnotify.Op)

					processChanges(root, projectID, batch, contextStore, ignore)
				}
			}
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "debounce interval in milliseconds")

	return cmd
}

// addWatchDirs recursively adds directories to the watcher, skipping ignored ones.
func addWatchDirs(watcher *fsnotify.Watcher, root string, ignore *scanner.IgnoreMatcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if scanner.HardIgnore(d.Name()) {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		if rel != "." && ignore.Match(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnoreEvent checks whether a relative path should be ignored by the watcher.
func shouldIgnoreEvent(rel string, ignore *scanner.IgnoreMatcher) bool {
	for _, p := range strings.Split(rel, string(filepath.Separator)) {
		if scanner.HardIgnore(p) {
			return true
		}
	}
	return ignore.Match(rel)
}

// processChanges handles a batch of file change events, merging changed
// files into the stored structure index.
func processChanges(root, projectID string, batch map[string]fsnotify.Op, contextStore *store.ContextStore, ignore *scanner.IgnoreMatcher) {
	var indexed, removed int
	cs := contextStore.CodeStructure(projectID)

	for rel, op := range batch {
		absPath := filepath.Join(root, rel)

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			if _, err := os.Stat(absPath); os.IsNotExist(err) {
				if _, ok := cs.Imports[rel]; ok {
					delete(cs.Imports, rel)
					removed++
				}
				continue
			}
		}

		sf, content, err := scanner.ScanFile(root, rel, ignore)
		if err != nil || sf == nil {
			continue
		}

		cs.MergeFile(rel, content)
		indexed++
	}

	if indexed+removed == 0 {
		return
	}

	contextStore.SetCodeStructure(projectID, cs)

	ts := time.Now().Format("15:04:05")
	fmt.Printf("[%s] ~%d -%d (%s)\n", ts, indexed, removed, cs.Summary())
}
