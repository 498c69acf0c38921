package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	staticpub "github.com/alnah/go-staticpub"
	"github.com/alnah/go-staticpub/internal/logger"
)

// watchDebounce collapses editor save bursts (write + chmod + rename)
// into a single rebuild.
const watchDebounce = 250 * time.Millisecond

// watchAndRebuild watches the entries directory and rebuilds after each
// change burst. A failed rebuild is reported and watching continues; the
// previous output stays on disk. onRebuild, if set, runs after every
// successful rebuild. Returns when ctx is canceled or the watcher dies.
func watchAndRebuild(ctx context.Context, gen *staticpub.Generator, cfg *staticpub.Config, env *Environment, quiet bool, onRebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, cfg.Paths.Entries); err != nil {
		return err
	}
	if p := cfg.Instance.FeaturedNote; p != "" {
		// Editors replace files atomically, so watch the parent directory
		// rather than the featured note itself.
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			logger.Warn("cannot watch featured note directory: %v", err)
		}
	}
	logger.Info("watching %s", cfg.Paths.Entries)

	// The timer starts disarmed; events arm it.
	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New subdirectories must be watched explicitly; fsnotify
			// does not recurse.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := addWatchTree(watcher, event.Name); addErr != nil {
						logger.Warn("cannot watch %s: %v", event.Name, addErr)
					}
				}
			}
			logger.Debug("change: %s %s", event.Op, event.Name)
			debounce.Reset(watchDebounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", watchErr)

		case <-debounce.C:
			result, buildErr := gen.Generate(ctx)
			if buildErr != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fmt.Fprintln(env.Stderr, buildErr)
				continue
			}
			if !quiet {
				fmt.Fprintf(env.Stdout, "Rebuilt %d files (%d notes)\n", len(result.Files), result.Notes)
			}
			if onRebuild != nil {
				onRebuild()
			}
		}
	}
}

// addWatchTree registers dir and every subdirectory with the watcher.
func addWatchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
