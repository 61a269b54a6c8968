package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/nbarena/undiff/internal/git"
	"github.com/nbarena/undiff/internal/logging"
	"github.com/nbarena/undiff/internal/ui"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("undiff %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	repo := flag.Arg(0)
	if repo == "" {
		repo = "."
	}
	repo, err := filepath.Abs(repo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !git.IsRepository(repo) {
		fmt.Fprintf(os.Stderr, "Error: %s is not a git repository\n", repo)
		os.Exit(1)
	}
	root, err := git.RepoRoot(repo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(root, logging.ParseLevel(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(root string, level logging.Level) error {
	if dir, err := os.UserCacheDir(); err == nil {
		if err := logging.Initialize(filepath.Join(dir, "undiff"), level); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
		}
	}
	defer logging.Close()

	logging.Info("Starting undiff in %s", root)

	p := tea.NewProgram(ui.New(root))

	registry, err := git.NewWatchRegistry(func(changed string) {
		p.Send(ui.RepoChangedMsg{Root: changed})
	})
	if err != nil {
		logging.Warn("file watching unavailable: %v", err)
	} else {
		defer registry.Close()
		if err := registry.Watch(root); err != nil {
			logging.Warn("could not watch %s: %v", root, err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error("watcher panic: %v", r)
				}
			}()
			if err := registry.Run(ctx); err != nil && ctx.Err() == nil {
				logging.Warn("watcher stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		logging.Error("exited with error: %v", err)
		return err
	}
	logging.Info("undiff shutdown complete")
	return nil
}
