package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchRegistry watches the git metadata of registered repositories
// (index, HEAD ref, refs directory) and reports "something changed,
// re-fetch the diff" per root. It is an explicit registry rather than
// process-wide state: multiple roots can be watched and released
// independently.
//
// The registry watches directories, not individual files, because git
// updates the index and refs atomically (write temp file, then rename).
// fsnotify watches inodes, so a watch on the index file itself is lost
// on the first update.
type WatchRegistry struct {
	mu sync.Mutex

	watcher    *fsnotify.Watcher
	targets    map[string][]string // root -> watched metadata paths
	onChanged  func(root string)
	closeOnce  sync.Once
	debounce   time.Duration
	lastChange map[string]time.Time
}

// NewWatchRegistry creates an empty registry. onChanged is invoked from
// the Run goroutine, debounced per root.
func NewWatchRegistry(onChanged func(root string)) (*WatchRegistry, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &WatchRegistry{
		watcher:    watcher,
		targets:    make(map[string][]string),
		onChanged:  onChanged,
		debounce:   500 * time.Millisecond,
		lastChange: make(map[string]time.Time),
	}, nil
}

// Watch registers a repository root. Idempotent.
func (r *WatchRegistry) Watch(root string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[root]; ok {
		return nil
	}

	gitDir, err := resolveGitDir(root)
	if err != nil {
		return err
	}

	// The gitdir itself covers index and HEAD; refs/heads covers branch
	// tip updates, which land in a subdirectory the top watch misses.
	candidates := []string{
		gitDir,
		filepath.Join(gitDir, "refs"),
		filepath.Join(gitDir, "refs", "heads"),
	}

	var watched []string
	for _, p := range candidates {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			continue
		}
		if err := r.watcher.Add(p); err != nil {
			continue
		}
		watched = append(watched, p)
	}
	if len(watched) == 0 {
		return fmt.Errorf("no watchable git metadata under %s", root)
	}

	r.targets[root] = watched
	return nil
}

// Unwatch releases a repository root. Safe to call for unknown roots.
func (r *WatchRegistry) Unwatch(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.targets[root] {
		_ = r.watcher.Remove(p)
	}
	delete(r.targets, root)
	delete(r.lastChange, root)
}

// IsWatching reports whether a root is registered.
func (r *WatchRegistry) IsWatching(root string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.targets[root]
	return ok
}

// Run processes file system events until the context is canceled or the
// watcher closes.
func (r *WatchRegistry) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}

			root := r.findRoot(event.Name)
			if root == "" {
				continue
			}

			// Git writes metadata in bursts; collapse them.
			r.mu.Lock()
			if last, ok := r.lastChange[root]; ok && time.Since(last) < r.debounce {
				r.mu.Unlock()
				continue
			}
			r.lastChange[root] = time.Now()
			r.mu.Unlock()

			if r.onChanged != nil {
				r.onChanged(root)
			}

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// Close stops the registry and releases watcher resources.
func (r *WatchRegistry) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.watcher.Close()
	})
	return err
}

// findRoot maps an event path back to the registered root whose
// metadata contains it.
func (r *WatchRegistry) findRoot(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sep := string(filepath.Separator)
	for root, targets := range r.targets {
		for _, target := range targets {
			if path == target || strings.HasPrefix(path, target+sep) {
				return root
			}
		}
	}
	return ""
}

// resolveGitDir locates the metadata directory for a root: .git itself
// for a normal checkout, or the directory a worktree's .git file points
// at.
func resolveGitDir(root string) (string, error) {
	gitPath := filepath.Join(root, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return gitPath, nil
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}

	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("invalid gitdir file: %s", gitPath)
	}

	gitDir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if gitDir == "" {
		return "", fmt.Errorf("invalid gitdir file: %s", gitPath)
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}
	return filepath.Clean(gitDir), nil
}
