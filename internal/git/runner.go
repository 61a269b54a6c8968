// Package git runs the git binary and builds the diff/discard engine on
// top of it: diff queries, the selective-discard operations, patch
// reconstruction, and a repository watcher registry.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const defaultGitTimeout = 15 * time.Second

// Run executes a git command in the specified directory.
func Run(dir string, args ...string) (string, error) {
	return RunCtx(context.Background(), dir, args...)
}

// RunCtx executes a git command in the specified directory with
// context. Output is whitespace-trimmed, which suits rev-parse and
// ls-files style queries; diff and show output must go through
// RunRawCtx or RunAllowFailureCtx instead.
func RunCtx(ctx context.Context, dir string, args ...string) (string, error) {
	return RunInputCtx(ctx, dir, "", args...)
}

// RunInputCtx executes a git command feeding stdin from input. Used for
// commands like `git apply -` that consume a patch from stdin.
func RunInputCtx(ctx context.Context, dir, input string, args ...string) (string, error) {
	ctx, cancel := ensureGitTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = filteredGitEnv()
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		if stderr.Len() > 0 {
			return "", &GitError{
				Command: strings.Join(args, " "),
				Stderr:  stderr.String(),
				Err:     err,
			}
		}
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RunAllowFailureCtx executes git and returns stdout even if the exit
// code is non-zero. Use for commands like `git diff --no-index` which
// return 1 when differences exist. Output comes back untrimmed: diff
// text is whitespace-significant (a blank context line is a lone space,
// and the final newline distinguishes a terminated last line).
func RunAllowFailureCtx(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := ensureGitTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = filteredGitEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run() // some commands return 1 on success
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
	}

	// Stderr with no stdout indicates an actual failure rather than an
	// exit-1-with-output command.
	if stderr.Len() > 0 && stdout.Len() == 0 {
		return "", &GitError{
			Command: strings.Join(args, " "),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// RunRawCtx executes a git command and returns raw bytes without
// trimming. Use for content reads (`git show`) where whitespace is
// significant.
func RunRawCtx(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := ensureGitTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = filteredGitEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		if stderr.Len() > 0 {
			return nil, &GitError{
				Command: strings.Join(args, " "),
				Stderr:  stderr.String(),
				Err:     err,
			}
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// IsRepository checks if the given path is inside a git repository.
func IsRepository(path string) bool {
	_, err := RunCtx(context.Background(), path, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the git repository.
func RepoRoot(path string) (string, error) {
	root, err := RunCtx(context.Background(), path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotARepository, path)
	}
	return root, nil
}

func ensureGitTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultGitTimeout)
}

func filteredGitEnv() []string {
	// Filter out GIT_ environment variables so commands run against the
	// target repo even when invoked from inside hooks.
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "GIT_DIR=") &&
			!strings.HasPrefix(e, "GIT_WORK_TREE=") &&
			!strings.HasPrefix(e, "GIT_INDEX_FILE=") {
			env = append(env, e)
		}
	}
	return env
}
