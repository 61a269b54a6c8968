package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nbarena/undiff/internal/diff"
)

// DefaultContextLines is the context width used when the caller does
// not ask for a specific one.
const DefaultContextLines = 3

// GetDiff returns structured diffs for a ref-vs-ref comparison. Empty
// from/to fall back to git's defaults (index and working tree). An
// empty path diffs the whole repository.
func GetDiff(ctx context.Context, repoPath, from, to, path string, contextLines int) ([]diff.FileDiff, error) {
	if contextLines <= 0 {
		contextLines = DefaultContextLines
	}

	args := []string{"diff", "--no-color", "--no-ext-diff", "-U" + strconv.Itoa(contextLines)}
	if from != "" {
		args = append(args, from)
	}
	if to != "" {
		args = append(args, to)
	}
	if path != "" {
		args = append(args, "--", path)
	}

	// Diff text must stay untrimmed: blank context lines are a lone
	// space and the final newline carries end-of-file information.
	output, err := RunRawCtx(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return diff.ParseString(string(output))
}

// GetUncommittedDiff returns the working-tree-vs-HEAD diff, with
// untracked files diffed against an empty baseline so they surface as
// 100% additions.
func GetUncommittedDiff(ctx context.Context, repoPath, path string) ([]diff.FileDiff, error) {
	diffs, err := GetDiff(ctx, repoPath, "HEAD", "", path, DefaultContextLines)
	if err != nil {
		return nil, err
	}

	untracked, err := ListUntracked(ctx, repoPath, path)
	if err != nil {
		return nil, err
	}
	for _, p := range untracked {
		fd, err := diffUntracked(ctx, repoPath, p)
		if err != nil {
			return nil, err
		}
		if fd != nil {
			diffs = append(diffs, *fd)
		}
	}
	return diffs, nil
}

// GetStagedDiff returns the staged-vs-HEAD diff.
func GetStagedDiff(ctx context.Context, repoPath, path string) ([]diff.FileDiff, error) {
	args := []string{"diff", "--cached", "--no-color", "--no-ext-diff", "-U" + strconv.Itoa(DefaultContextLines)}
	if path != "" {
		args = append(args, "--", path)
	}
	output, err := RunRawCtx(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return diff.ParseString(string(output))
}

// GetConflictedFiles returns paths with unresolved merge conflicts.
func GetConflictedFiles(ctx context.Context, repoPath string) ([]string, error) {
	output, err := RunCtx(ctx, repoPath, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

// GetFileContent returns a file's content at the given ref (HEAD when
// empty). Content is returned untrimmed; trailing newlines matter to
// the discard engine.
func GetFileContent(ctx context.Context, repoPath, path, ref string) (string, error) {
	if ref == "" {
		ref = "HEAD"
	}
	output, err := RunRawCtx(ctx, repoPath, "show", ref+":"+path)
	if err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) && strings.Contains(gitErr.Stderr, "does not exist") {
			return "", fmt.Errorf("%w: %s at %s", ErrFileNotFound, path, ref)
		}
		return "", err
	}
	return string(output), nil
}

// diffUntracked diffs an untracked file against /dev/null. Binary files
// yield no hunks and are skipped.
func diffUntracked(ctx context.Context, repoPath, path string) (*diff.FileDiff, error) {
	fullPath := filepath.Join(repoPath, path)

	// --no-index returns exit code 1 when differences exist.
	output, err := RunAllowFailureCtx(ctx, repoPath,
		"diff", "--no-index", "--no-color", "--no-ext-diff", "--", "/dev/null", fullPath)
	if err != nil {
		return nil, err
	}
	if strings.Contains(output, "Binary files") {
		return nil, nil
	}

	fds, err := diff.ParseString(output)
	if err != nil {
		return nil, err
	}
	if len(fds) == 0 {
		return nil, nil
	}

	// The diff engine reports the absolute on-disk path (or nothing at
	// all) for untracked files; backfill the repo-relative one.
	fd := fds[0]
	fd.From = ""
	fd.To = path
	fd.IsNew = true
	fd.IsRenamed = false
	return &fd, nil
}
