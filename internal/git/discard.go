package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nbarena/undiff/internal/diff"
)

// DiscardFileChanges reverts every working-tree change to a single
// file: tracked files are restored to their last-committed content,
// untracked files are deleted.
func DiscardFileChanges(ctx context.Context, repoPath, path string) error {
	tracked, err := IsTracked(ctx, repoPath, path)
	if err != nil {
		return err
	}

	if tracked {
		_, err := RunCtx(ctx, repoPath, "checkout", "HEAD", "--", path)
		return err
	}
	if ExistsInWorktree(repoPath, path) {
		return os.Remove(filepath.Join(repoPath, path))
	}
	return fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

// DiscardHunkChanges reverts exactly one hunk of a tracked file and
// reapplies every other hunk verbatim. The hunk passed in is a hint
// from an earlier snapshot: it is matched against the freshly-fetched
// diff by its (OldStart, NewStart) pair, and a missing match is an
// explicit failure rather than a guess.
//
// The restore-from-HEAD and reapply steps are not atomic. A crash in
// between leaves the file fully restored with no hunks reapplied;
// callers recover by re-reading the current diff.
func DiscardHunkChanges(ctx context.Context, repoPath, path string, target diff.Hunk) error {
	tracked, err := IsTracked(ctx, repoPath, path)
	if err != nil {
		return err
	}
	if !tracked {
		return fmt.Errorf("%w: %s", ErrUntrackedFile, path)
	}

	// Snapshot the current diff before any mutation; the file may have
	// changed since the caller's copy was taken.
	fds, err := GetUncommittedDiff(ctx, repoPath, path)
	if err != nil {
		return err
	}
	fd := findFileDiff(fds, path)
	if fd == nil || len(fd.Hunks) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChanges, path)
	}

	var keep []diff.Hunk
	found := false
	for _, h := range fd.Hunks {
		if !found && h.SameRange(target) {
			found = true
			continue
		}
		keep = append(keep, h)
	}
	if !found {
		return fmt.Errorf("%w: hunk @@ -%d +%d @@ not in current diff of %s",
			ErrNoChanges, target.OldStart, target.NewStart, path)
	}

	// Restore from HEAD, wiping all working-tree changes, then reapply
	// the kept hunks.
	if _, err := RunCtx(ctx, repoPath, "checkout", "HEAD", "--", path); err != nil {
		return err
	}
	if len(keep) == 0 {
		// The file is now fully clean; a legitimate terminal state.
		return nil
	}

	patch := BuildPatch(*fd, keep)
	if _, err := RunInputCtx(ctx, repoPath, patch, "apply", "--whitespace=nowarn", "-"); err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) {
			return &PatchError{Stderr: gitErr.Stderr, Err: err}
		}
		return &PatchError{Stderr: err.Error(), Err: err}
	}
	return nil
}

// DiscardLineChanges reverts an arbitrary subset of a tracked file's
// changed lines. The result is built by copying the HEAD content and
// replaying every change of the current diff in order, applying the
// kept ones and skipping the discarded ones.
func DiscardLineChanges(ctx context.Context, repoPath, path string, lines []diff.DiscardLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no lines requested for %s", ErrNoChanges, path)
	}

	tracked, err := IsTracked(ctx, repoPath, path)
	if err != nil {
		return err
	}
	if !tracked {
		return fmt.Errorf("%w: %s", ErrUntrackedFile, path)
	}

	fds, err := GetUncommittedDiff(ctx, repoPath, path)
	if err != nil {
		return err
	}
	fd := findFileDiff(fds, path)
	if fd == nil || len(fd.Hunks) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChanges, path)
	}

	head, err := GetFileContent(ctx, repoPath, path, "HEAD")
	if err != nil {
		return err
	}

	discard := make(map[string]bool, len(lines))
	for _, l := range lines {
		discard[discardKey(l.LineNumber, l.Kind)] = true
	}

	result := replayChanges(strings.Split(head, "\n"), fd.Hunks, discard)
	return writeWorktreeFile(repoPath, path, strings.Join(result, "\n"))
}

// replayChanges applies the kept subset of changes onto the HEAD lines.
//
// Deletions index into old-file coordinates, so their positions shift
// by the net lines the kept changes have inserted so far. Insertions
// index into new-file coordinates, which already account for every
// change in the diff, so their positions shift only by the changes that
// were skipped. Getting either shift wrong silently corrupts files,
// hence the interleaved-sequence tests.
func replayChanges(buf []string, hunks []diff.Hunk, discard map[string]bool) []string {
	keptShift := 0    // net insertions applied, corrects old-file indexes
	skippedShift := 0 // net insertions skipped, corrects new-file indexes

	for _, hunk := range hunks {
		for _, c := range hunk.Changes {
			// Stray "no newline" markers are bookkeeping, not content.
			if strings.HasPrefix(c.Content, `\ No newline`) {
				continue
			}

			switch c.Kind {
			case diff.ChangeAdd:
				if discard[discardKey(c.LineNumber(), c.Kind)] {
					// The addition never happened.
					skippedShift--
					continue
				}
				buf = insertLine(buf, c.NewLine-1+skippedShift, c.Content)
				keptShift++

			case diff.ChangeDel:
				if discard[discardKey(c.LineNumber(), c.Kind)] {
					// The deletion is itself discarded; the HEAD line
					// already in the buffer stays.
					skippedShift++
					continue
				}
				buf = removeLine(buf, c.OldLine-1+keptShift)
				keptShift--
			}
			// Normal lines are already present from the HEAD copy.
		}
	}
	return buf
}

// RestoreDeletedFile recreates a file the working tree has deleted
// while HEAD still has it.
func RestoreDeletedFile(ctx context.Context, repoPath, path string) error {
	if _, err := RunCtx(ctx, repoPath, "checkout", "HEAD", "--", path); err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) && strings.Contains(gitErr.Stderr, "did not match") {
			return fmt.Errorf("%w: %s at HEAD", ErrFileNotFound, path)
		}
		return err
	}
	return nil
}

func discardKey(lineNumber int, kind diff.ChangeKind) string {
	return fmt.Sprintf("%d-%s", lineNumber, kind)
}

// findFileDiff returns the diff entry matching path, or nil. No
// fallback: guessing another file's diff would discard the wrong lines.
func findFileDiff(fds []diff.FileDiff, path string) *diff.FileDiff {
	for i := range fds {
		if fds[i].Path() == path {
			return &fds[i]
		}
	}
	return nil
}

func insertLine(buf []string, idx int, content string) []string {
	if idx < 0 {
		idx = 0
	}
	if idx > len(buf) {
		idx = len(buf)
	}
	return slices.Insert(buf, idx, content)
}

func removeLine(buf []string, idx int) []string {
	if idx < 0 || idx >= len(buf) {
		return buf
	}
	return slices.Delete(buf, idx, idx+1)
}

func writeWorktreeFile(repoPath, path, content string) error {
	fullPath := filepath.Join(repoPath, path)
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(fullPath); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(fullPath, []byte(content), mode)
}
