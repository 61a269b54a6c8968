package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileStatus is one entry of `git status --porcelain`.
type FileStatus struct {
	Code string // two-character status code (e.g. "M ", " M", "??", "A ")
	Path string // path relative to the repo root
}

// StatusResult holds the parsed repository status.
type StatusResult struct {
	Files []FileStatus
	Clean bool
}

// GetStatus returns the porcelain status for a repository. The output
// must not be whitespace-trimmed: a leading space in the first line's
// two-character code is significant.
func GetStatus(ctx context.Context, repoPath string) (*StatusResult, error) {
	output, err := RunRawCtx(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseStatus(string(output)), nil
}

func parseStatus(output string) *StatusResult {
	result := &StatusResult{
		Files: []FileStatus{},
		Clean: true,
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 3 {
			continue
		}
		result.Clean = false
		result.Files = append(result.Files, FileStatus{
			Code: line[0:2],
			Path: strings.TrimSpace(line[3:]),
		})
	}
	return result
}

// IsModified checks if a file status represents a modification.
func (f *FileStatus) IsModified() bool {
	return f.Code[0] == 'M' || f.Code[1] == 'M'
}

// IsDeleted checks if a file status represents a deletion.
func (f *FileStatus) IsDeleted() bool {
	return f.Code[0] == 'D' || f.Code[1] == 'D'
}

// IsUntracked checks if a file is untracked.
func (f *FileStatus) IsUntracked() bool {
	return f.Code == "??"
}

// IsTracked reports whether the path is known to the index. Untracked
// files have no HEAD baseline, which restricts the discard operations
// that are legal on them.
func IsTracked(ctx context.Context, repoPath, path string) (bool, error) {
	output, err := RunCtx(ctx, repoPath, "ls-files", "--", path)
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// ListUntracked returns untracked (non-ignored) paths, optionally
// limited to a single path.
func ListUntracked(ctx context.Context, repoPath, path string) ([]string, error) {
	args := []string{"ls-files", "--others", "--exclude-standard"}
	if path != "" {
		args = append(args, "--", path)
	}
	output, err := RunCtx(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

// ExistsInWorktree checks whether the path exists on disk under the
// repository root.
func ExistsInWorktree(repoPath, path string) bool {
	_, err := os.Stat(filepath.Join(repoPath, path))
	return err == nil
}
