package git

import "errors"

// Sentinel errors surfaced by the discard engine. All are propagated to
// callers unmodified; nothing is retried automatically, since retrying
// a half-applied discard could double-apply a reversal.
var (
	// ErrNotARepository is returned when the given path is not inside a
	// git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrFileNotFound is returned when a file is present in neither the
	// tracked set nor the working tree.
	ErrFileNotFound = errors.New("file not found")

	// ErrUntrackedFile is returned for hunk- or line-level discards on
	// untracked files. They have no committed baseline to reconstruct
	// around; discard the whole file instead.
	ErrUntrackedFile = errors.New("file is untracked: discard the whole file instead")

	// ErrNoChanges is returned when a discard is requested but the
	// freshly-fetched diff has nothing matching it.
	ErrNoChanges = errors.New("no changes found")
)

// GitError wraps git command failures with the command and its stderr.
type GitError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *GitError) Error() string {
	return "git " + e.Command + ": " + e.Stderr
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// PatchError is returned when git rejects a reconstructed patch. The
// tool's stderr is carried verbatim: a context mismatch here means the
// restore+reapply steps operated on an inconsistent snapshot, which the
// caller needs to see, not have swallowed.
type PatchError struct {
	Stderr string
	Err    error
}

func (e *PatchError) Error() string {
	return "patch application failed: " + e.Stderr
}

func (e *PatchError) Unwrap() error {
	return e.Err
}
