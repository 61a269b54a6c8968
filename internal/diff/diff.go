// Package diff models unified diffs as structured data: files, hunks,
// and individual line changes with both old and new line numbers.
package diff

// ChangeKind identifies the kind of a single diff line.
type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeDel    ChangeKind = "del"
	ChangeNormal ChangeKind = "normal"
)

// Change is a single emitted line of a hunk. Add changes carry NewLine
// only, del changes carry OldLine only, normal (context) lines carry
// both. A zero line number means "not present on that side".
type Change struct {
	Kind       ChangeKind
	OldLine    int
	NewLine    int
	Content    string
	NoNewline  bool // the line is not terminated by \n in its file
	IsConflict bool // content is or contains a merge conflict marker
}

// LineNumber returns the line number callers key discards on: the old
// line for deletions and context, otherwise the new line.
func (c Change) LineNumber() int {
	if c.OldLine > 0 {
		return c.OldLine
	}
	if c.NewLine > 0 {
		return c.NewLine
	}
	return 0
}

// Hunk is a contiguous block of context and changed lines. Two hunks in
// the same file never share both OldStart and NewStart, so that pair is
// the hunk's identity for discard purposes.
type Hunk struct {
	OldStart     int
	OldLines     int
	NewStart     int
	NewLines     int
	Changes      []Change
	HasConflicts bool
}

// SameRange reports whether two hunks share the (OldStart, NewStart)
// identity pair.
func (h Hunk) SameRange(other Hunk) bool {
	return h.OldStart == other.OldStart && h.NewStart == other.NewStart
}

// FileDiff is one file's full diff for a given comparison.
type FileDiff struct {
	From         string // old path, empty for new files
	To           string // new path, empty for deleted files
	Hunks        []Hunk
	Additions    int
	Deletions    int
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	HasConflicts bool
}

// Path returns the path the file has in the working tree.
func (f FileDiff) Path() string {
	if f.To != "" {
		return f.To
	}
	return f.From
}

// DiscardLine identifies one emitted change to revert. It must match a
// Change's (LineNumber, Kind) pair in the current diff.
type DiscardLine struct {
	LineNumber int
	Kind       ChangeKind
}
