package diff

import (
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Parse turns raw unified-diff text into structured FileDiffs. File and
// hunk splitting is delegated to go-gitdiff; per-line numbers are
// reconstructed here with running counters because upstream parsers do
// not populate them reliably, especially for newly-created files.
func Parse(r io.Reader) ([]FileDiff, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, err
	}

	diffs := make([]FileDiff, 0, len(files))
	for _, f := range files {
		diffs = append(diffs, convertFile(f))
	}
	return diffs, nil
}

// ParseString is Parse over an in-memory diff.
func ParseString(raw string) ([]FileDiff, error) {
	return Parse(strings.NewReader(raw))
}

func convertFile(f *gitdiff.File) FileDiff {
	fd := FileDiff{
		From:      f.OldName,
		To:        f.NewName,
		Hunks:     []Hunk{},
		IsNew:     f.IsNew,
		IsDeleted: f.IsDelete,
	}
	if f.IsNew {
		fd.From = ""
	}
	if f.IsDelete {
		fd.To = ""
	}
	fd.IsRenamed = fd.From != fd.To && !fd.IsNew && !fd.IsDeleted

	for _, frag := range f.TextFragments {
		hunk := convertFragment(frag)
		fd.Additions += countKind(hunk.Changes, ChangeAdd)
		fd.Deletions += countKind(hunk.Changes, ChangeDel)
		if hunk.HasConflicts {
			fd.HasConflicts = true
		}
		fd.Hunks = append(fd.Hunks, hunk)
	}
	return fd
}

// convertFragment walks a hunk's lines with two running counters. The
// header may legitimately report 0 for a brand-new (or fully-deleted)
// side, hence the floor at 1.
func convertFragment(frag *gitdiff.TextFragment) Hunk {
	hunk := Hunk{
		OldStart: int(frag.OldPosition),
		OldLines: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewLines: int(frag.NewLines),
	}

	currentOld := hunk.OldStart
	if currentOld < 1 {
		currentOld = 1
	}
	currentNew := hunk.NewStart
	if currentNew < 1 {
		currentNew = 1
	}

	for _, l := range frag.Lines {
		change := Change{
			Content:   strings.TrimSuffix(l.Line, "\n"),
			NoNewline: l.NoEOL(),
		}

		switch l.Op {
		case gitdiff.OpAdd:
			change.Kind = ChangeAdd
			change.NewLine = currentNew
			currentNew++
		case gitdiff.OpDelete:
			change.Kind = ChangeDel
			change.OldLine = currentOld
			currentOld++
		default:
			change.Kind = ChangeNormal
			change.OldLine = currentOld
			change.NewLine = currentNew
			currentOld++
			currentNew++
		}

		if ContainsConflictToken(change.Content) {
			change.IsConflict = true
			hunk.HasConflicts = true
		}

		hunk.Changes = append(hunk.Changes, change)
	}
	return hunk
}

func countKind(changes []Change, kind ChangeKind) int {
	n := 0
	for _, c := range changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
