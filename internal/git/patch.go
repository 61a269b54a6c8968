package git

import (
	"fmt"
	"strings"

	"github.com/nbarena/undiff/internal/diff"
)

// BuildPatch renders a minimal unified-diff patch containing only the
// given hunks of one file, valid for `git apply`. The patch text is
// emitted straight from the structured model rather than sliced out of
// the raw diff, so no second raw-text fetch is needed.
//
// Hunk headers keep their original start positions but recompute the
// line counts from the changes, guaranteeing header/body consistency.
// New-side starts may be stale once earlier hunks are dropped; git
// apply treats them as hints and anchors on the old side.
func BuildPatch(fd diff.FileDiff, keep []diff.Hunk) string {
	var b strings.Builder

	oldPath := fd.From
	if oldPath == "" {
		oldPath = fd.To
	}
	newPath := fd.To
	if newPath == "" {
		newPath = fd.From
	}

	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", oldPath, newPath)
	if fd.IsNew {
		b.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(&b, "--- a/%s\n", oldPath)
	}
	if fd.IsDeleted {
		b.WriteString("+++ /dev/null\n")
	} else {
		fmt.Fprintf(&b, "+++ b/%s\n", newPath)
	}

	for _, hunk := range keep {
		writeHunk(&b, hunk)
	}
	return b.String()
}

func writeHunk(b *strings.Builder, hunk diff.Hunk) {
	oldLines, newLines := 0, 0
	for _, c := range hunk.Changes {
		switch c.Kind {
		case diff.ChangeAdd:
			newLines++
		case diff.ChangeDel:
			oldLines++
		default:
			oldLines++
			newLines++
		}
	}

	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, oldLines, hunk.NewStart, newLines)

	for _, c := range hunk.Changes {
		switch c.Kind {
		case diff.ChangeAdd:
			b.WriteByte('+')
		case diff.ChangeDel:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(c.Content)
		b.WriteByte('\n')
		if c.NoNewline {
			b.WriteString("\\ No newline at end of file\n")
		}
	}
}
