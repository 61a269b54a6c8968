package git

import (
	"context"
	"testing"

	"github.com/nbarena/undiff/internal/diff"
)

func TestBuildPatch(t *testing.T) {
	fd := diff.FileDiff{
		From: "file.txt",
		To:   "file.txt",
		Hunks: []diff.Hunk{
			{
				OldStart: 1, OldLines: 3, NewStart: 1, NewLines: 4,
				Changes: []diff.Change{
					{Kind: diff.ChangeNormal, OldLine: 1, NewLine: 1, Content: "one"},
					{Kind: diff.ChangeDel, OldLine: 2, Content: "two"},
					{Kind: diff.ChangeAdd, NewLine: 2, Content: "two!"},
					{Kind: diff.ChangeNormal, OldLine: 3, NewLine: 3, Content: "three"},
					{Kind: diff.ChangeAdd, NewLine: 4, Content: "four"},
				},
			},
			{
				OldStart: 10, OldLines: 1, NewStart: 11, NewLines: 1,
				Changes: []diff.Change{
					{Kind: diff.ChangeDel, OldLine: 10, Content: "ten"},
					{Kind: diff.ChangeAdd, NewLine: 11, Content: "ten!"},
				},
			},
		},
	}

	got := BuildPatch(fd, fd.Hunks[1:])
	want := `diff --git a/file.txt b/file.txt
--- a/file.txt
+++ b/file.txt
@@ -10,1 +11,1 @@
-ten
+ten!
`
	if got != want {
		t.Errorf("BuildPatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildPatchRecomputesCounts(t *testing.T) {
	// Header counts come from the changes, not the stored values, so a
	// hunk whose recorded counts drifted still produces a patch git
	// accepts.
	hunk := diff.Hunk{
		OldStart: 5, OldLines: 99, NewStart: 5, NewLines: 99,
		Changes: []diff.Change{
			{Kind: diff.ChangeNormal, OldLine: 5, NewLine: 5, Content: "ctx"},
			{Kind: diff.ChangeAdd, NewLine: 6, Content: "added"},
		},
	}
	fd := diff.FileDiff{From: "f", To: "f", Hunks: []diff.Hunk{hunk}}

	got := BuildPatch(fd, fd.Hunks)
	want := `diff --git a/f b/f
--- a/f
+++ b/f
@@ -5,1 +5,2 @@
 ctx
+added
`
	if got != want {
		t.Errorf("BuildPatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildPatchNoNewline(t *testing.T) {
	fd := diff.FileDiff{
		From: "f", To: "f",
		Hunks: []diff.Hunk{{
			OldStart: 1, NewStart: 1,
			Changes: []diff.Change{
				{Kind: diff.ChangeDel, OldLine: 1, Content: "old"},
				{Kind: diff.ChangeAdd, NewLine: 1, Content: "new", NoNewline: true},
			},
		}},
	}

	got := BuildPatch(fd, fd.Hunks)
	want := `diff --git a/f b/f
--- a/f
+++ b/f
@@ -1,1 +1,1 @@
-old
+new
\ No newline at end of file
`
	if got != want {
		t.Errorf("BuildPatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildPatchNewFileHeaders(t *testing.T) {
	fd := diff.FileDiff{
		To:    "fresh.txt",
		IsNew: true,
		Hunks: []diff.Hunk{{
			OldStart: 0, NewStart: 1,
			Changes: []diff.Change{{Kind: diff.ChangeAdd, NewLine: 1, Content: "alpha"}},
		}},
	}

	got := BuildPatch(fd, fd.Hunks)
	want := `diff --git a/fresh.txt b/fresh.txt
--- /dev/null
+++ b/fresh.txt
@@ -0,0 +1,1 @@
+alpha
`
	if got != want {
		t.Errorf("BuildPatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildPatchAppliesCleanly(t *testing.T) {
	skipIfNoGit(t)
	ctx := context.Background()
	root := initRepo(t)

	head := numberedLines(20)
	commitFile(t, root, "a.txt", head, "add a.txt")

	modified := replaceLine(head, 2, "line 2 changed")
	modified = replaceLine(modified, 18, "line 18 changed")
	writeFile(t, root, "a.txt", modified)

	fds, err := GetUncommittedDiff(ctx, root, "a.txt")
	if err != nil || len(fds) != 1 {
		t.Fatalf("setup diff failed: %v %+v", err, fds)
	}

	// Rebuild the full patch from the structured model and reapply it
	// onto a clean checkout: the working tree must round-trip.
	patch := BuildPatch(fds[0], fds[0].Hunks)
	runGit(t, root, "checkout", "HEAD", "--", "a.txt")
	if _, err := RunInputCtx(ctx, root, patch, "apply", "--whitespace=nowarn", "-"); err != nil {
		t.Fatalf("git apply rejected rebuilt patch: %v\n%s", err, patch)
	}

	if got := readFile(t, root, "a.txt"); got != modified {
		t.Errorf("round-trip content mismatch:\n%q\nwant:\n%q", got, modified)
	}
}
