package diff

import (
	"testing"
)

const modifiedFileDiff = `diff --git a/file.txt b/file.txt
index abc123..def456 100644
--- a/file.txt
+++ b/file.txt
@@ -1,3 +1,4 @@
 one
-two
+two!
 three
+four
`

func TestParseString(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantFiles     int
		wantHunks     int
		wantAdditions int
		wantDeletions int
		wantNew       bool
		wantDeleted   bool
		wantRenamed   bool
	}{
		{
			name:      "empty diff",
			raw:       "",
			wantFiles: 0,
		},
		{
			name:          "modified file",
			raw:           modifiedFileDiff,
			wantFiles:     1,
			wantHunks:     1,
			wantAdditions: 2,
			wantDeletions: 1,
		},
		{
			name: "new file",
			raw: `diff --git a/fresh.txt b/fresh.txt
new file mode 100644
index 0000000..3bd1f0e
--- /dev/null
+++ b/fresh.txt
@@ -0,0 +1,2 @@
+alpha
+beta
`,
			wantFiles:     1,
			wantHunks:     1,
			wantAdditions: 2,
			wantNew:       true,
		},
		{
			name: "deleted file",
			raw: `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index 3bd1f0e..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-alpha
-beta
`,
			wantFiles:     1,
			wantHunks:     1,
			wantDeletions: 2,
			wantDeleted:   true,
		},
		{
			name: "rename without content change",
			raw: `diff --git a/old.txt b/new.txt
similarity index 100%
rename from old.txt
rename to new.txt
`,
			wantFiles:   1,
			wantHunks:   0,
			wantRenamed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fds, err := ParseString(tt.raw)
			if err != nil {
				t.Fatalf("ParseString failed: %v", err)
			}
			if len(fds) != tt.wantFiles {
				t.Fatalf("files = %d, want %d", len(fds), tt.wantFiles)
			}
			if tt.wantFiles == 0 {
				return
			}

			fd := fds[0]
			if len(fd.Hunks) != tt.wantHunks {
				t.Errorf("hunks = %d, want %d", len(fd.Hunks), tt.wantHunks)
			}
			if fd.Additions != tt.wantAdditions {
				t.Errorf("Additions = %d, want %d", fd.Additions, tt.wantAdditions)
			}
			if fd.Deletions != tt.wantDeletions {
				t.Errorf("Deletions = %d, want %d", fd.Deletions, tt.wantDeletions)
			}
			if fd.IsNew != tt.wantNew {
				t.Errorf("IsNew = %v, want %v", fd.IsNew, tt.wantNew)
			}
			if fd.IsDeleted != tt.wantDeleted {
				t.Errorf("IsDeleted = %v, want %v", fd.IsDeleted, tt.wantDeleted)
			}
			if fd.IsRenamed != tt.wantRenamed {
				t.Errorf("IsRenamed = %v, want %v", fd.IsRenamed, tt.wantRenamed)
			}
		})
	}
}

func TestParseLineNumbers(t *testing.T) {
	fds, err := ParseString(modifiedFileDiff)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(fds) != 1 || len(fds[0].Hunks) != 1 {
		t.Fatalf("expected 1 file with 1 hunk, got %+v", fds)
	}

	hunk := fds[0].Hunks[0]
	if hunk.OldStart != 1 || hunk.OldLines != 3 || hunk.NewStart != 1 || hunk.NewLines != 4 {
		t.Fatalf("hunk header = -%d,%d +%d,%d, want -1,3 +1,4",
			hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines)
	}

	want := []Change{
		{Kind: ChangeNormal, OldLine: 1, NewLine: 1, Content: "one"},
		{Kind: ChangeDel, OldLine: 2, Content: "two"},
		{Kind: ChangeAdd, NewLine: 2, Content: "two!"},
		{Kind: ChangeNormal, OldLine: 3, NewLine: 3, Content: "three"},
		{Kind: ChangeAdd, NewLine: 4, Content: "four"},
	}
	if len(hunk.Changes) != len(want) {
		t.Fatalf("changes = %d, want %d", len(hunk.Changes), len(want))
	}
	for i, w := range want {
		got := hunk.Changes[i]
		if got.Kind != w.Kind || got.OldLine != w.OldLine || got.NewLine != w.NewLine || got.Content != w.Content {
			t.Errorf("change[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestParseNewFileCountersStartAtOne(t *testing.T) {
	raw := `diff --git a/fresh.txt b/fresh.txt
new file mode 100644
index 0000000..3bd1f0e
--- /dev/null
+++ b/fresh.txt
@@ -0,0 +1,2 @@
+alpha
+beta
`
	fds, err := ParseString(raw)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	changes := fds[0].Hunks[0].Changes
	for i, c := range changes {
		if c.NewLine != i+1 {
			t.Errorf("change[%d].NewLine = %d, want %d", i, c.NewLine, i+1)
		}
		if c.OldLine != 0 {
			t.Errorf("change[%d].OldLine = %d, want 0", i, c.OldLine)
		}
	}
}

func TestParseConflictPropagation(t *testing.T) {
	raw := `diff --git a/file.txt b/file.txt
index abc123..def456 100644
--- a/file.txt
+++ b/file.txt
@@ -1,1 +1,6 @@
 one
+<<<<<<< HEAD
+mine
+=======
+theirs
+>>>>>>> feature
`
	fds, err := ParseString(raw)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	fd := fds[0]
	if !fd.HasConflicts {
		t.Error("FileDiff.HasConflicts = false, want true")
	}
	if !fd.Hunks[0].HasConflicts {
		t.Error("Hunk.HasConflicts = false, want true")
	}

	conflicted := 0
	for _, c := range fd.Hunks[0].Changes {
		if c.IsConflict {
			conflicted++
		}
	}
	if conflicted != 3 {
		t.Errorf("conflict changes = %d, want 3", conflicted)
	}
}

func TestParseNoNewlineAtEOF(t *testing.T) {
	raw := `diff --git a/file.txt b/file.txt
index abc123..def456 100644
--- a/file.txt
+++ b/file.txt
@@ -1 +1 @@
-old
+new
\ No newline at end of file
`
	fds, err := ParseString(raw)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	changes := fds[0].Hunks[0].Changes
	if len(changes) != 2 {
		t.Fatalf("changes = %d, want 2", len(changes))
	}
	if changes[0].NoNewline {
		t.Error("del change marked NoNewline, want false")
	}
	if !changes[1].NoNewline {
		t.Error("add change not marked NoNewline, want true")
	}
}

func TestChangeLineNumber(t *testing.T) {
	tests := []struct {
		name   string
		change Change
		want   int
	}{
		{"del uses old line", Change{Kind: ChangeDel, OldLine: 7}, 7},
		{"add uses new line", Change{Kind: ChangeAdd, NewLine: 9}, 9},
		{"normal prefers old line", Change{Kind: ChangeNormal, OldLine: 3, NewLine: 4}, 3},
		{"zero value", Change{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.change.LineNumber(); got != tt.want {
				t.Errorf("LineNumber() = %d, want %d", got, tt.want)
			}
		})
	}
}
