package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/nbarena/undiff/internal/diff"
	"github.com/nbarena/undiff/internal/git"
)

const fileListWidth = 36

// View renders the two-pane layout: file list on the left, the
// selected file's diff on the right, and a one-line footer.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.loading {
		view.SetContent("Loading...")
		return view
	}

	left := m.renderFileList()
	right := m.renderDiff()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	view.SetContent(body + "\n" + m.renderFooter())
	return view
}

func (m *Model) renderFileList() string {
	width := fileListWidth
	if m.width > 0 && m.width < fileListWidth*2 {
		width = m.width / 2
	}
	height := m.diffHeight() + 1

	var b strings.Builder
	title := "Changes"
	if summary := statusSummary(m.repoStat); summary != "" {
		title += "  " + summary
	}
	title = runewidth.Truncate(title, width-1, "…")
	if m.focus == paneFiles {
		title = m.styles.Header.Render(title)
	} else {
		title = m.styles.Muted.Render(title)
	}
	b.WriteString(title + "\n")

	if len(m.files) == 0 {
		b.WriteString(m.styles.Muted.Render("working tree clean"))
	}

	for i, fd := range m.files {
		if i >= height-1 {
			break
		}
		line := fileListLine(&fd)
		line = runewidth.Truncate(line, width-2, "…")
		switch {
		case i == m.selected && m.focus == paneFiles:
			line = m.styles.Selected.Render("> " + line)
		case i == m.selected:
			line = m.styles.FileName.Render("> " + line)
		default:
			line = m.styles.FileName.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(b.String())
}

// statusSummary condenses porcelain status into a short header note,
// e.g. "2 modified, 1 deleted, 3 untracked".
func statusSummary(st *git.StatusResult) string {
	if st == nil || st.Clean {
		return ""
	}
	var modified, deleted, untracked int
	for i := range st.Files {
		f := &st.Files[i]
		switch {
		case f.IsUntracked():
			untracked++
		case f.IsDeleted():
			deleted++
		case f.IsModified():
			modified++
		}
	}
	var parts []string
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", deleted))
	}
	if untracked > 0 {
		parts = append(parts, fmt.Sprintf("%d untracked", untracked))
	}
	return strings.Join(parts, ", ")
}

// fileListLine is the one-line summary of a file: marker, path, counts.
func fileListLine(fd *diff.FileDiff) string {
	marker := " "
	switch {
	case fd.HasConflicts:
		marker = "!"
	case fd.IsNew:
		marker = "N"
	case fd.IsDeleted:
		marker = "D"
	case fd.IsRenamed:
		marker = "R"
	}
	return fmt.Sprintf("%s %s +%d/-%d", marker, fd.Path(), fd.Additions, fd.Deletions)
}

func (m *Model) renderDiff() string {
	width := m.width - fileListWidth
	if width < 20 {
		width = 20
	}
	height := m.diffHeight() + 1

	var b strings.Builder
	fd := m.currentFile()
	if fd == nil {
		b.WriteString(m.styles.Muted.Render("no file selected"))
	} else {
		header := fd.Path()
		if fd.IsRenamed {
			header = fd.From + " -> " + fd.To
		}
		if m.focus == paneDiff {
			b.WriteString(m.styles.Header.Render(header) + "\n")
		} else {
			b.WriteString(m.styles.Muted.Render(header) + "\n")
		}

		end := min(m.scroll+height-1, len(m.rows))
		for i := m.scroll; i < end; i++ {
			b.WriteString(m.renderRow(i, width) + "\n")
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(b.String())
}

func (m *Model) renderRow(i, width int) string {
	r := m.rows[i]
	var text string
	var style lipgloss.Style

	if r.isHeader {
		text = r.header
		style = m.styles.HunkLine
	} else {
		c := r.change
		switch c.Kind {
		case diff.ChangeAdd:
			text = "+" + c.Content
			style = m.styles.Add
		case diff.ChangeDel:
			text = "-" + c.Content
			style = m.styles.Del
		default:
			text = " " + c.Content
			style = m.styles.FileName
		}
		if c.IsConflict {
			style = m.styles.Conflict
		}
	}

	text = strings.ReplaceAll(text, "\t", "    ")
	text = runewidth.Truncate(text, width-1, "…")
	line := style.Render(text)
	if i == m.cursor && m.focus == paneDiff {
		pad := width - 1 - runewidth.StringWidth(text)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		line = m.styles.CursorBar.Render(line)
	}
	return line
}

func (m *Model) renderFooter() string {
	if m.confirm != nil {
		return m.styles.Confirm.Render(m.confirm.prompt)
	}
	if m.err != nil {
		return m.styles.Error.Render("error: " + m.err.Error())
	}
	if m.status != "" {
		return m.styles.Status.Render(m.status)
	}
	help := "j/k move  tab pane  n/p hunk  d line  x hunk  X file  r restore  c copy  R refresh  q quit"
	return m.styles.Muted.Render(runewidth.Truncate(help, max(m.width-1, 20), "…"))
}
