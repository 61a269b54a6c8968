// Package ui is the terminal front end: a changed-file list, a scrollable
// diff pane, and keys that drive the discard engine.
package ui

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/nbarena/undiff/internal/diff"
	"github.com/nbarena/undiff/internal/git"
	"github.com/nbarena/undiff/internal/logging"
)

type pane int

const (
	paneFiles pane = iota
	paneDiff
)

// row is one rendered line of the diff pane: either a hunk header or a
// single change.
type row struct {
	isHeader bool
	hunkIdx  int
	header   string
	change   diff.Change
}

// RepoChangedMsg is sent from outside the program (the watcher) when
// the repository's git metadata changed and the diff should be
// re-fetched.
type RepoChangedMsg struct {
	Root string
}

type filesLoadedMsg struct {
	files  []diff.FileDiff
	status *git.StatusResult
	err    error
}

type opDoneMsg struct {
	status string
	err    error
}

// confirmAction is a destructive operation waiting for y/n.
type confirmAction struct {
	prompt string
	cmd    tea.Cmd
}

// Model is the root Bubble Tea model.
type Model struct {
	repo string

	files    []diff.FileDiff
	repoStat *git.StatusResult
	rows     []row // flattened diff of the selected file
	selected int
	cursor   int // row index in the diff pane
	scroll   int
	focus    pane

	confirm *confirmAction
	status  string
	err     error
	loading bool

	width  int
	height int

	styles Styles
}

// New creates the root model for a repository.
func New(repo string) *Model {
	return &Model{
		repo:    repo,
		loading: true,
		focus:   paneFiles,
		styles:  DefaultStyles(),
	}
}

// Init starts the initial diff load.
func (m *Model) Init() tea.Cmd {
	return m.loadFiles()
}

func (m *Model) loadFiles() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx := context.Background()
		files, err := git.GetUncommittedDiff(ctx, repo, "")
		if err != nil {
			return filesLoadedMsg{err: err}
		}
		// Porcelain status feeds the header summary; the diff is already
		// loaded, so a status failure is not fatal.
		status, err := git.GetStatus(ctx, repo)
		if err != nil {
			logging.Warn("status unavailable: %v", err)
			status = nil
		}
		return filesLoadedMsg{files: files, status: status}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampViewport()
		return m, nil

	case RepoChangedMsg:
		return m, m.loadFiles()

	case filesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.repoStat = msg.status
			m.setFiles(msg.files)
		}
		return m, nil

	case opDoneMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = msg.status
		} else {
			logging.Error("operation failed: %v", msg.err)
		}
		// Re-fetch: the discard may have shifted every hunk.
		return m, m.loadFiles()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("y"))):
			cmd := m.confirm.cmd
			m.confirm = nil
			return m, cmd
		case key.Matches(msg, key.NewBinding(key.WithKeys("n", "esc"))):
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("tab"))):
		if m.focus == paneFiles {
			m.focus = paneDiff
		} else {
			m.focus = paneFiles
		}

	case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
		m.moveDown(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
		m.moveUp(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgdown", "ctrl+d"))):
		m.moveDown(m.diffHeight() / 2)
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgup", "ctrl+u"))):
		m.moveUp(m.diffHeight() / 2)
	case key.Matches(msg, key.NewBinding(key.WithKeys("g", "home"))):
		m.cursor = 0
		m.scroll = 0
	case key.Matches(msg, key.NewBinding(key.WithKeys("G", "end"))):
		m.cursor = max(0, len(m.rows)-1)
		m.clampViewport()

	case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
		m.nextHunk()
	case key.Matches(msg, key.NewBinding(key.WithKeys("p"))):
		m.prevHunk()

	case key.Matches(msg, key.NewBinding(key.WithKeys("R"))):
		m.status = ""
		return m, m.loadFiles()

	case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
		return m, m.copyPatch()

	case key.Matches(msg, key.NewBinding(key.WithKeys("d"))):
		return m.askDiscardLine()
	case key.Matches(msg, key.NewBinding(key.WithKeys("x"))):
		return m.askDiscardHunk()
	case key.Matches(msg, key.NewBinding(key.WithKeys("X"))):
		return m.askDiscardFile()
	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		return m.askRestoreDeleted()
	}

	return m, nil
}

// setFiles installs a fresh diff, keeping the selection stable by path
// when possible.
func (m *Model) setFiles(files []diff.FileDiff) {
	prevPath := ""
	if fd := m.currentFile(); fd != nil {
		prevPath = fd.Path()
	}

	m.files = files
	m.selected = 0
	for i := range files {
		if files[i].Path() == prevPath {
			m.selected = i
			break
		}
	}
	m.rebuildRows()
}

func (m *Model) rebuildRows() {
	m.rows = flattenRows(m.currentFile())
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.clampViewport()
}

// flattenRows turns a file's hunks into the diff pane's row list.
func flattenRows(fd *diff.FileDiff) []row {
	if fd == nil {
		return nil
	}
	var rows []row
	for i, hunk := range fd.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines)
		rows = append(rows, row{isHeader: true, hunkIdx: i, header: header})
		for _, c := range hunk.Changes {
			rows = append(rows, row{hunkIdx: i, change: c})
		}
	}
	return rows
}

func (m *Model) currentFile() *diff.FileDiff {
	if m.selected < 0 || m.selected >= len(m.files) {
		return nil
	}
	return &m.files[m.selected]
}

func (m *Model) currentRow() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *Model) moveDown(n int) {
	if m.focus == paneFiles {
		m.selectFile(m.selected + n)
		return
	}
	m.cursor = min(m.cursor+n, max(0, len(m.rows)-1))
	m.clampViewport()
}

func (m *Model) moveUp(n int) {
	if m.focus == paneFiles {
		m.selectFile(m.selected - n)
		return
	}
	m.cursor = max(m.cursor-n, 0)
	m.clampViewport()
}

func (m *Model) selectFile(idx int) {
	if len(m.files) == 0 {
		return
	}
	m.selected = min(max(idx, 0), len(m.files)-1)
	m.cursor = 0
	m.scroll = 0
	m.rebuildRows()
}

// nextHunk jumps the cursor to the next hunk header, wrapping around.
func (m *Model) nextHunk() {
	for i := m.cursor + 1; i < len(m.rows); i++ {
		if m.rows[i].isHeader {
			m.cursor = i
			m.clampViewport()
			return
		}
	}
	for i := 0; i < len(m.rows); i++ {
		if m.rows[i].isHeader {
			m.cursor = i
			m.clampViewport()
			return
		}
	}
}

func (m *Model) prevHunk() {
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].isHeader {
			m.cursor = i
			m.clampViewport()
			return
		}
	}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].isHeader {
			m.cursor = i
			m.clampViewport()
			return
		}
	}
}

// clampViewport keeps the cursor visible within the diff pane.
func (m *Model) clampViewport() {
	h := m.diffHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) diffHeight() int {
	h := m.height - 3 // header, footer, status
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) askDiscardFile() (tea.Model, tea.Cmd) {
	fd := m.currentFile()
	if fd == nil {
		return m, nil
	}
	repo, path := m.repo, fd.Path()
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("discard ALL changes to %s? (y/n)", path),
		cmd: func() tea.Msg {
			err := git.DiscardFileChanges(context.Background(), repo, path)
			return opDoneMsg{status: "discarded " + path, err: err}
		},
	}
	return m, nil
}

func (m *Model) askDiscardHunk() (tea.Model, tea.Cmd) {
	fd := m.currentFile()
	r := m.currentRow()
	if fd == nil || r == nil || r.hunkIdx >= len(fd.Hunks) {
		return m, nil
	}
	repo, path := m.repo, fd.Path()
	hunk := fd.Hunks[r.hunkIdx]
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("discard hunk @@ -%d +%d @@ of %s? (y/n)", hunk.OldStart, hunk.NewStart, path),
		cmd: func() tea.Msg {
			err := git.DiscardHunkChanges(context.Background(), repo, path, hunk)
			return opDoneMsg{status: "discarded hunk in " + path, err: err}
		},
	}
	return m, nil
}

func (m *Model) askDiscardLine() (tea.Model, tea.Cmd) {
	fd := m.currentFile()
	r := m.currentRow()
	if fd == nil || r == nil || r.isHeader || r.change.Kind == diff.ChangeNormal {
		return m, nil
	}
	repo, path := m.repo, fd.Path()
	line := diff.DiscardLine{LineNumber: r.change.LineNumber(), Kind: r.change.Kind}
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("discard %s at line %d of %s? (y/n)", line.Kind, line.LineNumber, path),
		cmd: func() tea.Msg {
			err := git.DiscardLineChanges(context.Background(), repo, path, []diff.DiscardLine{line})
			return opDoneMsg{status: fmt.Sprintf("discarded line %d in %s", line.LineNumber, path), err: err}
		},
	}
	return m, nil
}

func (m *Model) askRestoreDeleted() (tea.Model, tea.Cmd) {
	fd := m.currentFile()
	if fd == nil || !fd.IsDeleted {
		return m, nil
	}
	repo, path := m.repo, fd.Path()
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("restore deleted file %s from HEAD? (y/n)", path),
		cmd: func() tea.Msg {
			err := git.RestoreDeletedFile(context.Background(), repo, path)
			return opDoneMsg{status: "restored " + path, err: err}
		},
	}
	return m, nil
}

func (m *Model) copyPatch() tea.Cmd {
	fd := m.currentFile()
	if fd == nil || len(fd.Hunks) == 0 {
		return nil
	}
	patch := git.BuildPatch(*fd, fd.Hunks)
	path := fd.Path()
	return func() tea.Msg {
		if err := copyToClipboard(patch); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: "copied patch for " + path}
	}
}
