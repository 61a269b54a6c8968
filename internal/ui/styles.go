package ui

import "charm.land/lipgloss/v2"

var (
	colorForeground = lipgloss.Color("#a9b1d6")
	colorMuted      = lipgloss.Color("#565f89")
	colorBorder     = lipgloss.Color("#292e42")
	colorFocused    = lipgloss.Color("#7aa2f7")
	colorAdd        = lipgloss.Color("#9ece6a")
	colorDel        = lipgloss.Color("#f7768e")
	colorWarning    = lipgloss.Color("#e0af68")
	colorError      = lipgloss.Color("#f7768e")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Header    lipgloss.Style
	FileName  lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Add       lipgloss.Style
	Del       lipgloss.Style
	HunkLine  lipgloss.Style
	Conflict  lipgloss.Style
	CursorBar lipgloss.Style
	Error     lipgloss.Style
	Status    lipgloss.Style
	Confirm   lipgloss.Style
}

// DefaultStyles returns the default dark palette.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Foreground(colorFocused).Bold(true),
		FileName:  lipgloss.NewStyle().Foreground(colorForeground),
		Selected:  lipgloss.NewStyle().Foreground(colorFocused).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Add:       lipgloss.NewStyle().Foreground(colorAdd),
		Del:       lipgloss.NewStyle().Foreground(colorDel),
		HunkLine:  lipgloss.NewStyle().Foreground(colorMuted).Bold(true),
		Conflict:  lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		CursorBar: lipgloss.NewStyle().Background(colorBorder),
		Error:     lipgloss.NewStyle().Foreground(colorError),
		Status:    lipgloss.NewStyle().Foreground(colorAdd),
		Confirm:   lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
	}
}
