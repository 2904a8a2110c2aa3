package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"renumber/pkg/logging"
)

// Styles colours the status labels of the text report.
type Styles struct {
	Rename lipgloss.Style
	Skip   lipgloss.Style
	Error  lipgloss.Style
	Warn   lipgloss.Style
	Header lipgloss.Style
}

// NewStyles builds label styles for output written to w. In auto mode colour
// follows whether w is a terminal.
func NewStyles(w io.Writer, mode logging.ColorMode) Styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case logging.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case logging.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Rename: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Skip:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		Error:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Warn:   r.NewStyle().Foreground(lipgloss.Color("208")),
		Header: r.NewStyle().Bold(true),
	}
}
