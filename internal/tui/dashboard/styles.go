package dashboard

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/roster/internal/roster"
	"github.com/alexisbeaulieu97/roster/internal/theme"
)

// Styles is the full set of lipgloss styles for one palette. It is rebuilt
// whenever the theme mode changes.
type Styles struct {
	Palette theme.Palette

	App      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Muted    lipgloss.Style
	Toggle   lipgloss.Style
	Button   lipgloss.Style

	Spinner lipgloss.Style
	Loading lipgloss.Style

	ErrorPanel lipgloss.Style
	ErrorTitle lipgloss.Style

	SuccessBanner lipgloss.Style
	ErrorBanner   lipgloss.Style

	EmptyState lipgloss.Style
	Filter     lipgloss.Style

	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
	Label      lipgloss.Style
	FocusLabel lipgloss.Style

	ConfirmBox   lipgloss.Style
	ConfirmTitle lipgloss.Style
	ConfirmYes   lipgloss.Style
	ConfirmNo    lipgloss.Style

	HelpBox lipgloss.Style

	Table table.Styles
}

// NewStyles derives every style from p.
func NewStyles(p theme.Palette) Styles {
	s := Styles{Palette: p}

	s.App = lipgloss.NewStyle().
		Foreground(p.Text).
		Padding(1, 2)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		PaddingBottom(0).
		MarginBottom(1)

	s.Footer = lipgloss.NewStyle().
		Foreground(p.Muted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Border).
		MarginTop(1)

	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)

	s.Toggle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	s.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.OnStatus).
		Background(p.Primary).
		Padding(0, 3)

	s.Spinner = lipgloss.NewStyle().Foreground(p.Primary)
	s.Loading = lipgloss.NewStyle().
		Foreground(p.Muted).
		PaddingTop(1).
		PaddingBottom(1)

	s.ErrorPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(p.Error).
		Padding(1, 2)

	s.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Error)

	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.OnStatus).
		Padding(0, 2).
		MarginBottom(1)
	s.SuccessBanner = banner.Background(p.Success)
	s.ErrorBanner = banner.Background(p.Error)

	s.EmptyState = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		PaddingTop(2).
		PaddingBottom(2)

	s.Filter = lipgloss.NewStyle().
		Foreground(p.Text).
		MarginBottom(1)

	s.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 3)

	s.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.Label = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(18)

	s.FocusLabel = s.Label.
		Foreground(p.Accent).
		Bold(true)

	s.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(p.Warning).
		Padding(1, 4).
		Align(lipgloss.Center)

	s.ConfirmTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning).
		MarginBottom(1)

	confirmButton := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1).
		BorderStyle(lipgloss.NormalBorder())
	s.ConfirmYes = confirmButton.
		Foreground(p.Error).
		BorderForeground(p.Error)
	s.ConfirmNo = confirmButton.
		Foreground(p.Muted).
		BorderForeground(p.Border)

	s.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 3)

	t := table.DefaultStyles()
	t.Header = t.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(p.Primary)
	t.Cell = t.Cell.Foreground(p.Text)
	t.Selected = t.Selected.
		Foreground(p.OnStatus).
		Background(p.Primary).
		Bold(true)
	s.Table = t

	return s
}

// Banner returns the banner style for a notification severity.
func (s Styles) Banner(severity roster.Severity) lipgloss.Style {
	if severity == roster.SeverityError {
		return s.ErrorBanner
	}
	return s.SuccessBanner
}
