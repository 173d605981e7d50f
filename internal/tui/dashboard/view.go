package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/roster/internal/roster"
)

// HomeTitle is the greeting on the welcome screen.
const HomeTitle = "Welcome to Simply Schools Apps"

// View renders the current model state
func (m Model) View() string {
	var body string
	switch m.viewMode {
	case ViewHome:
		body = m.renderHomeView()
	case ViewHelp:
		body = m.renderHelpView()
	default:
		body = m.renderRosterView()
	}
	return m.styles.App.Render(body)
}

// renderHomeView renders the welcome screen
func (m Model) renderHomeView() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.styles.Title.Render(HomeTitle),
		m.styles.Subtitle.Render("Manage the student roster from your terminal"),
		"",
		m.styles.Button.Render("Students"),
		"",
		m.renderThemeToggle(),
	)

	var b strings.Builder
	b.WriteString(lipgloss.Place(m.width-4, max(m.height-6, 10), lipgloss.Center, lipgloss.Center, content))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(homeKeys{m.keys}))
	return b.String()
}

// renderRosterView renders the student list with overlays
func (m Model) renderRosterView() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n")

	state := m.mirror.state
	if state.Notification != nil {
		content.WriteString(m.renderNotification(*state.Notification))
		content.WriteString("\n")
	}

	switch {
	case state.PendingDelete != nil:
		content.WriteString(m.renderConfirm(state))
	case m.form != nil:
		content.WriteString(m.form.view(m.styles, state.Busy))
	default:
		content.WriteString(m.renderBody(state))
	}
	content.WriteString("\n")

	if m.form != nil {
		content.WriteString(m.renderFooter(formKeys{}))
	} else {
		content.WriteString(m.renderFooter(m.keys))
	}
	return content.String()
}

// renderHeader renders the title line with the theme toggle
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Students")
	toggle := m.renderThemeToggle()

	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(toggle)-6, 1)
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", gap), toggle)
	return m.styles.Header.Render(line)
}

func (m Model) renderThemeToggle() string {
	mode := m.themes.Mode()
	return m.styles.Toggle.Render(fmt.Sprintf("%s %s", mode.Icon(), mode.ToggleLabel())) +
		m.styles.Muted.Render(" (t)")
}

// renderBody renders the phase-dependent part of the roster screen
func (m Model) renderBody(state roster.State) string {
	switch state.Phase {
	case roster.PhaseLoading:
		return m.styles.Loading.Render(m.spinner.View() + " Loading students...")
	case roster.PhaseFailed:
		return m.renderErrorPanel(state.LastError)
	}

	var b strings.Builder
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.styles.Filter.Render(m.filter.View()))
		b.WriteString("\n")
	}

	if len(state.Records) == 0 {
		b.WriteString(m.styles.EmptyState.Render("No students yet. Press a to add one."))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.EmptyState.Render(fmt.Sprintf("No students match %q.", m.filter.Value())))
		return b.String()
	}

	status := fmt.Sprintf(
		"Page %s  •  %d per page  •  %d of %d students",
		m.paginator.View(), m.pageSize, len(visible), len(state.Records),
	)
	if n := len(m.marked); n > 0 {
		status += fmt.Sprintf("  •  %d selected", n)
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(status))
	return b.String()
}

// renderErrorPanel renders the list failure with a retry hint
func (m Model) renderErrorPanel(message string) string {
	lines := []string{
		m.styles.ErrorTitle.Render("Could not load students"),
		"",
		message,
	}
	if m.apiHost != "" {
		lines = append(lines, "", m.styles.Muted.Render(fmt.Sprintf("Make sure the API server is running at %s.", m.apiHost)))
	}
	lines = append(lines, "", m.styles.Muted.Render("Press r to retry."))
	return m.styles.ErrorPanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderNotification renders the transient banner
func (m Model) renderNotification(n roster.Notification) string {
	return m.styles.Banner(n.Severity).Render(n.Text) + m.styles.Muted.Render("  x: dismiss")
}

// renderConfirm renders the delete confirmation dialog
func (m Model) renderConfirm(state roster.State) string {
	rec := state.PendingDelete
	title := m.styles.ConfirmTitle.Render("Delete student?")
	message := fmt.Sprintf("%s (%s, %d) will be removed.", rec.Name, rec.Major, rec.EnrollmentYear)

	var buttons string
	if state.Busy {
		buttons = m.spinner.View() + " Deleting..."
	} else {
		buttons = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.styles.ConfirmYes.Render("[y] Delete"),
			m.styles.ConfirmNo.Render("[n] Keep"),
		)
	}

	return m.styles.ConfirmBox.Render(lipgloss.JoinVertical(lipgloss.Center, title, message, "", buttons))
}

// renderHelpView renders the full key reference
func (m Model) renderHelpView() string {
	h := help.New()
	h.ShowAll = true
	h.Width = m.width

	var keys help.KeyMap = m.keys
	if m.prevMode == ViewHome {
		keys = homeKeys{m.keys}
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Title.Render("Keyboard shortcuts"),
		h.View(keys),
		"",
		m.styles.Muted.Render("Press ? or esc to close"),
	)
	return m.styles.HelpBox.Render(content)
}

// renderFooter renders the short key help
func (m Model) renderFooter(keys help.KeyMap) string {
	if m.filtering {
		return m.styles.Footer.Render(m.help.ShortHelpView([]key.Binding{filterDone, filterClear}))
	}
	return m.styles.Footer.Render(m.help.View(keys))
}
