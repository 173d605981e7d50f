package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/roster/internal/config"
	"github.com/alexisbeaulieu97/roster/internal/roster"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// System messages
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	// Spinner tick for loading animations
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case controllerMsg:
		cmd := m.dispatch(m.ctrl.Handle(msg.msg))
		return m, cmd
	}

	if m.form != nil {
		cmd, _ := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress handles keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewHome:
		return m.handleHomeKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}

	state := m.mirror.state
	switch {
	case state.PendingDelete != nil:
		return m.handleConfirmKeys(msg)
	case m.form != nil:
		return m.handleFormKeys(msg)
	case m.filtering:
		return m.handleFilterKeys(msg)
	default:
		return m.handleRosterKeys(msg)
	}
}

// handleHomeKeys handles keys on the welcome screen
func (m Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		m.viewMode = ViewRoster
		cmd := m.dispatch(m.ctrl.Attach(m.ctx))
		return m, tea.Batch(m.spinner.Tick, cmd)

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.viewMode
		m.viewMode = ViewHelp
		return m, nil
	}
	return m, nil
}

// handleRosterKeys handles keys on the student table
func (m Model) handleRosterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.viewMode = ViewHome
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.viewMode
		m.viewMode = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		// Retry from the error panel, refresh otherwise; the controller
		// ignores the key while a list is already in flight.
		cmd := m.dispatch(m.ctrl.Refresh())
		return m, cmd

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.ctrl.OpenCreate()
		cmd := m.dispatch(nil)
		return m, cmd
	}

	// Everything below needs a loaded roster.
	if m.mirror.state.Phase != roster.PhaseReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selected(); ok {
			m.ctrl.OpenEdit(rec.ID)
		}
		cmd := m.dispatch(nil)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selected(); ok {
			m.ctrl.RequestDelete(rec.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.toggleMark()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.table.Blur()
		cmd := m.filter.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.PageSize):
		m.cyclePageSize()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.paginator.PrevPage()
		m.table.SetCursor(0)
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.paginator.NextPage()
		m.table.SetCursor(0)
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleFormKeys handles keys while the create/edit form is open
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mirror.state.Busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, formCancel):
		m.ctrl.CancelModal()
		cmd := m.dispatch(nil)
		return m, cmd

	case key.Matches(msg, formSubmit):
		cmd := m.dispatch(m.ctrl.Submit())
		return m, cmd

	case key.Matches(msg, formNext):
		return m, m.form.move(1)

	case key.Matches(msg, formPrev):
		return m, m.form.move(-1)
	}

	cmd, changed := m.form.update(msg)
	if changed {
		field := m.form.field()
		m.ctrl.SetField(field, m.form.value(field))
	}
	return m, cmd
}

// handleConfirmKeys handles keys in the delete confirmation dialog
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mirror.state.Busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, confirmYes):
		cmd := m.dispatch(m.ctrl.ConfirmDelete())
		return m, cmd
	case key.Matches(msg, confirmNo):
		m.ctrl.CancelDelete()
		return m, nil
	}
	return m, nil
}

// handleFilterKeys handles keys while the filter input has focus
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, filterClear):
		m.filter.SetValue("")
		fallthrough
	case key.Matches(msg, filterDone):
		m.filtering = false
		m.filter.Blur()
		m.table.Focus()
		m.paginator.Page = 0
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.paginator.Page = 0
	m.table.SetCursor(0)
	m.refreshRows()
	return m, cmd
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.viewMode = m.prevMode
		return m, nil
	}
	return m, nil
}

// toggleTheme flips the shared theme and restyles the dashboard.
func (m *Model) toggleTheme() {
	mode := m.themes.Toggle()
	m.log.With("mode", string(mode)).Debug("theme toggled")
	m.applyTheme()
}

func (m *Model) applyTheme() {
	m.styles = NewStyles(m.themes.Palette())
	m.spinner.Style = m.styles.Spinner
	m.table.SetStyles(m.styles.Table)
}

// cyclePageSize switches to the next offered page size.
func (m *Model) cyclePageSize() {
	next := config.PageSizes[0]
	for i, size := range config.PageSizes {
		if size == m.pageSize && i+1 < len(config.PageSizes) {
			next = config.PageSizes[i+1]
		}
	}
	m.pageSize = next
	m.paginator.Page = 0
	m.table.SetCursor(0)
	m.refreshRows()
}
