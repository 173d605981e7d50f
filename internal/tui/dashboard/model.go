package dashboard

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/roster/internal/config"
	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/roster"
	"github.com/alexisbeaulieu97/roster/internal/student"
	"github.com/alexisbeaulieu97/roster/internal/theme"
)

// Options wires the dashboard to its collaborators.
type Options struct {
	Context    context.Context
	Controller *roster.Controller
	Themes     *theme.Store
	Logger     *logger.Logger
	// APIHost is shown in the error panel as a hint.
	APIHost  string
	PageSize int
}

// stateMirror receives controller snapshots. It is shared by every copy of Model.
type stateMirror struct {
	state roster.State
}

func (s *stateMirror) set(state roster.State) {
	s.state = state
}

// Model is the main dashboard model
type Model struct {
	ctx    context.Context
	ctrl   *roster.Controller
	themes *theme.Store
	log    *logger.Logger
	mirror *stateMirror

	// UI state
	viewMode ViewMode
	prevMode ViewMode
	styles   Styles
	keys     keyMap

	// Component state
	spinner   spinner.Model
	table     table.Model
	paginator paginator.Model
	filter    textinput.Model
	help      help.Model
	filtering bool
	form      *form
	// marked holds the ids of rows checked with the select key.
	marked map[string]bool

	pageSize int
	apiHost  string

	// Dimensions
	width  int
	height int
}

// NewModel creates a new dashboard model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewStore(theme.DefaultMode)
	}
	pageSize := opts.PageSize
	if !validPageSize(pageSize) {
		pageSize = config.PageSizes[0]
	}

	mirror := &stateMirror{state: opts.Controller.State()}
	opts.Controller.Subscribe(mirror.set)

	styles := NewStyles(themes.Palette())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(pageSize),
		table.WithStyles(styles.Table),
	)

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = pageSize

	f := textinput.New()
	f.Prompt = "/ "
	f.Placeholder = "filter by name or major"
	f.CharLimit = 64
	f.Width = 32

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		themes:    themes,
		log:       opts.Logger,
		mirror:    mirror,
		viewMode:  ViewHome,
		styles:    styles,
		keys:      defaultKeyMap(),
		spinner:   s,
		table:     t,
		paginator: p,
		filter:    f,
		help:      help.New(),
		marked:    make(map[string]bool),
		pageSize:  pageSize,
		apiHost:   opts.APIHost,
		width:     100,
		height:    30,
	}
	m.refreshRows()
	return m
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func columns() []table.Column {
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 24},
		{Title: "Major", Width: 20},
		{Title: "Enrollment Year", Width: 16},
	}
}

func validPageSize(n int) bool {
	for _, size := range config.PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// State returns the controller state currently displayed.
func (m Model) State() roster.State {
	return m.mirror.state
}

// PageSize returns the number of rows per page.
func (m Model) PageSize() int {
	return m.pageSize
}

// visible returns the filtered records in display order.
func (m Model) visible() []student.Record {
	return student.Filter(m.mirror.state.Records, m.filter.Value())
}

// pageRecords returns the records on the current page.
func (m Model) pageRecords() []student.Record {
	records := m.visible()
	start, end := m.paginator.GetSliceBounds(len(records))
	return records[start:end]
}

// refreshRows recomputes pagination and table rows from the mirrored state.
func (m *Model) refreshRows() {
	records := m.visible()
	m.paginator.PerPage = m.pageSize
	if len(records) == 0 {
		m.paginator.TotalPages = 1
		m.paginator.Page = 0
	} else {
		m.paginator.SetTotalPages(len(records))
	}
	if m.paginator.Page >= m.paginator.TotalPages {
		m.paginator.Page = max(m.paginator.TotalPages-1, 0)
	}

	m.pruneMarks()

	page := m.pageRecords()
	rows := make([]table.Row, 0, len(page))
	for _, r := range page {
		rows = append(rows, table.Row{m.checkbox(r.ID), r.ID, r.Name, r.Major, strconv.Itoa(r.EnrollmentYear)})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(m.pageSize + 1)

	// SetCursor on an empty table leaves the cursor at -1.
	switch {
	case len(rows) == 0:
	case m.table.Cursor() < 0:
		m.table.SetCursor(0)
	case m.table.Cursor() >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) checkbox(id string) string {
	if m.marked[id] {
		return "[x]"
	}
	return "[ ]"
}

// toggleMark checks or unchecks the row under the cursor.
func (m *Model) toggleMark() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	if m.marked[rec.ID] {
		delete(m.marked, rec.ID)
	} else {
		m.marked[rec.ID] = true
	}
	m.refreshRows()
}

// pruneMarks drops marks of records that are gone.
func (m *Model) pruneMarks() {
	for id := range m.marked {
		if _, ok := m.mirror.state.Record(id); !ok {
			delete(m.marked, id)
		}
	}
}

// selected returns the record under the table cursor.
func (m Model) selected() (student.Record, bool) {
	page := m.pageRecords()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(page) {
		return student.Record{}, false
	}
	return page[cursor], true
}

// syncForm opens or closes the form to match the controller's modal.
func (m *Model) syncForm() tea.Cmd {
	modal := m.mirror.state.Modal
	switch {
	case modal.Open && m.form == nil:
		f := newForm(modal.Mode, modal.Draft)
		m.form = &f
		m.table.Blur()
		return textinput.Blink
	case !modal.Open && m.form != nil:
		m.form = nil
		m.table.Focus()
	}
	return nil
}

// dispatch runs a controller command and brings the view in line with the new state.
func (m *Model) dispatch(cmd roster.Cmd) tea.Cmd {
	m.refreshRows()
	return tea.Batch(m.syncForm(), adapt(cmd))
}
