package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/roster/internal/roster"
	"github.com/alexisbeaulieu97/roster/internal/student"
)

// form renders the create/edit modal. Input values live here; the
// controller's draft is updated from them after every keystroke.
type form struct {
	inputs []textinput.Model
	focus  int
	mode   roster.ModalMode
}

var fieldLabels = map[student.Field]string{
	student.FieldName:           "Name",
	student.FieldMajor:          "Major",
	student.FieldEnrollmentYear: "Enrollment Year",
}

func newForm(mode roster.ModalMode, draft student.Draft) form {
	f := form{mode: mode, inputs: make([]textinput.Model, len(student.Fields))}
	for i, field := range student.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldLabels[field]
		in.CharLimit = 64
		in.Width = 32
		if field == student.FieldEnrollmentYear {
			in.CharLimit = 4
			in.Placeholder = "e.g. 2024"
		}
		in.SetValue(draft.Value(field))
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// field returns the field under focus.
func (f form) field() student.Field {
	return student.Fields[f.focus]
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// update routes msg to the focused input and reports whether its value changed.
func (f *form) update(msg tea.Msg) (tea.Cmd, bool) {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, f.inputs[f.focus].Value() != before
}

func (f form) value(field student.Field) string {
	for i, candidate := range student.Fields {
		if candidate == field {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f form) view(s Styles, busy bool) string {
	title := "Add Student"
	if f.mode == roster.ModalEdit {
		title = "Edit Student"
	}

	var b strings.Builder
	b.WriteString(s.ModalTitle.Render(title))
	b.WriteString("\n")
	for i, field := range student.Fields {
		label := s.Label.Render(fieldLabels[field])
		if i == f.focus {
			label = s.FocusLabel.Render("› " + fieldLabels[field])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, f.inputs[i].View()))
		b.WriteString("\n")
	}
	if busy {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("Saving..."))
	}
	return s.ModalBox.Render(b.String())
}
