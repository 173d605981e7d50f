package roster

import "github.com/alexisbeaulieu97/roster/internal/student"

// Phase is the roster's loading state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModalMode says whether the form creates a record or edits one.
type ModalMode int

const (
	ModalCreate ModalMode = iota
	ModalEdit
)

func (m ModalMode) String() string {
	if m == ModalEdit {
		return "edit"
	}
	return "create"
}

// Severity classifies a notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "success"
}

// Notification is a transient message. ID increases with every notification
// so an expiry can tell whether it still refers to the visible one.
type Notification struct {
	ID       uint64
	Text     string
	Severity Severity
}

// Modal is the create/edit form.
type Modal struct {
	Open  bool
	Mode  ModalMode
	Draft student.Draft
}

// State is a snapshot of everything the roster screen shows.
type State struct {
	Phase     Phase
	Records   []student.Record
	LastError string
	Modal     Modal
	// PendingDelete is the record waiting for a yes/no answer.
	PendingDelete *student.Record
	Notification  *Notification
	// Generation is the stamp of the most recently issued list request.
	Generation uint64
	// Busy is set while a create, update or delete is in flight.
	Busy bool
}

func (s State) clone() State {
	out := s
	if s.Records != nil {
		out.Records = append([]student.Record(nil), s.Records...)
	}
	if s.PendingDelete != nil {
		rec := *s.PendingDelete
		out.PendingDelete = &rec
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	return out
}

// Record returns the record with id from the current roster.
func (s State) Record(id string) (student.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return student.Record{}, false
}
