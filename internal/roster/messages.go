package roster

import "github.com/alexisbeaulieu97/roster/internal/student"

// Msg is the result of a Cmd, fed back through Controller.Handle.
type Msg interface{}

// Cmd performs I/O away from the state and reports back with a Msg.
// Commands never touch controller state.
type Cmd func() Msg

// BatchMsg carries commands to run concurrently. Drivers expand it.
type BatchMsg []Cmd

// Batch combines commands, dropping nils.
func Batch(cmds ...Cmd) Cmd {
	valid := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return func() Msg { return BatchMsg(valid) }
	}
}

// MutationKind names a write operation.
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ListLoadedMsg reports a successful list for the request stamped Generation.
type ListLoadedMsg struct {
	Generation uint64
	Records    []student.Record
}

// ListFailedMsg reports a failed list for the request stamped Generation.
type ListFailedMsg struct {
	Generation uint64
	Err        error
}

// MutationDoneMsg reports a successful write.
type MutationDoneMsg struct {
	Kind   MutationKind
	Record student.Record
}

// MutationFailedMsg reports a failed write.
type MutationFailedMsg struct {
	Kind MutationKind
	ID   string
	Err  error
}

// NotificationExpiredMsg asks to hide notification ID if it is still shown.
type NotificationExpiredMsg struct {
	ID uint64
}
