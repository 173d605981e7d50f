// Package roster is the state machine behind the student management screen.
//
// A Controller owns one State. Action methods and Handle are the only code
// that changes it; they must all be called from a single goroutine. Network
// work is returned as Cmd values for the driver to run, and their results are
// passed back through Handle. Listeners registered with Subscribe receive a
// snapshot after every change, so the controller can be exercised without
// any UI.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/roster/internal/gateway"
	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 4 * time.Second

// Options tunes a Controller.
type Options struct {
	NotificationTTL time.Duration
	Logger          *logger.Logger
	// After replaces time.After for notification expiry.
	After func(time.Duration) <-chan time.Time
}

// Listener receives a state snapshot after each change.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Controller drives the roster state machine.
type Controller struct {
	gw    gateway.Gateway
	log   *logger.Logger
	ttl   time.Duration
	after func(time.Duration) <-chan time.Time

	ctx      context.Context
	attached bool
	state    State

	listInFlight     bool
	lastNotification uint64

	listeners []subscription
	nextSub   int
}

// New creates a controller in the Loading phase. Nothing is fetched until Attach.
func New(gw gateway.Gateway, opts Options) *Controller {
	ttl := opts.NotificationTTL
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	after := opts.After
	if after == nil {
		after = time.After
	}
	return &Controller{
		gw:    gw,
		log:   opts.Logger,
		ttl:   ttl,
		after: after,
		ctx:   context.Background(),
		state: State{Phase: PhaseLoading},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// Subscribe registers fn for state changes and returns a function removing it.
func (c *Controller) Subscribe(fn Listener) func() {
	id := c.nextSub
	c.nextSub++
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) emit() {
	if len(c.listeners) == 0 {
		return
	}
	snapshot := c.State()
	for _, s := range c.listeners {
		s.fn(snapshot)
	}
}

// Attach is the mount hook. The first call issues the initial list using ctx
// for this and all later requests; further calls do nothing.
func (c *Controller) Attach(ctx context.Context) Cmd {
	if c.attached {
		return nil
	}
	c.attached = true
	if ctx != nil {
		c.ctx = ctx
	}
	cmd := c.startList()
	c.emit()
	return cmd
}

// Refresh reloads the roster. It is ignored while a list request is in flight.
func (c *Controller) Refresh() Cmd {
	if c.listInFlight {
		c.log.With("generation", c.state.Generation).Debug("refresh ignored: list already in flight")
		return nil
	}
	cmd := c.startList()
	c.emit()
	return cmd
}

// Retry reloads after a failed list. It does nothing in other phases.
func (c *Controller) Retry() Cmd {
	if c.state.Phase != PhaseFailed {
		return nil
	}
	return c.Refresh()
}

// startList moves to Loading and stamps a new request generation.
func (c *Controller) startList() Cmd {
	c.state.Generation++
	c.state.Phase = PhaseLoading
	c.state.LastError = ""
	c.listInFlight = true
	return listCmd(c.ctx, c.gw, c.state.Generation)
}

// OpenCreate opens the form with an empty draft. Ignored while a mutation
// is in flight.
func (c *Controller) OpenCreate() {
	if c.state.Modal.Open || c.state.Busy {
		return
	}
	c.state.Modal = Modal{Open: true, Mode: ModalCreate}
	c.emit()
}

// OpenEdit opens the form with the current values of record id.
func (c *Controller) OpenEdit(id string) bool {
	if c.state.Modal.Open || c.state.Busy {
		return false
	}
	rec, ok := c.state.Record(id)
	if !ok {
		return false
	}
	c.state.Modal = Modal{Open: true, Mode: ModalEdit, Draft: student.DraftFrom(rec)}
	c.emit()
	return true
}

// SetField applies raw input to one draft field.
func (c *Controller) SetField(field student.Field, raw string) {
	if !c.state.Modal.Open || c.state.Busy {
		return
	}
	c.state.Modal.Draft = c.state.Modal.Draft.Set(field, raw)
	c.emit()
}

// CancelModal closes the form and discards the draft. The form stays open
// while its submission is in flight.
func (c *Controller) CancelModal() {
	if !c.state.Modal.Open || c.state.Busy {
		return
	}
	c.state.Modal = Modal{}
	c.emit()
}

// Submit sends the draft. Creation drafts are validated first; a draft that
// fails validation only produces an error notification.
func (c *Controller) Submit() Cmd {
	if !c.state.Modal.Open || c.state.Busy {
		return nil
	}
	draft := c.state.Modal.Draft

	var cmd Cmd
	switch c.state.Modal.Mode {
	case ModalCreate:
		if err := student.ValidateDraft(draft); err != nil {
			expire := c.notify(validationText(err), SeverityError)
			c.emit()
			return expire
		}
		cmd = createCmd(c.ctx, c.gw, draft.Normalized())
	case ModalEdit:
		if !draft.IsEdit() {
			expire := c.notify("Cannot update a student without an id", SeverityError)
			c.emit()
			return expire
		}
		cmd = updateCmd(c.ctx, c.gw, draft)
	}

	c.state.Busy = true
	c.emit()
	return cmd
}

// RequestDelete opens the confirmation gate for record id.
func (c *Controller) RequestDelete(id string) bool {
	if c.state.Busy || c.state.PendingDelete != nil {
		return false
	}
	rec, ok := c.state.Record(id)
	if !ok {
		return false
	}
	c.state.PendingDelete = &rec
	c.emit()
	return true
}

// CancelDelete closes the confirmation gate without deleting.
func (c *Controller) CancelDelete() {
	if c.state.PendingDelete == nil || c.state.Busy {
		return
	}
	c.state.PendingDelete = nil
	c.emit()
}

// ConfirmDelete deletes the record behind the open confirmation gate.
func (c *Controller) ConfirmDelete() Cmd {
	if c.state.PendingDelete == nil || c.state.Busy {
		return nil
	}
	c.state.Busy = true
	cmd := removeCmd(c.ctx, c.gw, *c.state.PendingDelete)
	c.emit()
	return cmd
}

// Dismiss hides the current notification.
func (c *Controller) Dismiss() {
	if c.state.Notification == nil {
		return
	}
	c.state.Notification = nil
	c.emit()
}

// Handle applies the result of a command and returns follow-up work.
func (c *Controller) Handle(msg Msg) Cmd {
	switch msg := msg.(type) {
	case ListLoadedMsg:
		if !c.current(msg.Generation) {
			return nil
		}
		c.listInFlight = false
		c.state.Phase = PhaseReady
		c.state.Records = msg.Records
		c.state.LastError = ""
		c.emit()
		return nil

	case ListFailedMsg:
		if !c.current(msg.Generation) {
			return nil
		}
		c.listInFlight = false
		c.state.Phase = PhaseFailed
		c.state.LastError = msg.Err.Error()
		c.log.With("generation", msg.Generation).Error(msg.Err, "list students failed")
		c.emit()
		return nil

	case MutationDoneMsg:
		return c.mutationDone(msg)

	case MutationFailedMsg:
		return c.mutationFailed(msg)

	case NotificationExpiredMsg:
		if c.state.Notification != nil && c.state.Notification.ID == msg.ID {
			c.state.Notification = nil
			c.emit()
		}
		return nil
	}
	return nil
}

func (c *Controller) current(gen uint64) bool {
	if gen == c.state.Generation {
		return true
	}
	c.log.WithFields(map[string]any{"generation": gen, "current": c.state.Generation}).Debug("discarding stale list response")
	return false
}

func (c *Controller) mutationDone(msg MutationDoneMsg) Cmd {
	c.state.Busy = false

	var text string
	switch msg.Kind {
	case MutationCreate:
		c.state.Modal = Modal{}
		text = fmt.Sprintf("Student %s created", msg.Record.Name)
	case MutationUpdate:
		c.state.Modal = Modal{}
		text = fmt.Sprintf("Student %s updated", msg.Record.Name)
	case MutationDelete:
		c.state.PendingDelete = nil
		text = fmt.Sprintf("Student %s deleted", msg.Record.Name)
	}
	c.log.WithFields(map[string]any{"op": msg.Kind.String(), "student_id": msg.Record.ID}).Info("student saved")

	expire := c.notify(text, SeveritySuccess)
	list := c.startList()
	c.emit()
	return Batch(expire, list)
}

func (c *Controller) mutationFailed(msg MutationFailedMsg) Cmd {
	c.state.Busy = false
	c.log.WithFields(map[string]any{"op": msg.Kind.String(), "student_id": msg.ID}).Error(msg.Err, "student mutation failed")

	if msg.Kind == MutationDelete {
		pending := c.state.PendingDelete
		c.state.PendingDelete = nil
		if rostererrors.IsNotFound(msg.Err) {
			name := msg.ID
			if pending != nil {
				name = pending.Name
			}
			expire := c.notify(fmt.Sprintf("Student %s was already removed", name), SeveritySuccess)
			list := c.startList()
			c.emit()
			return Batch(expire, list)
		}
	}

	expire := c.notify(fmt.Sprintf("Failed to %s student: %v", msg.Kind, msg.Err), SeverityError)
	c.emit()
	return expire
}

// notify replaces the visible notification and returns its expiry timer.
func (c *Controller) notify(text string, severity Severity) Cmd {
	c.lastNotification++
	c.state.Notification = &Notification{ID: c.lastNotification, Text: text, Severity: severity}
	return expireCmd(c.after, c.ttl, c.lastNotification)
}

func validationText(err error) string {
	var vErr *rostererrors.ValidationError
	if errors.As(err, &vErr) && vErr.Field != "" {
		return fmt.Sprintf("Invalid %s: %s", strings.ReplaceAll(vErr.Field, "_", " "), vErr.Message)
	}
	return err.Error()
}
