package roster

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGateway records calls and answers from canned results.
type fakeGateway struct {
	mu sync.Mutex

	listResults [][]student.Record
	listErr     error
	createErr   error
	updateErr   error
	removeErr   error

	listCalls int
	created   []student.Draft
	updated   []student.Draft
	removed   []string
}

func (f *fakeGateway) List(context.Context) ([]student.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.listResults) == 0 {
		return []student.Record{}, nil
	}
	next := f.listResults[0]
	if len(f.listResults) > 1 {
		f.listResults = f.listResults[1:]
	}
	return next, nil
}

func (f *fakeGateway) Create(_ context.Context, d student.Draft) (student.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	if f.createErr != nil {
		return student.Record{}, f.createErr
	}
	return student.Record{ID: "1", Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}, nil
}

func (f *fakeGateway) Update(_ context.Context, id string, d student.Draft) (student.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, d)
	if f.updateErr != nil {
		return student.Record{}, f.updateErr
	}
	return student.Record{ID: id, Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}, nil
}

func (f *fakeGateway) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newController(gw *fakeGateway) *Controller {
	return New(gw, Options{After: immediate})
}

// run executes cmd and feeds every resulting message back into the
// controller, expanding batches. Notification expiries are dropped so tests
// can inspect the notification that was raised.
func run(t *testing.T, c *Controller, cmd Cmd) {
	t.Helper()
	drive(c, cmd, false)
}

// runExpiring is run with notification expiries delivered.
func runExpiring(t *testing.T, c *Controller, cmd Cmd) {
	t.Helper()
	drive(c, cmd, true)
}

func drive(c *Controller, cmd Cmd, deliverExpiry bool) {
	queue := []Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case BatchMsg:
			queue = append(queue, msg...)
		case NotificationExpiredMsg:
			if deliverExpiry {
				queue = append(queue, c.Handle(msg))
			}
		default:
			queue = append(queue, c.Handle(msg))
		}
	}
}

func ready(t *testing.T, gw *fakeGateway, records ...student.Record) *Controller {
	t.Helper()
	gw.listResults = [][]student.Record{records}
	c := newController(gw)
	run(t, c, c.Attach(context.Background()))
	require.Equal(t, PhaseReady, c.State().Phase)
	return c
}

var ada = student.Record{ID: "a1", Name: "Ada", Major: "CS", EnrollmentYear: 1990}

func TestNewStartsLoading(t *testing.T) {
	c := newController(&fakeGateway{})
	assert.Equal(t, PhaseLoading, c.State().Phase)
	assert.Zero(t, c.State().Generation)
}

func TestAttachListsOnce(t *testing.T) {
	gw := &fakeGateway{listResults: [][]student.Record{{ada}}}
	c := newController(gw)

	run(t, c, c.Attach(context.Background()))
	assert.Nil(t, c.Attach(context.Background()))

	state := c.State()
	assert.Equal(t, 1, gw.listCalls)
	assert.Equal(t, PhaseReady, state.Phase)
	if diff := cmp.Diff([]student.Record{ada}, state.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestStaleListResponseDiscarded(t *testing.T) {
	c := newController(&fakeGateway{})
	require.NotNil(t, c.Attach(context.Background()))

	// A delete finishing while the first list is in flight starts generation 2.
	require.NotNil(t, c.Handle(MutationDoneMsg{Kind: MutationDelete, Record: ada}))
	require.Equal(t, uint64(2), c.State().Generation)

	newer := []student.Record{{ID: "new", Name: "New", Major: "Art", EnrollmentYear: 2020}}
	assert.Nil(t, c.Handle(ListLoadedMsg{Generation: 2, Records: newer}))
	assert.Nil(t, c.Handle(ListLoadedMsg{Generation: 1, Records: []student.Record{ada}}))

	state := c.State()
	assert.Equal(t, PhaseReady, state.Phase)
	if diff := cmp.Diff(newer, state.Records); diff != "" {
		t.Fatalf("stale response applied (-want +got):\n%s", diff)
	}

	c.Handle(ListFailedMsg{Generation: 1, Err: rostererrors.NewHTTPError("list students", 500, "")})
	assert.Equal(t, PhaseReady, c.State().Phase)
}

func TestRefreshIgnoredWhileListInFlight(t *testing.T) {
	gw := &fakeGateway{}
	c := newController(gw)
	cmd := c.Attach(context.Background())
	require.NotNil(t, cmd)

	assert.Nil(t, c.Refresh())
	assert.Equal(t, uint64(1), c.State().Generation)

	run(t, c, cmd)
	next := c.Refresh()
	require.NotNil(t, next)
	assert.Equal(t, PhaseLoading, c.State().Phase)
	assert.Equal(t, uint64(2), c.State().Generation)
	run(t, c, next)
	assert.Equal(t, 2, gw.listCalls)
}

func TestListFailureThenRetry(t *testing.T) {
	gw := &fakeGateway{listErr: rostererrors.NewHTTPError("list students", 500, "boom")}
	c := newController(gw)
	run(t, c, c.Attach(context.Background()))

	state := c.State()
	require.Equal(t, PhaseFailed, state.Phase)
	assert.Contains(t, state.LastError, "500")

	gw.listErr = nil
	gw.listResults = [][]student.Record{{ada}}
	retry := c.Retry()
	require.NotNil(t, retry)
	assert.Equal(t, PhaseLoading, c.State().Phase)
	assert.Empty(t, c.State().LastError)

	run(t, c, retry)
	assert.Equal(t, PhaseReady, c.State().Phase)
	assert.Equal(t, 2, gw.listCalls)
}

func TestRetryOnlyFromFailed(t *testing.T) {
	c := ready(t, &fakeGateway{}, ada)
	assert.Nil(t, c.Retry())
}

func TestCreateSuccessClosesModalNotifiesAndRefreshes(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw)
	gw.listResults = [][]student.Record{{{ID: "1", Name: "Ada", Major: "CS", EnrollmentYear: 1990}}}

	c.OpenCreate()
	c.SetField(student.FieldName, "Ada")
	c.SetField(student.FieldMajor, "CS")
	c.SetField(student.FieldEnrollmentYear, "1990")

	cmd := c.Submit()
	require.NotNil(t, cmd)
	assert.True(t, c.State().Busy)

	run(t, c, cmd)

	state := c.State()
	assert.False(t, state.Modal.Open)
	assert.False(t, state.Busy)
	require.NotNil(t, state.Notification)
	assert.Equal(t, SeveritySuccess, state.Notification.Severity)
	assert.Equal(t, 2, gw.listCalls)
	assert.Equal(t, PhaseReady, state.Phase)
	require.Len(t, gw.created, 1)
	assert.Equal(t, student.Draft{Name: "Ada", Major: "CS", EnrollmentYear: 1990}, gw.created[0])
}

func TestCreateValidationBlocksGateway(t *testing.T) {
	cases := []struct {
		name  string
		draft map[student.Field]string
		pass  bool
	}{
		{"empty name", map[student.Field]string{student.FieldName: "", student.FieldMajor: "CS", student.FieldEnrollmentYear: "2000"}, false},
		{"blank major", map[student.Field]string{student.FieldName: "Ada", student.FieldMajor: "  ", student.FieldEnrollmentYear: "2000"}, false},
		{"year 1800", map[student.Field]string{student.FieldName: "Ada", student.FieldMajor: "CS", student.FieldEnrollmentYear: "1800"}, false},
		{"year 1900", map[student.Field]string{student.FieldName: "Ada", student.FieldMajor: "CS", student.FieldEnrollmentYear: "1900"}, false},
		{"year not a number", map[student.Field]string{student.FieldName: "Ada", student.FieldMajor: "CS", student.FieldEnrollmentYear: "19x0"}, false},
		{"year 1901", map[student.Field]string{student.FieldName: "Ada", student.FieldMajor: "CS", student.FieldEnrollmentYear: "1901"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			c := ready(t, gw)
			c.OpenCreate()
			for _, f := range student.Fields {
				c.SetField(f, tc.draft[f])
			}

			cmd := c.Submit()
			state := c.State()
			if tc.pass {
				require.NotNil(t, cmd)
				assert.True(t, state.Busy)
				return
			}

			run(t, c, cmd)
			assert.Empty(t, gw.created)
			assert.True(t, c.State().Modal.Open)
			require.NotNil(t, state.Notification)
			assert.Equal(t, SeverityError, state.Notification.Severity)
			assert.Contains(t, state.Notification.Text, "Invalid")
		})
	}
}

func TestCreateFailureKeepsModalAndNotifies(t *testing.T) {
	gw := &fakeGateway{createErr: rostererrors.NewNetworkError("create student", assert.AnError)}
	c := ready(t, gw)
	c.OpenCreate()
	c.SetField(student.FieldName, "Ada")
	c.SetField(student.FieldMajor, "CS")
	c.SetField(student.FieldEnrollmentYear, "1990")

	run(t, c, c.Submit())

	state := c.State()
	assert.True(t, state.Modal.Open)
	assert.False(t, state.Busy)
	require.NotNil(t, state.Notification)
	assert.Equal(t, SeverityError, state.Notification.Severity)
	assert.Contains(t, state.Notification.Text, "create")
	assert.Equal(t, 1, gw.listCalls)
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	c := ready(t, &fakeGateway{})
	c.OpenCreate()
	c.SetField(student.FieldName, "Ada")
	c.SetField(student.FieldMajor, "CS")
	c.SetField(student.FieldEnrollmentYear, "1990")

	require.NotNil(t, c.Submit())
	assert.Nil(t, c.Submit())
}

func TestModalLockedWhileSubmitting(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw, ada)
	c.OpenCreate()
	c.SetField(student.FieldName, "Grace")
	c.SetField(student.FieldMajor, "Navy")
	c.SetField(student.FieldEnrollmentYear, "1985")

	cmd := c.Submit()
	require.NotNil(t, cmd)

	c.CancelModal()
	c.SetField(student.FieldName, "Changed")
	assert.False(t, c.OpenEdit("a1"))
	state := c.State()
	assert.True(t, state.Modal.Open)
	assert.Equal(t, ModalCreate, state.Modal.Mode)
	assert.Equal(t, "Grace", state.Modal.Draft.Name)

	run(t, c, cmd)
	assert.False(t, c.State().Modal.Open)
	require.Len(t, gw.created, 1)
	assert.Equal(t, "Grace", gw.created[0].Name)

	require.True(t, c.OpenEdit("a1"))
	assert.Equal(t, ModalEdit, c.State().Modal.Mode)
}

func TestFormCannotOpenDuringDelete(t *testing.T) {
	c := ready(t, &fakeGateway{}, ada)
	require.True(t, c.RequestDelete("a1"))
	cmd := c.ConfirmDelete()
	require.NotNil(t, cmd)

	c.OpenCreate()
	assert.False(t, c.OpenEdit("a1"))
	assert.False(t, c.State().Modal.Open)

	run(t, c, cmd)
	c.OpenCreate()
	assert.True(t, c.State().Modal.Open)
}

func TestEditCopiesRecordAndUpdates(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw, ada)

	require.True(t, c.OpenEdit("a1"))
	state := c.State()
	assert.Equal(t, ModalEdit, state.Modal.Mode)
	assert.Equal(t, student.DraftFrom(ada), state.Modal.Draft)

	c.SetField(student.FieldMajor, "Physics")
	run(t, c, c.Submit())

	require.Len(t, gw.updated, 1)
	assert.Equal(t, "a1", gw.updated[0].ID)
	assert.Equal(t, "Physics", gw.updated[0].Major)
	assert.False(t, c.State().Modal.Open)
	assert.Equal(t, 2, gw.listCalls)
}

func TestEditSkipsFieldValidation(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw, ada)
	require.True(t, c.OpenEdit("a1"))
	c.SetField(student.FieldEnrollmentYear, "abc")

	require.NotNil(t, c.Submit())
}

func TestOpenEditUnknownRecord(t *testing.T) {
	c := ready(t, &fakeGateway{}, ada)
	assert.False(t, c.OpenEdit("missing"))
	assert.False(t, c.State().Modal.Open)
}

func TestCancelModalDiscardsDraft(t *testing.T) {
	c := ready(t, &fakeGateway{})
	c.OpenCreate()
	c.SetField(student.FieldName, "Ada")
	c.CancelModal()

	state := c.State()
	assert.False(t, state.Modal.Open)
	assert.Equal(t, student.Draft{}, state.Modal.Draft)
	assert.Nil(t, c.Submit())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw, ada)

	require.True(t, c.RequestDelete("a1"))
	assert.Empty(t, gw.removed)
	require.NotNil(t, c.State().PendingDelete)

	c.CancelDelete()
	assert.Nil(t, c.State().PendingDelete)
	assert.Nil(t, c.ConfirmDelete())
	assert.Empty(t, gw.removed)
}

func TestDeleteConfirmedRemovesAndRefreshes(t *testing.T) {
	gw := &fakeGateway{}
	c := ready(t, gw, ada)

	require.True(t, c.RequestDelete("a1"))
	run(t, c, c.ConfirmDelete())

	assert.Equal(t, []string{"a1"}, gw.removed)
	state := c.State()
	assert.Nil(t, state.PendingDelete)
	require.NotNil(t, state.Notification)
	assert.Equal(t, SeveritySuccess, state.Notification.Severity)
	assert.Equal(t, 2, gw.listCalls)
}

func TestDeleteNotFoundCountsAsDone(t *testing.T) {
	gw := &fakeGateway{removeErr: rostererrors.NewNotFoundError("a1")}
	c := ready(t, gw, ada)

	require.True(t, c.RequestDelete("a1"))
	run(t, c, c.ConfirmDelete())

	state := c.State()
	require.NotNil(t, state.Notification)
	assert.Equal(t, SeveritySuccess, state.Notification.Severity)
	assert.Equal(t, 2, gw.listCalls)
}

func TestDeleteFailureNotifies(t *testing.T) {
	gw := &fakeGateway{removeErr: rostererrors.NewHTTPError("delete student", 500, "")}
	c := ready(t, gw, ada)

	require.True(t, c.RequestDelete("a1"))
	run(t, c, c.ConfirmDelete())

	state := c.State()
	assert.Nil(t, state.PendingDelete)
	require.NotNil(t, state.Notification)
	assert.Equal(t, SeverityError, state.Notification.Severity)
	assert.Equal(t, 1, gw.listCalls)
}

func TestNotificationReplacement(t *testing.T) {
	c := ready(t, &fakeGateway{})

	c.OpenCreate()
	first := c.Submit()
	firstID := c.State().Notification.ID

	second := c.Submit()
	state := c.State()
	require.NotNil(t, state.Notification)
	assert.Greater(t, state.Notification.ID, firstID)
	assert.NotNil(t, first)
	assert.NotNil(t, second)

	c.Handle(NotificationExpiredMsg{ID: firstID})
	require.NotNil(t, c.State().Notification, "stale expiry must not hide the newer notification")

	c.Handle(NotificationExpiredMsg{ID: state.Notification.ID})
	assert.Nil(t, c.State().Notification)
}

func TestNotificationExpires(t *testing.T) {
	gw := &fakeGateway{}
	gw.listResults = [][]student.Record{{ada}}
	c := New(gw, Options{After: immediate, NotificationTTL: time.Millisecond})
	run(t, c, c.Attach(context.Background()))

	c.OpenCreate()
	runExpiring(t, c, c.Submit())
	assert.Nil(t, c.State().Notification)
}

func TestDismiss(t *testing.T) {
	c := ready(t, &fakeGateway{})
	c.OpenCreate()
	_ = c.Submit()
	require.NotNil(t, c.State().Notification)

	c.Dismiss()
	assert.Nil(t, c.State().Notification)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	gw := &fakeGateway{listResults: [][]student.Record{{ada}}}
	c := newController(gw)

	var phases []Phase
	unsubscribe := c.Subscribe(func(s State) { phases = append(phases, s.Phase) })
	run(t, c, c.Attach(context.Background()))
	assert.Equal(t, []Phase{PhaseLoading, PhaseReady}, phases)

	unsubscribe()
	c.OpenCreate()
	assert.Len(t, phases, 2)
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	c := ready(t, &fakeGateway{}, ada)
	snapshot := c.State()
	snapshot.Records[0].Name = "Changed"
	assert.Equal(t, "Ada", c.State().Records[0].Name)
}

func TestPhaseLoggerWritesTransitions(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	gw := &fakeGateway{listErr: rostererrors.NewHTTPError("list students", 503, "")}
	c := newController(gw)
	c.Subscribe(PhaseLogger(log))
	run(t, c, c.Attach(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "roster loading")
	assert.Contains(t, out, "roster failed to load")
	assert.Contains(t, out, "503")
}

func TestBatch(t *testing.T) {
	assert.Nil(t, Batch(nil, nil))

	single := Cmd(func() Msg { return "one" })
	got := Batch(nil, single)
	require.NotNil(t, got)
	assert.Equal(t, "one", got())

	both := Batch(single, single)
	msg, ok := both().(BatchMsg)
	require.True(t, ok)
	assert.Len(t, msg, 2)
}
