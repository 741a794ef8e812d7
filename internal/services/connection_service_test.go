package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
)

type connectionFixture struct {
	svc      *ConnectionService
	conns    *fakeConnectionRepo
	profiles *fakeProfileRepo
	notes    *fakeNotificationRepo
	activity *fakeActivityRepo
	recorder *countingRecorder
}

func newConnectionFixture(t *testing.T) *connectionFixture {
	t.Helper()
	f := &connectionFixture{
		conns: newFakeConnectionRepo(),
		profiles: newFakeProfileRepo(
			models.Profile{ID: "alice", Name: "Alice", Major: "Art", Year: "Junior"},
			models.Profile{ID: "bob", Name: "Bob", Major: "Biology", Year: "Senior"},
			models.Profile{ID: "cara", Name: "Cara", Major: "Physics", Year: "Freshman"},
		),
		notes:    &fakeNotificationRepo{},
		activity: &fakeActivityRepo{},
		recorder: &countingRecorder{},
	}
	f.svc = NewConnectionService(f.conns, f.profiles, f.notes, f.activity, f.recorder, nil)
	return f
}

func (f *connectionFixture) status(t *testing.T, viewer, target string) Status {
	t.Helper()
	s, err := f.svc.Status(context.Background(), viewer, target)
	if err != nil {
		t.Fatalf("Status(%s, %s): %v", viewer, target, err)
	}
	return s
}

func TestConnectionLifecycleAccept(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if s := f.status(t, "alice", "bob"); s != StatusIdle {
		t.Fatalf("expected idle before any request, got %s", s)
	}

	res, err := f.svc.Submit(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != StatusPending || !res.Created {
		t.Fatalf("unexpected result %+v", res)
	}
	if s := f.status(t, "alice", "bob"); s != StatusPending {
		t.Fatalf("sender sees %s, want pending", s)
	}
	if s := f.status(t, "bob", "alice"); s != StatusReceived {
		t.Fatalf("receiver sees %s, want received", s)
	}

	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "accepted"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if a, b := f.status(t, "alice", "bob"), f.status(t, "bob", "alice"); a != StatusAccepted || b != StatusAccepted {
		t.Fatalf("after accept got %s / %s", a, b)
	}

	if len(f.notes.items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(f.notes.items))
	}
	if n := f.notes.items[0]; n.Type != models.NotificationConnectionRequest || n.RecipientID != "bob" || n.Message != "Alice sent you a connection request" {
		t.Fatalf("unexpected request notification %+v", n)
	}
	if n := f.notes.items[1]; n.Type != models.NotificationConnectionAccepted || n.RecipientID != "alice" {
		t.Fatalf("unexpected accept notification %+v", n)
	}
	if got := f.activity.types(); !reflect.DeepEqual(got, []string{models.EventSent, models.EventAccepted}) {
		t.Fatalf("unexpected activity %v", got)
	}
	if f.recorder.get(ActionSend, OutcomeCreated) != 1 || f.recorder.get(ActionRespond, OutcomeAccepted) != 1 {
		t.Fatalf("unexpected metrics %v", f.recorder.counts)
	}
}

func TestConnectionLifecycleRejectThenResend(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "rejected"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if s := f.status(t, "alice", "bob"); s != StatusRejected {
		t.Fatalf("sender sees %s, want rejected", s)
	}

	again, err := f.svc.Submit(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.Status != StatusPending || !again.Created {
		t.Fatalf("unexpected resubmit result %+v", again)
	}
	if again.Request.ID != res.Request.ID {
		t.Fatalf("resubmit should reopen row %d, got %d", res.Request.ID, again.Request.ID)
	}
	if s := f.status(t, "alice", "bob"); s != StatusPending {
		t.Fatalf("after resubmit sender sees %s", s)
	}
	if s := f.status(t, "bob", "alice"); s != StatusReceived {
		t.Fatalf("after resubmit receiver sees %s", s)
	}
	if len(f.conns.rows) != 1 {
		t.Fatalf("expected a single pair row, got %d", len(f.conns.rows))
	}
	if f.recorder.get(ActionSend, OutcomeReopened) != 1 {
		t.Fatalf("reopen not counted: %v", f.recorder.counts)
	}
}

func TestRejectedReceiverMayRequestBack(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	res, _ := f.svc.Submit(ctx, "alice", "bob")
	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "rejected"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if s := f.status(t, "bob", "alice"); s != StatusIdle {
		t.Fatalf("rejecter sees %s, want idle", s)
	}

	back, err := f.svc.Submit(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("Submit back: %v", err)
	}
	if back.Request.SenderID != "bob" || back.Request.ReceiverID != "alice" {
		t.Fatalf("row not reoriented: %+v", back.Request)
	}
	if s := f.status(t, "alice", "bob"); s != StatusReceived {
		t.Fatalf("alice sees %s, want received", s)
	}
}

func TestSubmitDuplicateIsPendingWithoutInsert(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	res, err := f.svc.Submit(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("duplicate Submit: %v", err)
	}
	if res.Status != StatusPending || res.Created {
		t.Fatalf("unexpected duplicate result %+v", res)
	}
	if len(f.conns.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(f.conns.rows))
	}
}

func TestSubmitConflictMapsToPending(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// A racing submission that passed the pre-check before the first insert landed.
	f.conns.hideFromFind = true
	res, err := f.svc.Submit(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("racing Submit: %v", err)
	}
	if res.Status != StatusPending || res.Created {
		t.Fatalf("conflict should map to existing pending, got %+v", res)
	}
	if f.recorder.get(ActionSend, OutcomeDuplicate) != 1 {
		t.Fatalf("duplicate not counted: %v", f.recorder.counts)
	}
}

func TestSubmitConflictWithIncomingPendingIsInvalid(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "bob", "alice"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, "alice", "bob"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition when a request is waiting, got %v", err)
	}

	f.conns.hideFromFind = true
	if _, err := f.svc.Submit(ctx, "alice", "bob"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from the conflict path, got %v", err)
	}
	if len(f.conns.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(f.conns.rows))
	}
}

func TestSubmitGuards(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "", "bob"); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if _, err := f.svc.Submit(ctx, "alice", "alice"); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
	if _, err := f.svc.Submit(ctx, "alice", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	f.conns.createErr = errStoreDown
	if _, err := f.svc.Submit(ctx, "alice", "bob"); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestStatusErrors(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Status(ctx, "alice", "alice"); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
	f.conns.findErr = errStoreDown
	s, err := f.svc.Status(ctx, "alice", "bob")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if s.CanRequest() {
		t.Fatalf("failed lookup must not allow requests, got %s", s)
	}
	if _, err := f.svc.Submit(ctx, "alice", "bob"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Submit should not insert when status is unknown, got %v", err)
	}
}

func TestStatusesForReportsUnknownOnFailure(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Submit(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := f.svc.StatusesFor(ctx, "alice", []string{"alice", "bob", "cara"})
	if err != nil {
		t.Fatalf("StatusesFor: %v", err)
	}
	if got["bob"] != StatusPending || got["cara"] != StatusIdle {
		t.Fatalf("unexpected statuses %v", got)
	}

	f.conns.findErr = errStoreDown
	got, err = f.svc.StatusesFor(ctx, "alice", []string{"bob", "cara"})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	for id, s := range got {
		if s != StatusUnknown {
			t.Fatalf("%s should be unknown, got %s", id, s)
		}
	}
}

func TestRespondGuards(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()
	res, _ := f.svc.Submit(ctx, "alice", "bob")

	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "maybe"); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, "alice", res.Request.ID, "accepted"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender must not respond, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, "cara", res.Request.ID, "accepted"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger must not respond, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, "bob", 999, "accepted"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "accepted"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "rejected"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("answered request must not change again, got %v", err)
	}
}

func TestSideEffectFailuresDoNotFailRequest(t *testing.T) {
	f := newConnectionFixture(t)
	f.notes.err = errStoreDown
	if _, err := f.svc.Submit(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("notification failure should be logged only, got %v", err)
	}
}

func TestPendingRequestsAndConnections(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	first, _ := f.svc.Submit(ctx, "alice", "bob")
	f.conns.rows[first.Request.ID].CreatedAt = time.Now().Add(-time.Hour)
	if _, err := f.svc.Submit(ctx, "cara", "bob"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	pending, err := f.svc.PendingRequests(ctx, "bob")
	if err != nil {
		t.Fatalf("PendingRequests: %v", err)
	}
	if len(pending) != 2 || pending[0].Sender.ID != "cara" || pending[1].Sender.ID != "alice" {
		t.Fatalf("expected newest first with senders, got %+v", pending)
	}
	if pending[1].Sender.Name != "Alice" || pending[1].Sender.Interests == nil {
		t.Fatalf("sender profile not filled: %+v", pending[1].Sender)
	}

	if _, err := f.svc.Respond(ctx, "bob", first.Request.ID, "accepted"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	for _, viewer := range []string{"alice", "bob"} {
		conns, err := f.svc.Connections(ctx, viewer)
		if err != nil {
			t.Fatalf("Connections(%s): %v", viewer, err)
		}
		if len(conns) != 1 {
			t.Fatalf("%s: expected 1 connection, got %d", viewer, len(conns))
		}
		if conns[0].User.ID == viewer {
			t.Fatalf("%s: connection should show the other user", viewer)
		}
	}
}

func TestRemoveConnection(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	res, _ := f.svc.Submit(ctx, "alice", "bob")
	if err := f.svc.RemoveConnection(ctx, "alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pending request is not a connection, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, "bob", res.Request.ID, "accepted"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if err := f.svc.RemoveConnection(ctx, "bob", "alice"); err != nil {
		t.Fatalf("RemoveConnection: %v", err)
	}
	if s := f.status(t, "alice", "bob"); s != StatusIdle {
		t.Fatalf("after removal expected idle, got %s", s)
	}
}

func TestSeedAndPurgeRequests(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }

	if _, err := f.svc.Submit(ctx, "bob", "alice"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	n, err := f.svc.SeedRequests(ctx, "alice", false)
	if err != nil {
		t.Fatalf("SeedRequests: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only cara to be seeded, got %d", n)
	}

	n, err = f.svc.SeedRequests(ctx, "alice", true)
	if err != nil {
		t.Fatalf("SeedRequests reset: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 seeded after reset, got %d", n)
	}
	pending, _ := f.svc.PendingRequests(ctx, "alice")
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if gap := pending[0].CreatedAt.Sub(pending[1].CreatedAt); gap != time.Minute {
		t.Fatalf("expected one minute apart, got %s", gap)
	}

	if _, err := f.svc.SeedRequests(ctx, "nobody", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	purged, err := f.svc.PurgeRequests(ctx, "alice")
	if err != nil || purged != 2 {
		t.Fatalf("PurgeRequests = %d, %v", purged, err)
	}
}
