package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
	"go.uber.org/zap"
)

// Actions and outcomes reported to the ActionRecorder.
const (
	ActionSend    = "send"
	ActionRespond = "respond"
	ActionRemove  = "remove"

	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeReopened  = "reopened"
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeRemoved   = "removed"
	OutcomeError     = "error"
)

// ActionRecorder counts connection actions by outcome.
type ActionRecorder interface {
	ConnectionAction(action, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ConnectionAction(string, string) {}

// SubmitResult describes what a submission did. Created is false when the
// request already existed and nothing was written.
type SubmitResult struct {
	Status  Status                    `json:"status"`
	Created bool                      `json:"-"`
	Request *models.ConnectionRequest `json:"request,omitempty"`
}

// PendingRequest is an incoming request together with its sender.
type PendingRequest struct {
	ID        uint                  `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Sender    models.ProfileCompact `json:"sender"`
}

// Connection is an accepted request seen from one side.
type Connection struct {
	RequestID   uint                  `json:"request_id"`
	ConnectedAt time.Time             `json:"connected_at"`
	User        models.ProfileCompact `json:"user"`
}

// ConnectionService derives statuses and applies request transitions.
type ConnectionService struct {
	connections   repositories.ConnectionRepository
	profiles      repositories.ProfileRepository
	notifications repositories.NotificationRepository
	activity      repositories.ActivityRepository // nil when no activity store is configured
	recorder      ActionRecorder
	logger        *zap.Logger
	now           func() time.Time
}

// NewConnectionService creates a ConnectionService. activity, recorder and logger may be nil.
func NewConnectionService(
	connections repositories.ConnectionRepository,
	profiles repositories.ProfileRepository,
	notifications repositories.NotificationRepository,
	activity repositories.ActivityRepository,
	recorder ActionRecorder,
	logger *zap.Logger,
) *ConnectionService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{
		connections:   connections,
		profiles:      profiles,
		notifications: notifications,
		activity:      activity,
		recorder:      recorder,
		logger:        logger,
		now:           time.Now,
	}
}

// Status derives the viewer's status toward targetID from both directed rows.
func (s *ConnectionService) Status(ctx context.Context, viewerID, targetID string) (Status, error) {
	if viewerID == "" {
		return StatusUnknown, ErrAuthRequired
	}
	if viewerID == targetID {
		return StatusUnknown, ErrNotApplicable
	}
	outgoing, err := s.connections.FindRequest(ctx, viewerID, targetID)
	if err != nil {
		return StatusUnknown, unavailable("fetch outgoing request", err)
	}
	incoming, err := s.connections.FindRequest(ctx, targetID, viewerID)
	if err != nil {
		return StatusUnknown, unavailable("fetch incoming request", err)
	}
	return DeriveStatus(outgoing, incoming), nil
}

// StatusesFor derives statuses for many targets with one lookup. The viewer's own
// ID is skipped. When the lookup fails every target is reported as StatusUnknown
// and the error is returned alongside.
func (s *ConnectionService) StatusesFor(ctx context.Context, viewerID string, targetIDs []string) (map[string]Status, error) {
	rows, err := s.connections.ListRequestsInvolving(ctx, viewerID)
	if err != nil {
		statuses := make(map[string]Status, len(targetIDs))
		for _, id := range targetIDs {
			if id != viewerID {
				statuses[id] = StatusUnknown
			}
		}
		return statuses, unavailable("list requests", err)
	}
	return deriveAll(viewerID, targetIDs, rows), nil
}

// Submit sends a request from viewerID to receiverID. The pair's unique key is
// the only guard against duplicates: a conflicting insert is resolved against
// the row that won.
func (s *ConnectionService) Submit(ctx context.Context, viewerID, receiverID string) (*SubmitResult, error) {
	if viewerID == "" {
		return nil, ErrAuthRequired
	}
	if viewerID == receiverID {
		return nil, ErrNotApplicable
	}
	if _, err := s.profiles.GetProfileByID(ctx, receiverID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get receiver profile", err)
	}

	current, err := s.Status(ctx, viewerID, receiverID)
	if err != nil {
		return nil, err
	}
	switch {
	case current == StatusPending:
		s.recorder.ConnectionAction(ActionSend, OutcomeDuplicate)
		return &SubmitResult{Status: StatusPending}, nil
	case !current.CanRequest():
		return nil, fmt.Errorf("%w: cannot send a request while %s", ErrInvalidTransition, current)
	}

	req := &models.ConnectionRequest{
		SenderID:   viewerID,
		ReceiverID: receiverID,
		Status:     models.RequestStatusPending,
	}
	err = s.connections.CreateRequest(ctx, req)
	switch {
	case err == nil:
		s.recorder.ConnectionAction(ActionSend, OutcomeCreated)
		s.afterSend(ctx, req, models.EventSent)
		return &SubmitResult{Status: StatusPending, Created: true, Request: req}, nil
	case repositories.IsUniqueViolation(err):
		return s.resolveConflict(ctx, viewerID, receiverID)
	default:
		s.recorder.ConnectionAction(ActionSend, OutcomeError)
		return nil, failed("create request", err)
	}
}

// resolveConflict handles an insert that lost to an existing pair row.
func (s *ConnectionService) resolveConflict(ctx context.Context, viewerID, receiverID string) (*SubmitResult, error) {
	existing, err := s.connections.GetRequestByPair(ctx, viewerID, receiverID)
	if err != nil {
		return nil, unavailable("fetch conflicting request", err)
	}

	if existing.Status == models.RequestStatusRejected {
		err := s.connections.ReopenRequest(ctx, existing.ID, viewerID, receiverID)
		if err == nil {
			existing.SenderID, existing.ReceiverID = viewerID, receiverID
			existing.Status = models.RequestStatusPending
			s.recorder.ConnectionAction(ActionSend, OutcomeReopened)
			s.afterSend(ctx, existing, models.EventReopened)
			return &SubmitResult{Status: StatusPending, Created: true, Request: existing}, nil
		}
		if !repositories.IsNotFound(err) {
			return nil, failed("reopen request", err)
		}
		// Someone else moved the row first; judge by what is there now.
		if existing, err = s.connections.GetRequestByPair(ctx, viewerID, receiverID); err != nil {
			return nil, unavailable("fetch conflicting request", err)
		}
	}

	if existing.Status == models.RequestStatusPending && existing.SenderID == viewerID {
		s.recorder.ConnectionAction(ActionSend, OutcomeDuplicate)
		s.logger.Debug("duplicate connection request",
			zap.String("sender_id", viewerID),
			zap.String("receiver_id", receiverID),
			zap.Error(ErrDuplicateRequest))
		return &SubmitResult{Status: StatusPending, Request: existing}, nil
	}
	return nil, fmt.Errorf("%w: pair already %s", ErrInvalidTransition, existing.Status)
}

func (s *ConnectionService) afterSend(ctx context.Context, req *models.ConnectionRequest, event string) {
	s.notify(ctx, &models.Notification{
		Type:        models.NotificationConnectionRequest,
		ActorID:     req.SenderID,
		RecipientID: req.ReceiverID,
		RequestID:   req.ID,
		Message:     s.displayName(ctx, req.SenderID) + " sent you a connection request",
	})
	s.record(ctx, req.ID, event, req.SenderID, req.ReceiverID)
}

// Respond lets the receiver accept or reject a pending request.
func (s *ConnectionService) Respond(ctx context.Context, viewerID string, requestID uint, action string) (*models.ConnectionRequest, error) {
	if viewerID == "" {
		return nil, ErrAuthRequired
	}
	to := models.RequestStatus(action)
	if to != models.RequestStatusAccepted && to != models.RequestStatusRejected {
		return nil, newValidationError("status", "Status must be accepted or rejected.")
	}

	req, err := s.connections.GetRequestByID(ctx, requestID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get request", err)
	}
	if req.ReceiverID != viewerID {
		return nil, ErrForbidden
	}
	if req.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("%w: request is already %s", ErrInvalidTransition, req.Status)
	}

	if err := s.connections.UpdateRequestStatus(ctx, req.ID, models.RequestStatusPending, to); err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: request changed while responding", ErrInvalidTransition)
		}
		s.recorder.ConnectionAction(ActionRespond, OutcomeError)
		return nil, failed("update request", err)
	}
	req.Status = to

	if to == models.RequestStatusAccepted {
		s.recorder.ConnectionAction(ActionRespond, OutcomeAccepted)
		s.notify(ctx, &models.Notification{
			Type:        models.NotificationConnectionAccepted,
			ActorID:     viewerID,
			RecipientID: req.SenderID,
			RequestID:   req.ID,
			Message:     s.displayName(ctx, viewerID) + " accepted your connection request",
		})
		s.record(ctx, req.ID, models.EventAccepted, viewerID, req.SenderID)
	} else {
		s.recorder.ConnectionAction(ActionRespond, OutcomeRejected)
		s.record(ctx, req.ID, models.EventRejected, viewerID, req.SenderID)
	}
	return req, nil
}

// PendingRequests lists requests waiting on the viewer, newest first.
func (s *ConnectionService) PendingRequests(ctx context.Context, viewerID string) ([]PendingRequest, error) {
	if viewerID == "" {
		return nil, ErrAuthRequired
	}
	rows, err := s.connections.ListPendingForReceiver(ctx, viewerID)
	if err != nil {
		return nil, unavailable("list pending requests", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SenderID)
	}
	profiles, err := s.compactProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PendingRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, PendingRequest{ID: r.ID, CreatedAt: r.CreatedAt, Sender: profiles[r.SenderID]})
	}
	return out, nil
}

// Connections lists the viewer's accepted connections as the other user's profile.
func (s *ConnectionService) Connections(ctx context.Context, viewerID string) ([]Connection, error) {
	if viewerID == "" {
		return nil, ErrAuthRequired
	}
	rows, err := s.connections.ListAccepted(ctx, viewerID)
	if err != nil {
		return nil, unavailable("list connections", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, otherSide(r, viewerID))
	}
	profiles, err := s.compactProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Connection, 0, len(rows))
	for _, r := range rows {
		out = append(out, Connection{RequestID: r.ID, ConnectedAt: r.UpdatedAt, User: profiles[otherSide(r, viewerID)]})
	}
	return out, nil
}

// RemoveConnection deletes an accepted connection between the viewer and otherID.
func (s *ConnectionService) RemoveConnection(ctx context.Context, viewerID, otherID string) error {
	if viewerID == "" {
		return ErrAuthRequired
	}
	if viewerID == otherID {
		return ErrNotApplicable
	}
	req, err := s.connections.GetRequestByPair(ctx, viewerID, otherID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrNotFound
		}
		return unavailable("get connection", err)
	}
	if req.Status != models.RequestStatusAccepted {
		return ErrNotFound
	}
	if err := s.connections.DeleteRequest(ctx, req.ID); err != nil {
		s.recorder.ConnectionAction(ActionRemove, OutcomeError)
		return failed("delete connection", err)
	}
	s.recorder.ConnectionAction(ActionRemove, OutcomeRemoved)
	s.record(ctx, req.ID, models.EventRemoved, viewerID, otherID)
	return nil
}

// PurgeRequests deletes every request row involving userID and returns how many went.
func (s *ConnectionService) PurgeRequests(ctx context.Context, userID string) (int64, error) {
	n, err := s.connections.DeleteRequestsInvolving(ctx, userID)
	if err != nil {
		return 0, failed("purge requests", err)
	}
	s.record(ctx, 0, models.EventPurged, userID, userID)
	return n, nil
}

// SeedRequests creates a pending request to receiverID from every other profile
// that has no row with it yet. created_at values are one minute apart, newest first.
// With reset, existing rows involving receiverID are purged first.
func (s *ConnectionService) SeedRequests(ctx context.Context, receiverID string, reset bool) (int, error) {
	if receiverID == "" {
		return 0, newValidationError("receiver", "A receiver is required.")
	}
	if _, err := s.profiles.GetProfileByID(ctx, receiverID); err != nil {
		if repositories.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, unavailable("get receiver profile", err)
	}
	if reset {
		if _, err := s.PurgeRequests(ctx, receiverID); err != nil {
			return 0, err
		}
	}

	senders, err := s.profiles.ListProfilesExcept(ctx, receiverID)
	if err != nil {
		return 0, unavailable("list profiles", err)
	}
	rows, err := s.connections.ListRequestsInvolving(ctx, receiverID)
	if err != nil {
		return 0, unavailable("list requests", err)
	}
	linked := make(map[string]bool, len(rows))
	for _, r := range rows {
		linked[otherSide(r, receiverID)] = true
	}

	base := s.now()
	created := 0
	for _, p := range senders {
		if linked[p.ID] {
			continue
		}
		req := &models.ConnectionRequest{
			SenderID:   p.ID,
			ReceiverID: receiverID,
			Status:     models.RequestStatusPending,
			CreatedAt:  base.Add(-time.Duration(created) * time.Minute),
		}
		if err := s.connections.CreateRequest(ctx, req); err != nil {
			if repositories.IsUniqueViolation(err) {
				continue
			}
			return created, failed("seed request", err)
		}
		created++
	}
	return created, nil
}

func (s *ConnectionService) compactProfiles(ctx context.Context, ids []string) (map[string]models.ProfileCompact, error) {
	out := make(map[string]models.ProfileCompact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.profiles.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, unavailable("get profiles", err)
	}
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out[id] = p.ToCompact()
		} else {
			out[id] = models.ProfileCompact{ID: id, Interests: []string{}}
		}
	}
	return out, nil
}

func (s *ConnectionService) displayName(ctx context.Context, userID string) string {
	p, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil || p.Name == "" {
		return "Someone"
	}
	return p.Name
}

func (s *ConnectionService) notify(ctx context.Context, n *models.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("type", n.Type),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err))
	}
}

func (s *ConnectionService) record(ctx context.Context, requestID uint, eventType, actorID, subjectID string) {
	if s.activity == nil {
		return
	}
	err := s.activity.RecordEvent(ctx, &models.ConnectionEvent{
		RequestID: requestID,
		Type:      eventType,
		ActorID:   actorID,
		SubjectID: subjectID,
	})
	if err != nil {
		s.logger.Warn("failed to record activity", zap.String("type", eventType), zap.Error(err))
	}
}

func otherSide(r models.ConnectionRequest, userID string) string {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}
