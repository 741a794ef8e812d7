package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("connection refused")

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	err      error
}

func newFakeProfileRepo(profiles ...models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]models.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) UpsertProfile(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *p
	cp.Interests = append([]string(nil), p.Interests...)
	r.profiles[p.ID] = cp
	return nil
}

func (r *fakeProfileRepo) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Interests = append([]string(nil), p.Interests...)
	return &p, nil
}

func (r *fakeProfileRepo) GetProfilesByIDs(_ context.Context, ids []string) (map[string]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]models.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ListProfilesExcept(_ context.Context, excludeID string) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Profile
	for id, p := range r.profiles {
		if id != excludeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeConnectionRepo keeps one row per unordered pair, like the real unique index.
type fakeConnectionRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.ConnectionRequest

	findErr   error
	createErr error
	// hideFromFind makes FindRequest miss rows so the insert path hits the conflict.
	hideFromFind bool
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{rows: make(map[uint]*models.ConnectionRequest)}
}

func (r *fakeConnectionRepo) byPair(a, b string) *models.ConnectionRequest {
	key := models.PairKey(a, b)
	for _, row := range r.rows {
		if row.PairKey == key {
			return row
		}
	}
	return nil
}

func (r *fakeConnectionRepo) FindRequest(_ context.Context, senderID, receiverID string) (*models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.hideFromFind {
		return nil, nil
	}
	for _, row := range r.rows {
		if row.SenderID == senderID && row.ReceiverID == receiverID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeConnectionRepo) GetRequestByID(_ context.Context, id uint) (*models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeConnectionRepo) GetRequestByPair(_ context.Context, a, b string) (*models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.byPair(a, b)
	if row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeConnectionRepo) ListRequestsInvolving(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.ConnectionRequest
	for _, row := range r.rows {
		if row.SenderID == userID || row.ReceiverID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) ListPendingForReceiver(_ context.Context, receiverID string) ([]models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ConnectionRequest
	for _, row := range r.rows {
		if row.ReceiverID == receiverID && row.Status == models.RequestStatusPending {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeConnectionRepo) ListAccepted(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ConnectionRequest
	for _, row := range r.rows {
		if (row.SenderID == userID || row.ReceiverID == userID) && row.Status == models.RequestStatusAccepted {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeConnectionRepo) CreateRequest(_ context.Context, req *models.ConnectionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	req.PairKey = models.PairKey(req.SenderID, req.ReceiverID)
	if r.byPair(req.SenderID, req.ReceiverID) != nil {
		return gorm.ErrDuplicatedKey
	}
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}
	r.nextID++
	req.ID = r.nextID
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	req.UpdatedAt = req.CreatedAt
	cp := *req
	r.rows[req.ID] = &cp
	return nil
}

func (r *fakeConnectionRepo) UpdateRequestStatus(_ context.Context, id uint, from, to models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Status != from {
		return gorm.ErrRecordNotFound
	}
	row.Status = to
	row.UpdatedAt = time.Now()
	return nil
}

func (r *fakeConnectionRepo) ReopenRequest(_ context.Context, id uint, senderID, receiverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Status != models.RequestStatusRejected {
		return gorm.ErrRecordNotFound
	}
	row.SenderID, row.ReceiverID = senderID, receiverID
	row.Status = models.RequestStatusPending
	return nil
}

func (r *fakeConnectionRepo) DeleteRequest(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeConnectionRepo) DeleteRequestsInvolving(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, row := range r.rows {
		if row.SenderID == userID || row.ReceiverID == userID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []models.Notification
	err   error
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	n.ID = uint(len(r.items) + 1)
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(context.Context, uint) (*models.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) GetByRecipientID(context.Context, string, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(context.Context, string) (int64, error) { return 0, nil }
func (r *fakeNotificationRepo) MarkAsRead(context.Context, uint) error                { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(context.Context, string) error           { return nil }

type fakeActivityRepo struct {
	mu     sync.Mutex
	events []models.ConnectionEvent
}

func (r *fakeActivityRepo) RecordEvent(_ context.Context, e *models.ConnectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeActivityRepo) GetEventsForUser(context.Context, string, int64) ([]models.ConnectionEvent, error) {
	return nil, nil
}

func (r *fakeActivityRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ConnectionAction(action, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[action+"/"+outcome]++
}

func (r *countingRecorder) get(action, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[action+"/"+outcome]
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	err      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User), sessions: make(map[string]*models.Session)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) CreateSession(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetSession(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeUserRepo) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeVerifier struct {
	tokens map[string]*auth.Token
}

func (v fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if t, ok := v.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("token not recognised")
}
