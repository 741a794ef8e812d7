package repositories

import (
	"context"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection-request data operations
type ConnectionRepository interface {
	// FindRequest returns the row sent by senderID to receiverID, or nil when there is none.
	FindRequest(ctx context.Context, senderID, receiverID string) (*models.ConnectionRequest, error)
	GetRequestByID(ctx context.Context, id uint) (*models.ConnectionRequest, error)
	GetRequestByPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error)
	ListRequestsInvolving(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID string) ([]models.ConnectionRequest, error)
	ListAccepted(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	CreateRequest(ctx context.Context, req *models.ConnectionRequest) error
	// UpdateRequestStatus moves a row from one status to another. It returns
	// gorm.ErrRecordNotFound when no row with that id is currently in status from.
	UpdateRequestStatus(ctx context.Context, id uint, from, to models.RequestStatus) error
	ReopenRequest(ctx context.Context, id uint, senderID, receiverID string) error
	DeleteRequest(ctx context.Context, id uint) error
	DeleteRequestsInvolving(ctx context.Context, userID string) (int64, error)
}

// PostgresConnectionRepository implements ConnectionRepository
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) FindRequest(ctx context.Context, senderID, receiverID string) (*models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Limit(1).Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}

// GetRequestByID retrieves a connection request by ID
func (r *PostgresConnectionRepository) GetRequestByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequestByPair retrieves the single row for the unordered pair {a, b}
func (r *PostgresConnectionRepository) GetRequestByPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).Where("pair_key = ?", models.PairKey(a, b)).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequestsInvolving returns every row where userID is sender or receiver
func (r *PostgresConnectionRepository) ListRequestsInvolving(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&reqs).Error
	return reqs, err
}

// ListPendingForReceiver returns pending requests addressed to receiverID, newest first
func (r *PostgresConnectionRepository) ListPendingForReceiver(ctx context.Context, receiverID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.RequestStatusPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListAccepted returns accepted rows where userID is either side, most recently accepted first
func (r *PostgresConnectionRepository) ListAccepted(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.RequestStatusAccepted).
		Order("updated_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// CreateRequest inserts a new row. The pair key is derived from the sender and receiver.
func (r *PostgresConnectionRepository) CreateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	req.PairKey = models.PairKey(req.SenderID, req.ReceiverID)
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// UpdateRequestStatus updates the status of a connection request
func (r *PostgresConnectionRepository) UpdateRequestStatus(ctx context.Context, id uint, from, to models.RequestStatus) error {
	res := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReopenRequest turns an existing pair row back into a pending request from senderID.
// Only rejected rows are reopened; RowsAffected == 0 means the row changed underneath us.
func (r *PostgresConnectionRepository) ReopenRequest(ctx context.Context, id uint, senderID, receiverID string) error {
	res := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusRejected).
		Updates(map[string]interface{}{
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"status":      models.RequestStatusPending,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRequest deletes a connection request
func (r *PostgresConnectionRepository) DeleteRequest(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ConnectionRequest{}, id).Error
}

// DeleteRequestsInvolving purges every row where userID is sender or receiver
func (r *PostgresConnectionRepository) DeleteRequestsInvolving(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.ConnectionRequest{})
	return res.RowsAffected, res.Error
}
