package models

import "time"

// RequestStatus is the stored state of a connection request row.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// ConnectionRequest is a directed request from Sender to Receiver.
// PairKey is the same for both orderings of a pair, so the unique index
// keeps at most one row per unordered pair.
type ConnectionRequest struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	SenderID   string        `json:"sender_id" gorm:"type:varchar(36);index;not null"`
	ReceiverID string        `json:"receiver_id" gorm:"type:varchar(36);index;not null"`
	PairKey    string        `json:"-" gorm:"size:80;uniqueIndex;not null"`
	Status     RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// PairKey returns the canonical key for the unordered pair {a, b}.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// CreateConnectionRequest defines the request body for sending a connection request
type CreateConnectionRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
}

// RespondConnectionRequest defines the request body for accepting/rejecting a connection request
type RespondConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
