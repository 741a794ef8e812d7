package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection event types recorded in the activity log.
const (
	EventSent     = "sent"
	EventReopened = "reopened"
	EventAccepted = "accepted"
	EventRejected = "rejected"
	EventRemoved  = "removed"
	EventPurged   = "purged"
)

// ConnectionEvent is one entry of the activity log stored in MongoDB
type ConnectionEvent struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID uint               `json:"request_id" bson:"request_id"`
	Type      string             `json:"type" bson:"type"`
	ActorID   string             `json:"actor_id" bson:"actor_id"`     // who acted
	SubjectID string             `json:"subject_id" bson:"subject_id"` // the other side
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
