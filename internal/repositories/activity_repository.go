package repositories

import (
	"context"
	"time"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository defines the interface for the connection activity log
type ActivityRepository interface {
	RecordEvent(ctx context.Context, event *models.ConnectionEvent) error
	GetEventsForUser(ctx context.Context, userID string, limit int64) ([]models.ConnectionEvent, error)
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("connection_events")}
}

// EnsureIndexes creates the indexes GetEventsForUser relies on
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// RecordEvent appends an event to the log
func (r *MongoActivityRepository) RecordEvent(ctx context.Context, event *models.ConnectionEvent) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetEventsForUser returns events where the user acted or was acted upon, newest first
func (r *MongoActivityRepository) GetEventsForUser(ctx context.Context, userID string, limit int64) ([]models.ConnectionEvent, error) {
	filter := bson.M{"$or": []bson.M{
		{"actor_id": userID},
		{"subject_id": userID},
	}}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.ConnectionEvent{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
