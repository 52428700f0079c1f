package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

const collectionAuthEvents = "auth_events"

// AuthEventRepository implements ports.AuthEventRepository using MongoDB.
type AuthEventRepository struct {
	db *mongo.Database
}

// NewAuthEventRepository creates a new AuthEventRepository.
func NewAuthEventRepository(db *mongo.Database) ports.AuthEventRepository {
	return &AuthEventRepository{db: db}
}

// InsertEvent persists an authentication event to the audit collection.
func (r *AuthEventRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"subject":     event.Subject,
		"kind":        string(event.Kind),
		"success":     event.Success,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}

	_, err := r.db.Collection(collectionAuthEvents).InsertOne(ctx, doc)
	return err
}
