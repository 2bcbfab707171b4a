package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// DetectionRepository persists AI detection results per user.
type DetectionRepository interface {
	Insert(ctx context.Context, rec models.DetectionRecord) error
	ListByUser(ctx context.Context, userID string) ([]models.DetectionRecord, error)
}

type detectionRepository struct {
	coll *mongo.Collection
}

func (r *detectionRepository) Insert(ctx context.Context, rec models.DetectionRecord) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *detectionRepository) ListByUser(ctx context.Context, userID string) ([]models.DetectionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	records := make([]models.DetectionRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, depErr(err)
	}
	return records, nil
}
