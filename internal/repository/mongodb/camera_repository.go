package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// CameraRepository defines persistence operations for CCTV entries.
type CameraRepository interface {
	Insert(ctx context.Context, cam models.Camera) error
	FindByID(ctx context.Context, id string) (*models.Camera, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Camera, error)
	Update(ctx context.Context, cam models.Camera) error
	Delete(ctx context.Context, id string) error
}

type cameraRepository struct {
	coll *mongo.Collection
}

func (r *cameraRepository) Insert(ctx context.Context, cam models.Camera) error {
	if _, err := r.coll.InsertOne(ctx, cam); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *cameraRepository) FindByID(ctx context.Context, id string) (*models.Camera, error) {
	var cam models.Camera
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cam)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: "camera", ID: id}
		}
		return nil, depErr(err)
	}
	return &cam, nil
}

func (r *cameraRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Camera, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	cams := make([]models.Camera, 0)
	if err := cursor.All(ctx, &cams); err != nil {
		return nil, depErr(err)
	}
	return cams, nil
}

func (r *cameraRepository) Update(ctx context.Context, cam models.Camera) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": cam.ID}, cam)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Resource: "camera", ID: cam.ID}
	}
	return nil
}

func (r *cameraRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return depErr(err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "camera", ID: id}
	}
	return nil
}
