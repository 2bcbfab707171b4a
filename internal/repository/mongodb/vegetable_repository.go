package mongodb

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// VegetableRepository defines persistence operations for the crop catalog.
type VegetableRepository interface {
	Insert(ctx context.Context, veg models.Vegetable) error
	FindByID(ctx context.Context, id string) (*models.Vegetable, error)
	// FindByName matches the catalog name case-insensitively.
	FindByName(ctx context.Context, name string) (*models.Vegetable, error)
	List(ctx context.Context) ([]models.Vegetable, error)
	Update(ctx context.Context, veg models.Vegetable) error
	Delete(ctx context.Context, id string) error
}

type vegetableRepository struct {
	coll *mongo.Collection
}

func (r *vegetableRepository) Insert(ctx context.Context, veg models.Vegetable) error {
	if _, err := r.coll.InsertOne(ctx, veg); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *vegetableRepository) FindByID(ctx context.Context, id string) (*models.Vegetable, error) {
	var veg models.Vegetable
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&veg)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: "vegetable", ID: id}
		}
		return nil, depErr(err)
	}
	return &veg, nil
}

func (r *vegetableRepository) FindByName(ctx context.Context, name string) (*models.Vegetable, error) {
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}

	var veg models.Vegetable
	err := r.coll.FindOne(ctx, filter).Decode(&veg)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: "vegetable", ID: name}
		}
		return nil, depErr(err)
	}
	return &veg, nil
}

func (r *vegetableRepository) List(ctx context.Context) ([]models.Vegetable, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	vegs := make([]models.Vegetable, 0)
	if err := cursor.All(ctx, &vegs); err != nil {
		return nil, depErr(err)
	}
	return vegs, nil
}

func (r *vegetableRepository) Update(ctx context.Context, veg models.Vegetable) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": veg.ID}, veg)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Resource: "vegetable", ID: veg.ID}
	}
	return nil
}

func (r *vegetableRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return depErr(err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "vegetable", ID: id}
	}
	return nil
}
