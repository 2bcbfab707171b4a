package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// CatalogRepository persists one of the admin reference catalogs (diseases or
// pests). Both catalogs share a shape so one implementation serves both,
// scoped to its own collection.
type CatalogRepository interface {
	Kind() models.CatalogKind
	Insert(ctx context.Context, entry models.CatalogEntry) error
	FindByID(ctx context.Context, id string) (*models.CatalogEntry, error)
	List(ctx context.Context) ([]models.CatalogEntry, error)
	Update(ctx context.Context, entry models.CatalogEntry) error
	Delete(ctx context.Context, id string) error
}

type catalogRepository struct {
	coll *mongo.Collection
	kind models.CatalogKind
}

func (r *catalogRepository) Kind() models.CatalogKind { return r.kind }

func (r *catalogRepository) Insert(ctx context.Context, entry models.CatalogEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *catalogRepository) FindByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: string(r.kind), ID: id}
		}
		return nil, depErr(err)
	}
	return &entry, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]models.CatalogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	entries := make([]models.CatalogEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, depErr(err)
	}
	return entries, nil
}

func (r *catalogRepository) Update(ctx context.Context, entry models.CatalogEntry) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Resource: string(r.kind), ID: entry.ID}
	}
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return depErr(err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: string(r.kind), ID: id}
	}
	return nil
}
