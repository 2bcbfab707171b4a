package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// PlotRepository defines persistence operations for plots.
type PlotRepository interface {
	Insert(ctx context.Context, plot models.Plot) error
	FindByID(ctx context.Context, id string) (*models.Plot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Plot, error)
	Update(ctx context.Context, plot models.Plot) error
	// UpdateWithStatus replaces the plot document only while its stored status
	// still matches expected. Returns InvalidStateError on a status mismatch so
	// concurrent sessions cannot double-plant or double-harvest.
	UpdateWithStatus(ctx context.Context, plot models.Plot, expected models.PlotStatus) error
	Delete(ctx context.Context, id string) error
	// ListDueBetween returns growing plots whose harvest due date falls inside
	// [from, to], used by the reminder scheduler.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]models.Plot, error)
}

type plotRepository struct {
	coll *mongo.Collection
}

func (r *plotRepository) Insert(ctx context.Context, plot models.Plot) error {
	if _, err := r.coll.InsertOne(ctx, plot); err != nil {
		return depErr(err)
	}
	return nil
}

func (r *plotRepository) FindByID(ctx context.Context, id string) (*models.Plot, error) {
	var plot models.Plot
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&plot)
	if err != nil {
		if isNoDocuments(err) {
			return nil, &models.NotFoundError{Resource: "plot", ID: id}
		}
		return nil, depErr(err)
	}
	return &plot, nil
}

// ListByOwner returns the owner's plots ordered by creation time ascending.
// The order is stable across calls.
func (r *plotRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Plot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	plots := make([]models.Plot, 0)
	if err := cursor.All(ctx, &plots); err != nil {
		return nil, depErr(err)
	}
	return plots, nil
}

func (r *plotRepository) Update(ctx context.Context, plot models.Plot) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": plot.ID}, plot)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Resource: "plot", ID: plot.ID}
	}
	return nil
}

func (r *plotRepository) UpdateWithStatus(ctx context.Context, plot models.Plot, expected models.PlotStatus) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": plot.ID, "status": expected}, plot)
	if err != nil {
		return depErr(err)
	}
	if res.MatchedCount == 0 {
		// Either the plot is gone or its status moved under us; disambiguate.
		current, findErr := r.FindByID(ctx, plot.ID)
		if findErr != nil {
			return findErr
		}
		return &models.InvalidStateError{PlotID: plot.ID, Status: current.Status, Op: "transition"}
	}
	return nil
}

func (r *plotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return depErr(err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "plot", ID: id}
	}
	return nil
}

func (r *plotRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]models.Plot, error) {
	filter := bson.M{
		"status": models.PlotStatusGrowing,
		"current_planting.harvest_due_date": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, depErr(err)
	}

	plots := make([]models.Plot, 0)
	if err := cursor.All(ctx, &plots); err != nil {
		return nil, depErr(err)
	}
	return plots, nil
}
