package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// HarvestRepository persists the append-only harvest history.
type HarvestRepository interface {
	// CloseCycle atomically empties the plot and appends the harvest record.
	// The plot write carries a status guard so a cycle closed from another
	// session surfaces as InvalidStateError instead of a duplicate record.
	// Either both writes land or neither does.
	CloseCycle(ctx context.Context, emptiedPlot models.Plot, rec models.HarvestRecord) error
	ListByPlot(ctx context.Context, plotID string) ([]models.HarvestRecord, error)
}

type harvestRepository struct {
	client   *mongo.Client
	plots    *mongo.Collection
	harvests *mongo.Collection
}

func (r *harvestRepository) CloseCycle(ctx context.Context, emptiedPlot models.Plot, rec models.HarvestRecord) error {
	session, err := r.client.StartSession()
	if err != nil {
		return depErr(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": emptiedPlot.ID, "status": models.PlotStatusGrowing}
		res, err := r.plots.ReplaceOne(sc, filter, emptiedPlot)
		if err != nil {
			return nil, depErr(err)
		}
		if res.MatchedCount == 0 {
			var plot models.Plot
			if findErr := r.plots.FindOne(sc, bson.M{"_id": emptiedPlot.ID}).Decode(&plot); findErr != nil {
				if isNoDocuments(findErr) {
					return nil, &models.NotFoundError{Resource: "plot", ID: emptiedPlot.ID}
				}
				return nil, depErr(findErr)
			}
			return nil, &models.InvalidStateError{PlotID: emptiedPlot.ID, Status: plot.Status, Op: "harvest"}
		}

		if _, err := r.harvests.InsertOne(sc, rec); err != nil {
			return nil, depErr(err)
		}
		return nil, nil
	})
	return err
}

// ListByPlot returns the plot's records in insertion order.
func (r *harvestRepository) ListByPlot(ctx context.Context, plotID string) ([]models.HarvestRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.harvests.Find(ctx, bson.M{"plot_id": plotID}, opts)
	if err != nil {
		return nil, depErr(err)
	}

	records := make([]models.HarvestRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, depErr(err)
	}
	return records, nil
}
