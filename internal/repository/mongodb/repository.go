package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasetgo/kaset/internal/domain/models"
)

const (
	collPlots      = "plots"
	collHarvests   = "harvests"
	collUsers      = "users"
	collVegetables = "vegetables"
	collDiseases   = "diseases"
	collPests      = "pests"
	collCameras    = "cameras"
	collDetections = "detections"
)

// Store owns the MongoDB client and hands out collection-scoped repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Plots returns the plot repository.
func (s *Store) Plots() PlotRepository {
	return &plotRepository{coll: s.db.Collection(collPlots)}
}

// Harvests returns the harvest history repository.
func (s *Store) Harvests() HarvestRepository {
	return &harvestRepository{
		client:   s.client,
		plots:    s.db.Collection(collPlots),
		harvests: s.db.Collection(collHarvests),
	}
}

// Users returns the user repository.
func (s *Store) Users() UserRepository {
	return &userRepository{coll: s.db.Collection(collUsers)}
}

// Vegetables returns the crop catalog repository.
func (s *Store) Vegetables() VegetableRepository {
	return &vegetableRepository{coll: s.db.Collection(collVegetables)}
}

// Diseases returns the disease reference catalog repository.
func (s *Store) Diseases() CatalogRepository {
	return &catalogRepository{coll: s.db.Collection(collDiseases), kind: models.CatalogDisease}
}

// Pests returns the pest reference catalog repository.
func (s *Store) Pests() CatalogRepository {
	return &catalogRepository{coll: s.db.Collection(collPests), kind: models.CatalogPest}
}

// Cameras returns the CCTV repository.
func (s *Store) Cameras() CameraRepository {
	return &cameraRepository{coll: s.db.Collection(collCameras)}
}

// Detections returns the AI detection repository.
func (s *Store) Detections() DetectionRepository {
	return &detectionRepository{coll: s.db.Collection(collDetections)}
}

// depErr wraps driver failures into the typed dependency error the service
// layer propagates untouched.
func depErr(err error) error {
	return &models.DependencyError{Dependency: "mongodb", Err: err}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
