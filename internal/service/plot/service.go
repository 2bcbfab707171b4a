package plot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
)

// Service owns plot CRUD for an authenticated owner. Lifecycle transitions
// (planting, harvest) live in their own services; this one never touches
// Status or CurrentPlanting.
type Service struct {
	plots  mongodb.PlotRepository
	logger *zap.Logger
}

// NewService wires a new plot service instance.
func NewService(plots mongodb.PlotRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{plots: plots, logger: logger}
}

// CreateInput carries the fields accepted at plot creation.
type CreateInput struct {
	Name     string
	Area     float64
	AreaUnit models.AreaUnit
	ImageRef string
}

// UpdateInput carries a partial update; nil fields stay untouched.
type UpdateInput struct {
	Name     *string
	Area     *float64
	AreaUnit *models.AreaUnit
	ImageRef *string
}

// Create validates the input and stores a new empty plot.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*models.Plot, error) {
	if in.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Area <= 0 {
		return nil, &models.ValidationError{Field: "area", Reason: "must be positive"}
	}
	if !in.AreaUnit.Valid() {
		return nil, &models.ValidationError{Field: "area_unit", Reason: "unknown unit"}
	}

	now := time.Now().UTC()
	plot := models.Plot{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Area:      in.Area,
		AreaUnit:  in.AreaUnit,
		ImageRef:  in.ImageRef,
		Status:    models.PlotStatusEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.plots.Insert(ctx, plot); err != nil {
		return nil, err
	}

	s.logger.Info("plot created", zap.String("plot_id", plot.ID), zap.String("owner_id", ownerID))
	return &plot, nil
}

// Get loads a plot scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, plotID string) (*models.Plot, error) {
	plot, err := s.plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if plot.OwnerID != ownerID {
		return nil, &models.NotFoundError{Resource: "plot", ID: plotID}
	}
	return plot, nil
}

// Update applies a partial update to the plot's descriptive fields.
func (s *Service) Update(ctx context.Context, ownerID, plotID string, in UpdateInput) (*models.Plot, error) {
	plot, err := s.Get(ctx, ownerID, plotID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		plot.Name = *in.Name
	}
	if in.Area != nil {
		if *in.Area <= 0 {
			return nil, &models.ValidationError{Field: "area", Reason: "must be positive"}
		}
		plot.Area = *in.Area
	}
	if in.AreaUnit != nil {
		if !in.AreaUnit.Valid() {
			return nil, &models.ValidationError{Field: "area_unit", Reason: "unknown unit"}
		}
		plot.AreaUnit = *in.AreaUnit
	}
	if in.ImageRef != nil {
		plot.ImageRef = *in.ImageRef
	}
	plot.UpdatedAt = time.Now().UTC()

	if err := s.plots.Update(ctx, *plot); err != nil {
		return nil, err
	}
	return plot, nil
}

// Delete removes the plot from the owner's visible set. Deletion is allowed
// in any lifecycle state; already-issued harvest records stay untouched.
func (s *Service) Delete(ctx context.Context, ownerID, plotID string) error {
	if _, err := s.Get(ctx, ownerID, plotID); err != nil {
		return err
	}
	if err := s.plots.Delete(ctx, plotID); err != nil {
		return err
	}

	s.logger.Info("plot deleted", zap.String("plot_id", plotID), zap.String("owner_id", ownerID))
	return nil
}

// List returns all plots of the owner ordered by creation time.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Plot, error) {
	return s.plots.ListByOwner(ctx, ownerID)
}
