package planting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
)

// GrowthDurationSource looks up the expected days from planting to harvest
// readiness for a crop. The second return is false when the catalog does not
// know the crop or has no duration for it.
type GrowthDurationSource interface {
	GrowthDurationDays(ctx context.Context, vegetableName string) (int, bool, error)
}

// Engine starts planting cycles on empty plots.
type Engine struct {
	plots   mongodb.PlotRepository
	catalog GrowthDurationSource
	logger  *zap.Logger
}

// NewEngine wires a new planting engine instance.
func NewEngine(plots mongodb.PlotRepository, catalog GrowthDurationSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{plots: plots, catalog: catalog, logger: logger}
}

// StartInput carries the fields accepted when opening a cycle. HarvestDueDate
// is only consulted when the catalog has no growth duration for the crop.
type StartInput struct {
	VegetableName  string
	PlantDate      time.Time
	Quantity       int
	HarvestDueDate *time.Time
}

// DeriveHarvestDueDate adds the growth duration to the plant date using
// calendar-day arithmetic, rolling over month and year boundaries.
func DeriveHarvestDueDate(plantDate time.Time, growthDurationDays int) time.Time {
	return plantDate.AddDate(0, 0, growthDurationDays)
}

// Start opens a planting cycle on an empty plot. The plot's stored status is
// re-checked by the guarded write, so a concurrent session that planted first
// surfaces as InvalidStateError rather than a silent overwrite.
func (e *Engine) Start(ctx context.Context, ownerID, plotID string, in StartInput) (*models.Plot, error) {
	plot, err := e.plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if plot.OwnerID != ownerID {
		return nil, &models.NotFoundError{Resource: "plot", ID: plotID}
	}
	if plot.Status != models.PlotStatusEmpty {
		return nil, &models.InvalidStateError{PlotID: plotID, Status: plot.Status, Op: "plant"}
	}

	if in.VegetableName == "" {
		return nil, &models.ValidationError{Field: "vegetable_name", Reason: "must not be empty"}
	}
	if in.Quantity <= 0 {
		return nil, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if in.PlantDate.IsZero() {
		return nil, &models.ValidationError{Field: "plant_date", Reason: "must be a valid date"}
	}

	dueDate, err := e.resolveDueDate(ctx, in)
	if err != nil {
		return nil, err
	}

	plot.Status = models.PlotStatusGrowing
	plot.CurrentPlanting = &models.PlantingRecord{
		VegetableName:  in.VegetableName,
		PlantDate:      in.PlantDate,
		HarvestDueDate: dueDate,
		Quantity:       in.Quantity,
	}
	plot.UpdatedAt = time.Now().UTC()

	if err := e.plots.UpdateWithStatus(ctx, *plot, models.PlotStatusEmpty); err != nil {
		return nil, err
	}

	e.logger.Info("planting started",
		zap.String("plot_id", plotID),
		zap.String("vegetable", in.VegetableName),
		zap.Time("harvest_due", dueDate))
	return plot, nil
}

// resolveDueDate prefers the catalog growth duration; the caller-supplied due
// date is the fallback when the catalog has no answer.
func (e *Engine) resolveDueDate(ctx context.Context, in StartInput) (time.Time, error) {
	if e.catalog != nil {
		days, ok, err := e.catalog.GrowthDurationDays(ctx, in.VegetableName)
		if err != nil {
			var depErr *models.DependencyError
			if errors.As(err, &depErr) {
				return time.Time{}, err
			}
			// An unknown crop is not an error here, just an absent duration.
		} else if ok {
			if days < 0 {
				return time.Time{}, &models.ValidationError{Field: "growth_duration_days", Reason: "must not be negative"}
			}
			return DeriveHarvestDueDate(in.PlantDate, days), nil
		}
	}

	if in.HarvestDueDate == nil {
		return time.Time{}, &models.ValidationError{Field: "harvest_due_date", Reason: "required when the crop has no growth duration"}
	}
	if in.HarvestDueDate.Before(in.PlantDate) {
		return time.Time{}, &models.ValidationError{Field: "harvest_due_date", Reason: "must not precede plant date"}
	}
	return *in.HarvestDueDate, nil
}
