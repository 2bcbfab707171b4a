package harvest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
)

// Ledger closes active planting cycles and appends the outcome to the plot's
// immutable history.
type Ledger struct {
	plots    mongodb.PlotRepository
	harvests mongodb.HarvestRepository
	logger   *zap.Logger
}

// NewLedger wires a new harvest ledger instance.
func NewLedger(plots mongodb.PlotRepository, harvests mongodb.HarvestRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{plots: plots, harvests: harvests, logger: logger}
}

// RecordInput carries the outcome of one harvest. Expense defaults to zero.
type RecordInput struct {
	ActualHarvestDate time.Time
	AmountKg          float64
	Income            float64
	Expense           float64
	Note              string
}

// Result is the created record plus the advisory early-harvest flag. NotYetDue
// never blocks the harvest; the UI may surface it.
type Result struct {
	Record    models.HarvestRecord
	NotYetDue bool
}

// Record closes the plot's active cycle. The detach of the planting and the
// append of the record happen in one transactional write, so a failure leaves
// the plot growing and the history unchanged.
func (l *Ledger) Record(ctx context.Context, ownerID, plotID string, in RecordInput) (*Result, error) {
	plot, err := l.plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if plot.OwnerID != ownerID {
		return nil, &models.NotFoundError{Resource: "plot", ID: plotID}
	}
	if !plot.Growing() {
		return nil, &models.InvalidStateError{PlotID: plotID, Status: plot.Status, Op: "harvest"}
	}

	if in.ActualHarvestDate.IsZero() {
		return nil, &models.ValidationError{Field: "actual_harvest_date", Reason: "must be a valid date"}
	}
	if in.AmountKg < 0 {
		return nil, &models.ValidationError{Field: "amount_kg", Reason: "must not be negative"}
	}
	if in.Income < 0 {
		return nil, &models.ValidationError{Field: "income", Reason: "must not be negative"}
	}
	if in.Expense < 0 {
		return nil, &models.ValidationError{Field: "expense", Reason: "must not be negative"}
	}

	planting := *plot.CurrentPlanting
	rec := models.HarvestRecord{
		ID:                uuid.NewString(),
		PlotID:            plot.ID,
		VegetableName:     planting.VegetableName,
		PlantDate:         planting.PlantDate,
		HarvestDueDate:    planting.HarvestDueDate,
		ActualHarvestDate: in.ActualHarvestDate,
		Quantity:          planting.Quantity,
		AmountKg:          in.AmountKg,
		Income:            in.Income,
		Expense:           in.Expense,
		Note:              in.Note,
		CreatedAt:         time.Now().UTC(),
	}

	emptied := *plot
	emptied.Status = models.PlotStatusEmpty
	emptied.CurrentPlanting = nil
	emptied.UpdatedAt = rec.CreatedAt

	if err := l.harvests.CloseCycle(ctx, emptied, rec); err != nil {
		return nil, err
	}

	l.logger.Info("harvest recorded",
		zap.String("plot_id", plotID),
		zap.String("vegetable", rec.VegetableName),
		zap.Float64("amount_kg", rec.AmountKg),
		zap.Float64("profit", rec.Profit()))

	return &Result{
		Record:    rec,
		NotYetDue: in.ActualHarvestDate.Before(planting.HarvestDueDate),
	}, nil
}
