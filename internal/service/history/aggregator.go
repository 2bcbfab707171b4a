package history

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/internal/repository/sheets"
)

// Aggregator answers read-only queries over a plot's harvest history and
// exports selections in tabular formats.
type Aggregator struct {
	plots    mongodb.PlotRepository
	harvests mongodb.HarvestRepository
	exporter sheets.Exporter
	logger   *zap.Logger
}

// NewAggregator wires a new aggregator. The sheet exporter may be nil when
// the Google Sheets integration is not configured.
func NewAggregator(plots mongodb.PlotRepository, harvests mongodb.HarvestRepository, exporter sheets.Exporter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{plots: plots, harvests: harvests, exporter: exporter, logger: logger}
}

// Query returns the plot's records in insertion order, narrowed by the
// filter. All provided conditions must hold; vegetable matching is
// case-insensitive substring matching.
func (a *Aggregator) Query(ctx context.Context, ownerID, plotID string, filter models.HistoryFilter) ([]models.HarvestRecord, error) {
	plot, err := a.plots.FindByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if plot.OwnerID != ownerID {
		return nil, &models.NotFoundError{Resource: "plot", ID: plotID}
	}

	records, err := a.harvests.ListByPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if matches(rec, filter) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func matches(rec models.HarvestRecord, filter models.HistoryFilter) bool {
	if filter.VegetableNameContains != "" {
		needle := strings.ToLower(filter.VegetableNameContains)
		if !strings.Contains(strings.ToLower(rec.VegetableName), needle) {
			return false
		}
	}
	if filter.PlantDateFrom != nil && rec.PlantDate.Before(*filter.PlantDateFrom) {
		return false
	}
	if filter.PlantDateTo != nil && rec.PlantDate.After(*filter.PlantDateTo) {
		return false
	}
	return true
}

// Summarize computes running totals over the records. An empty input yields
// zero totals, not an error.
func Summarize(records []models.HarvestRecord) models.HistorySummary {
	var summary models.HistorySummary
	for _, rec := range records {
		summary.TotalIncome += rec.Income
		summary.TotalExpense += rec.Expense
	}
	summary.TotalProfit = summary.TotalIncome - summary.TotalExpense
	return summary
}

// ExportToSheet appends the records to the configured bookkeeping spreadsheet.
func (a *Aggregator) ExportToSheet(ctx context.Context, records []models.HarvestRecord) error {
	if a.exporter == nil {
		return &models.DependencyError{Dependency: "google-sheets", Err: errNotConfigured}
	}

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		fields := recordFields(rec)
		row := make([]interface{}, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		rows = append(rows, row)
	}

	if err := a.exporter.AppendRows(ctx, rows); err != nil {
		return err
	}

	a.logger.Info("history exported to sheet", zap.Int("rows", len(rows)))
	return nil
}
