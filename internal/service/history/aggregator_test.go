package history

import (
	"context"
	"encoding/csv"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasetgo/kaset/internal/domain/models"
)

type fakePlotRepo struct {
	plots map[string]models.Plot
}

func (r *fakePlotRepo) Insert(_ context.Context, plot models.Plot) error {
	r.plots[plot.ID] = plot
	return nil
}

func (r *fakePlotRepo) FindByID(_ context.Context, id string) (*models.Plot, error) {
	plot, ok := r.plots[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "plot", ID: id}
	}
	return &plot, nil
}

func (r *fakePlotRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Plot, error) {
	out := make([]models.Plot, 0)
	for _, p := range r.plots {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePlotRepo) Update(_ context.Context, plot models.Plot) error {
	r.plots[plot.ID] = plot
	return nil
}

func (r *fakePlotRepo) UpdateWithStatus(_ context.Context, plot models.Plot, _ models.PlotStatus) error {
	r.plots[plot.ID] = plot
	return nil
}

func (r *fakePlotRepo) Delete(_ context.Context, id string) error {
	delete(r.plots, id)
	return nil
}

func (r *fakePlotRepo) ListDueBetween(_ context.Context, _, _ time.Time) ([]models.Plot, error) {
	return nil, nil
}

type fakeHarvestRepo struct {
	records []models.HarvestRecord
}

func (r *fakeHarvestRepo) CloseCycle(_ context.Context, _ models.Plot, rec models.HarvestRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeHarvestRepo) ListByPlot(_ context.Context, plotID string) ([]models.HarvestRecord, error) {
	out := make([]models.HarvestRecord, 0)
	for _, rec := range r.records {
		if rec.PlotID == plotID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(plotID, vegetable string, plantDate time.Time, income, expense float64) models.HarvestRecord {
	return models.HarvestRecord{
		ID:                vegetable + plantDate.Format("20060102"),
		PlotID:            plotID,
		VegetableName:     vegetable,
		PlantDate:         plantDate,
		HarvestDueDate:    plantDate.AddDate(0, 0, 30),
		ActualHarvestDate: plantDate.AddDate(0, 0, 32),
		Quantity:          10,
		AmountKg:          25.5,
		Income:            income,
		Expense:           expense,
	}
}

func newAggregator(records ...models.HarvestRecord) *Aggregator {
	plots := &fakePlotRepo{plots: map[string]models.Plot{
		"p1": {ID: "p1", OwnerID: "u1", Name: "A1", Status: models.PlotStatusEmpty},
	}}
	harvests := &fakeHarvestRepo{records: records}
	return NewAggregator(plots, harvests, nil, nil)
}

func TestQueryFiltersBySubstring(t *testing.T) {
	agg := newAggregator(
		record("p1", "lettuce", date(2024, time.January, 20), 1500, 300),
		record("p1", "tomato", date(2024, time.February, 1), 900, 200),
	)

	got, err := agg.Query(context.Background(), "u1", "p1", models.HistoryFilter{VegetableNameContains: "let"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lettuce", got[0].VegetableName)
}

func TestQueryMatchingIsCaseInsensitive(t *testing.T) {
	agg := newAggregator(record("p1", "Lettuce", date(2024, time.January, 20), 1500, 300))

	got, err := agg.Query(context.Background(), "u1", "p1", models.HistoryFilter{VegetableNameContains: "LETT"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQueryFiltersAreConjunctive(t *testing.T) {
	agg := newAggregator(
		record("p1", "lettuce", date(2024, time.January, 20), 1500, 300),
		record("p1", "lettuce", date(2024, time.March, 5), 800, 100),
		record("p1", "tomato", date(2024, time.March, 10), 900, 200),
	)

	from := date(2024, time.February, 1)
	to := date(2024, time.April, 1)
	got, err := agg.Query(context.Background(), "u1", "p1", models.HistoryFilter{
		VegetableNameContains: "lettuce",
		PlantDateFrom:         &from,
		PlantDateTo:           &to,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.March, 5), got[0].PlantDate)
}

func TestQueryPreservesInsertionOrder(t *testing.T) {
	first := record("p1", "lettuce", date(2024, time.January, 20), 1500, 300)
	second := record("p1", "lettuce", date(2024, time.March, 5), 800, 100)
	agg := newAggregator(first, second)

	got, err := agg.Query(context.Background(), "u1", "p1", models.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestQueryScopedToOwner(t *testing.T) {
	agg := newAggregator(record("p1", "lettuce", date(2024, time.January, 20), 1500, 300))

	_, err := agg.Query(context.Background(), "someone-else", "p1", models.HistoryFilter{})
	var notFoundErr *models.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestSummarizeEmptyIsZero(t *testing.T) {
	assert.Equal(t, models.HistorySummary{}, Summarize(nil))
	assert.Equal(t, models.HistorySummary{}, Summarize([]models.HarvestRecord{}))
}

func TestSummarizeIsOrderIndependent(t *testing.T) {
	records := []models.HarvestRecord{
		record("p1", "lettuce", date(2024, time.January, 20), 1500, 300),
		record("p1", "tomato", date(2024, time.February, 1), 900, 200),
		record("p1", "basil", date(2024, time.March, 1), 250, 50),
	}
	reversed := []models.HarvestRecord{records[2], records[1], records[0]}

	want := models.HistorySummary{TotalIncome: 2650, TotalExpense: 550, TotalProfit: 2100}
	assert.Equal(t, want, Summarize(records))
	assert.Equal(t, want, Summarize(reversed))
}

func TestExportCSVRoundTrip(t *testing.T) {
	quoted := record("p1", `bok "choy" mini`, date(2024, time.January, 20), 1500.50, 300.25)
	quoted.Note = "line one"
	missingHarvestDate := record("p1", "tomato", date(2024, time.February, 1), 900, 200)
	missingHarvestDate.ActualHarvestDate = time.Time{}

	out := ExportCSV([]models.HarvestRecord{quoted, missingHarvestDate})

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"plantDate", "harvestDate", "vegetable", "quantity", "amountKg", "income", "expense", "profit"}, rows[0])

	assert.Equal(t, "2024-01-20", rows[1][0])
	assert.Equal(t, "2024-02-21", rows[1][1])
	assert.Equal(t, `bok "choy" mini`, rows[1][2])
	assert.Equal(t, "10", rows[1][3])
	assert.Equal(t, "25.50", rows[1][4])
	assert.Equal(t, "1500.50", rows[1][5])
	assert.Equal(t, "300.25", rows[1][6])
	assert.Equal(t, "1200.25", rows[1][7])

	assert.Equal(t, "-", rows[2][1])
}

func TestExportCSVEmptyInputKeepsHeader(t *testing.T) {
	out := ExportCSV(nil)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 8)
}
