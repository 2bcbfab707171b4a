package planting

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasetgo/kaset/internal/domain/models"
)

type fakePlotRepo struct {
	plots map[string]models.Plot
}

func newFakePlotRepo(plots ...models.Plot) *fakePlotRepo {
	repo := &fakePlotRepo{plots: make(map[string]models.Plot)}
	for _, p := range plots {
		repo.plots[p.ID] = p
	}
	return repo
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
	if _, ok := r.plots[plot.ID]; !ok {
		return &models.NotFoundError{Resource: "plot", ID: plot.ID}
	}
	r.plots[plot.ID] = plot
	return nil
}

func (r *fakePlotRepo) UpdateWithStatus(_ context.Context, plot models.Plot, expected models.PlotStatus) error {
	stored, ok := r.plots[plot.ID]
	if !ok {
		return &models.NotFoundError{Resource: "plot", ID: plot.ID}
	}
	if stored.Status != expected {
		return &models.InvalidStateError{PlotID: plot.ID, Status: stored.Status, Op: "transition"}
	}
	r.plots[plot.ID] = plot
	return nil
}

func (r *fakePlotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.plots[id]; !ok {
		return &models.NotFoundError{Resource: "plot", ID: id}
	}
	delete(r.plots, id)
	return nil
}

func (r *fakePlotRepo) ListDueBetween(_ context.Context, from, to time.Time) ([]models.Plot, error) {
	out := make([]models.Plot, 0)
	for _, p := range r.plots {
		if p.Growing() && !p.CurrentPlanting.HarvestDueDate.Before(from) && !p.CurrentPlanting.HarvestDueDate.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	durations map[string]int
}

func (c *fakeCatalog) GrowthDurationDays(_ context.Context, name string) (int, bool, error) {
	days, ok := c.durations[name]
	return days, ok, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func emptyPlot(id, ownerID string) models.Plot {
	return models.Plot{
		ID:       id,
		OwnerID:  ownerID,
		Name:     "A1",
		Area:     2,
		AreaUnit: models.AreaUnitRai,
		Status:   models.PlotStatusEmpty,
	}
}

func TestDeriveHarvestDueDate(t *testing.T) {
	tests := []struct {
		name      string
		plantDate time.Time
		days      int
		expected  time.Time
	}{
		{"rolls over month boundary", date(2024, time.January, 20), 15, date(2024, time.February, 4)},
		{"rolls over year boundary", date(2023, time.December, 20), 15, date(2024, time.January, 4)},
		{"respects leap february", date(2024, time.February, 20), 10, date(2024, time.March, 1)},
		{"non-leap february", date(2023, time.February, 20), 10, date(2023, time.March, 2)},
		{"zero duration keeps plant date", date(2024, time.June, 1), 0, date(2024, time.June, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveHarvestDueDate(tt.plantDate, tt.days))
		})
	}
}

func TestStartPlantingWithCatalogDuration(t *testing.T) {
	repo := newFakePlotRepo(emptyPlot("p1", "u1"))
	catalog := &fakeCatalog{durations: map[string]int{"lettuce": 15}}
	engine := NewEngine(repo, catalog, nil)

	plot, err := engine.Start(context.Background(), "u1", "p1", StartInput{
		VegetableName: "lettuce",
		PlantDate:     date(2024, time.January, 20),
		Quantity:      50,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlotStatusGrowing, plot.Status)
	require.NotNil(t, plot.CurrentPlanting)
	assert.Equal(t, "lettuce", plot.CurrentPlanting.VegetableName)
	assert.Equal(t, 50, plot.CurrentPlanting.Quantity)
	assert.Equal(t, date(2024, time.February, 4), plot.CurrentPlanting.HarvestDueDate)

	stored, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, stored.Growing())
}

func TestStartPlantingCallerSuppliedDueDate(t *testing.T) {
	repo := newFakePlotRepo(emptyPlot("p1", "u1"))
	engine := NewEngine(repo, &fakeCatalog{}, nil)

	due := date(2024, time.March, 10)
	plot, err := engine.Start(context.Background(), "u1", "p1", StartInput{
		VegetableName:  "heirloom tomato",
		PlantDate:      date(2024, time.January, 15),
		Quantity:       20,
		HarvestDueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, due, plot.CurrentPlanting.HarvestDueDate)
}

func TestStartPlantingValidation(t *testing.T) {
	due := date(2024, time.January, 1)

	tests := []struct {
		name  string
		input StartInput
	}{
		{"zero quantity", StartInput{VegetableName: "lettuce", PlantDate: date(2024, time.January, 20), Quantity: 0, HarvestDueDate: &due}},
		{"negative quantity", StartInput{VegetableName: "lettuce", PlantDate: date(2024, time.January, 20), Quantity: -3, HarvestDueDate: &due}},
		{"zero plant date", StartInput{VegetableName: "lettuce", Quantity: 10, HarvestDueDate: &due}},
		{"empty vegetable", StartInput{PlantDate: date(2024, time.January, 20), Quantity: 10, HarvestDueDate: &due}},
		{"no duration and no due date", StartInput{VegetableName: "unknown crop", PlantDate: date(2024, time.January, 20), Quantity: 10}},
		{"due date precedes plant date", StartInput{VegetableName: "unknown crop", PlantDate: date(2024, time.February, 20), Quantity: 10, HarvestDueDate: &due}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePlotRepo(emptyPlot("p1", "u1"))
			engine := NewEngine(repo, &fakeCatalog{}, nil)

			_, err := engine.Start(context.Background(), "u1", "p1", tt.input)
			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)

			stored, findErr := repo.FindByID(context.Background(), "p1")
			require.NoError(t, findErr)
			assert.Equal(t, models.PlotStatusEmpty, stored.Status)
		})
	}
}

func TestStartPlantingOnGrowingPlotFails(t *testing.T) {
	existing := models.PlantingRecord{
		VegetableName:  "tomato",
		PlantDate:      date(2024, time.January, 1),
		HarvestDueDate: date(2024, time.March, 1),
		Quantity:       10,
	}
	plot := emptyPlot("p1", "u1")
	plot.Status = models.PlotStatusGrowing
	plot.CurrentPlanting = &existing

	repo := newFakePlotRepo(plot)
	engine := NewEngine(repo, &fakeCatalog{durations: map[string]int{"lettuce": 15}}, nil)

	_, err := engine.Start(context.Background(), "u1", "p1", StartInput{
		VegetableName: "lettuce",
		PlantDate:     date(2024, time.February, 1),
		Quantity:      5,
	})
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	stored, findErr := repo.FindByID(context.Background(), "p1")
	require.NoError(t, findErr)
	require.NotNil(t, stored.CurrentPlanting)
	assert.Equal(t, existing, *stored.CurrentPlanting)
}

func TestStartPlantingScopedToOwner(t *testing.T) {
	repo := newFakePlotRepo(emptyPlot("p1", "u1"))
	engine := NewEngine(repo, &fakeCatalog{durations: map[string]int{"lettuce": 15}}, nil)

	_, err := engine.Start(context.Background(), "someone-else", "p1", StartInput{
		VegetableName: "lettuce",
		PlantDate:     date(2024, time.January, 20),
		Quantity:      5,
	})
	var notFoundErr *models.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}
