package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasetgo/kaset/internal/domain/models"
)

type fakeVegetableRepo struct {
	vegetables map[string]models.Vegetable
}

func newFakeVegetableRepo() *fakeVegetableRepo {
	return &fakeVegetableRepo{vegetables: make(map[string]models.Vegetable)}
}

func (r *fakeVegetableRepo) Insert(_ context.Context, veg models.Vegetable) error {
	r.vegetables[veg.ID] = veg
	return nil
}

func (r *fakeVegetableRepo) FindByID(_ context.Context, id string) (*models.Vegetable, error) {
	veg, ok := r.vegetables[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "vegetable", ID: id}
	}
	return &veg, nil
}

func (r *fakeVegetableRepo) FindByName(_ context.Context, name string) (*models.Vegetable, error) {
	for _, v := range r.vegetables {
		if strings.EqualFold(v.Name, name) {
			veg := v
			return &veg, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "vegetable", ID: name}
}

func (r *fakeVegetableRepo) List(_ context.Context) ([]models.Vegetable, error) {
	out := make([]models.Vegetable, 0, len(r.vegetables))
	for _, v := range r.vegetables {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVegetableRepo) Update(_ context.Context, veg models.Vegetable) error {
	if _, ok := r.vegetables[veg.ID]; !ok {
		return &models.NotFoundError{Resource: "vegetable", ID: veg.ID}
	}
	r.vegetables[veg.ID] = veg
	return nil
}

func (r *fakeVegetableRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.vegetables[id]; !ok {
		return &models.NotFoundError{Resource: "vegetable", ID: id}
	}
	delete(r.vegetables, id)
	return nil
}

type fakeCatalogRepo struct {
	kind    models.CatalogKind
	entries map[string]models.CatalogEntry
}

func newFakeCatalogRepo(kind models.CatalogKind) *fakeCatalogRepo {
	return &fakeCatalogRepo{kind: kind, entries: make(map[string]models.CatalogEntry)}
}

func (r *fakeCatalogRepo) Kind() models.CatalogKind { return r.kind }

func (r *fakeCatalogRepo) Insert(_ context.Context, entry models.CatalogEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeCatalogRepo) FindByID(_ context.Context, id string) (*models.CatalogEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: string(r.kind), ID: id}
	}
	return &entry, nil
}

func (r *fakeCatalogRepo) List(_ context.Context) ([]models.CatalogEntry, error) {
	out := make([]models.CatalogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, entry models.CatalogEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return &models.NotFoundError{Resource: string(r.kind), ID: entry.ID}
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeCatalogRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return &models.NotFoundError{Resource: string(r.kind), ID: id}
	}
	delete(r.entries, id)
	return nil
}

func newTestService() (*Service, *fakeVegetableRepo) {
	vegetables := newFakeVegetableRepo()
	svc := NewService(vegetables, newFakeCatalogRepo(models.CatalogDisease), newFakeCatalogRepo(models.CatalogPest), nil)
	return svc, vegetables
}

func intPtr(n int) *int { return &n }

func TestGrowthDurationDaysLookup(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVegetable(context.Background(), VegetableInput{Name: "Lettuce", GrowthDurationDays: intPtr(45)})
	require.NoError(t, err)
	_, err = svc.CreateVegetable(context.Background(), VegetableInput{Name: "Basil"})
	require.NoError(t, err)

	days, ok, err := svc.GrowthDurationDays(context.Background(), "lettuce")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 45, days)

	// Catalog entry without a duration reports absent, not an error.
	_, ok, err = svc.GrowthDurationDays(context.Background(), "basil")
	require.NoError(t, err)
	assert.False(t, ok)

	// So does a crop missing from the catalog entirely.
	_, ok, err = svc.GrowthDurationDays(context.Background(), "durian")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVegetableValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVegetable(context.Background(), VegetableInput{Name: ""})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.CreateVegetable(context.Background(), VegetableInput{Name: "Kale", GrowthDurationDays: intPtr(-1)})
	require.ErrorAs(t, err, &validationErr)

	// Zero is a legal duration, same-day harvest crops exist.
	_, err = svc.CreateVegetable(context.Background(), VegetableInput{Name: "Sprouts", GrowthDurationDays: intPtr(0)})
	require.NoError(t, err)
}

func TestUpdateVegetable(t *testing.T) {
	svc, vegetables := newTestService()

	created, err := svc.CreateVegetable(context.Background(), VegetableInput{Name: "Lettuce", GrowthDurationDays: intPtr(45)})
	require.NoError(t, err)

	updated, err := svc.UpdateVegetable(context.Background(), created.ID, VegetableInput{Name: "Romaine Lettuce", GrowthDurationDays: intPtr(50)})
	require.NoError(t, err)
	assert.Equal(t, "Romaine Lettuce", updated.Name)
	assert.Equal(t, 50, *updated.GrowthDurationDays)

	stored := vegetables.vegetables[created.ID]
	assert.Equal(t, "Romaine Lettuce", stored.Name)
}

func TestCatalogEntriesByKind(t *testing.T) {
	svc, _ := newTestService()

	disease, err := svc.CreateEntry(context.Background(), models.CatalogDisease, EntryInput{Name: "downy mildew"})
	require.NoError(t, err)
	_, err = svc.CreateEntry(context.Background(), models.CatalogPest, EntryInput{Name: "aphid"})
	require.NoError(t, err)

	diseases, err := svc.ListEntries(context.Background(), models.CatalogDisease)
	require.NoError(t, err)
	require.Len(t, diseases, 1)
	assert.Equal(t, "downy mildew", diseases[0].Name)

	pests, err := svc.ListEntries(context.Background(), models.CatalogPest)
	require.NoError(t, err)
	require.Len(t, pests, 1)

	// A disease id is invisible through the pest catalog.
	err = svc.DeleteEntry(context.Background(), models.CatalogPest, disease.ID)
	var notFoundErr *models.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestCatalogUnknownKind(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateEntry(context.Background(), models.CatalogKind("weed"), EntryInput{Name: "bindweed"})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
