package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
)

// Service manages the admin reference catalogs: vegetables, diseases and
// pests. It is also the planting engine's growth-duration source.
type Service struct {
	vegetables mongodb.VegetableRepository
	diseases   mongodb.CatalogRepository
	pests      mongodb.CatalogRepository
	logger     *zap.Logger
}

// NewService wires a new catalog service instance.
func NewService(vegetables mongodb.VegetableRepository, diseases, pests mongodb.CatalogRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{vegetables: vegetables, diseases: diseases, pests: pests, logger: logger}
}

// VegetableInput carries the fields accepted for a crop catalog entry.
type VegetableInput struct {
	Name               string
	GrowthDurationDays *int
	Description        string
	ImageRef           string
}

// CreateVegetable validates and stores a new crop entry.
func (s *Service) CreateVegetable(ctx context.Context, in VegetableInput) (*models.Vegetable, error) {
	if err := validateVegetable(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	veg := models.Vegetable{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		GrowthDurationDays: in.GrowthDurationDays,
		Description:        in.Description,
		ImageRef:           in.ImageRef,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.vegetables.Insert(ctx, veg); err != nil {
		return nil, err
	}
	return &veg, nil
}

// UpdateVegetable replaces the mutable fields of a crop entry.
func (s *Service) UpdateVegetable(ctx context.Context, id string, in VegetableInput) (*models.Vegetable, error) {
	if err := validateVegetable(in); err != nil {
		return nil, err
	}

	veg, err := s.vegetables.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	veg.Name = in.Name
	veg.GrowthDurationDays = in.GrowthDurationDays
	veg.Description = in.Description
	veg.ImageRef = in.ImageRef
	veg.UpdatedAt = time.Now().UTC()

	if err := s.vegetables.Update(ctx, *veg); err != nil {
		return nil, err
	}
	return veg, nil
}

// DeleteVegetable removes a crop entry.
func (s *Service) DeleteVegetable(ctx context.Context, id string) error {
	return s.vegetables.Delete(ctx, id)
}

// ListVegetables returns the crop catalog sorted by name.
func (s *Service) ListVegetables(ctx context.Context) ([]models.Vegetable, error) {
	return s.vegetables.List(ctx)
}

// GetVegetable loads one crop entry.
func (s *Service) GetVegetable(ctx context.Context, id string) (*models.Vegetable, error) {
	return s.vegetables.FindByID(ctx, id)
}

// GrowthDurationDays implements the planting engine's lookup. An unknown
// crop or one without a duration reports absent rather than an error.
func (s *Service) GrowthDurationDays(ctx context.Context, vegetableName string) (int, bool, error) {
	veg, err := s.vegetables.FindByName(ctx, vegetableName)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if veg.GrowthDurationDays == nil {
		return 0, false, nil
	}
	return *veg.GrowthDurationDays, true, nil
}

func validateVegetable(in VegetableInput) error {
	if in.Name == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.GrowthDurationDays != nil && *in.GrowthDurationDays < 0 {
		return &models.ValidationError{Field: "growth_duration_days", Reason: "must not be negative"}
	}
	return nil
}

// EntryInput carries the fields accepted for a disease or pest entry.
type EntryInput struct {
	Name        string
	Description string
	ImageRef    string
}

// CreateEntry stores a new entry in the selected reference catalog.
func (s *Service) CreateEntry(ctx context.Context, kind models.CatalogKind, in EntryInput) (*models.CatalogEntry, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	now := time.Now().UTC()
	entry := models.CatalogEntry{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		ImageRef:    in.ImageRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry replaces the mutable fields of a catalog entry.
func (s *Service) UpdateEntry(ctx context.Context, kind models.CatalogKind, id string, in EntryInput) (*models.CatalogEntry, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	entry, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Name = in.Name
	entry.Description = in.Description
	entry.ImageRef = in.ImageRef
	entry.UpdatedAt = time.Now().UTC()

	if err := repo.Update(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes a catalog entry.
func (s *Service) DeleteEntry(ctx context.Context, kind models.CatalogKind, id string) error {
	repo, err := s.repoFor(kind)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

// ListEntries returns the selected catalog sorted by name.
func (s *Service) ListEntries(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

func (s *Service) repoFor(kind models.CatalogKind) (mongodb.CatalogRepository, error) {
	switch kind {
	case models.CatalogDisease:
		return s.diseases, nil
	case models.CatalogPest:
		return s.pests, nil
	}
	return nil, &models.ValidationError{Field: "catalog", Reason: "unknown catalog kind"}
}
