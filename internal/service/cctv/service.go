package cctv

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
)

// Service manages CCTV camera registrations per owner.
type Service struct {
	cameras mongodb.CameraRepository
	logger  *zap.Logger
}

// NewService wires a new CCTV service instance.
func NewService(cameras mongodb.CameraRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cameras: cameras, logger: logger}
}

// Input carries the fields accepted for a camera registration.
type Input struct {
	Name      string
	StreamURL string
	PlotID    string
}

// Register validates and stores a new camera.
func (s *Service) Register(ctx context.Context, ownerID string, in Input) (*models.Camera, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	cam := models.Camera{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		PlotID:    in.PlotID,
		Name:      in.Name,
		StreamURL: in.StreamURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.cameras.Insert(ctx, cam); err != nil {
		return nil, err
	}

	s.logger.Info("camera registered", zap.String("camera_id", cam.ID), zap.String("owner_id", ownerID))
	return &cam, nil
}

// Update replaces a camera's mutable fields, scoped to the owner.
func (s *Service) Update(ctx context.Context, ownerID, cameraID string, in Input) (*models.Camera, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	cam, err := s.get(ctx, ownerID, cameraID)
	if err != nil {
		return nil, err
	}

	cam.Name = in.Name
	cam.StreamURL = in.StreamURL
	cam.PlotID = in.PlotID

	if err := s.cameras.Update(ctx, *cam); err != nil {
		return nil, err
	}
	return cam, nil
}

// Delete removes a camera, scoped to the owner.
func (s *Service) Delete(ctx context.Context, ownerID, cameraID string) error {
	if _, err := s.get(ctx, ownerID, cameraID); err != nil {
		return err
	}
	return s.cameras.Delete(ctx, cameraID)
}

// List returns the owner's cameras ordered by registration time.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Camera, error) {
	return s.cameras.ListByOwner(ctx, ownerID)
}

func (s *Service) get(ctx context.Context, ownerID, cameraID string) (*models.Camera, error) {
	cam, err := s.cameras.FindByID(ctx, cameraID)
	if err != nil {
		return nil, err
	}
	if cam.OwnerID != ownerID {
		return nil, &models.NotFoundError{Resource: "camera", ID: cameraID}
	}
	return cam, nil
}

func validate(in Input) error {
	if in.Name == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	parsed, err := url.Parse(in.StreamURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &models.ValidationError{Field: "stream_url", Reason: "must be an absolute URL"}
	}
	return nil
}
