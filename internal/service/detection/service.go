package detection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/imagestore"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/pkg/clients/inference"
)

const maxImageBytes = 10 << 20

// Service runs the AI detection flow: persist the uploaded image, call the
// remote inference endpoint, store the verdict.
type Service struct {
	client     inference.Client
	images     imagestore.Store
	detections mongodb.DetectionRepository
	logger     *zap.Logger
}

// NewService wires a new detection service instance.
func NewService(client inference.Client, images imagestore.Store, detections mongodb.DetectionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, images: images, detections: detections, logger: logger}
}

// DetectFromUpload processes one uploaded image. The image bytes are read
// once and reused for both the object store write and the inference call.
func (s *Service) DetectFromUpload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.DetectionRecord, error) {
	if s.client == nil || s.images == nil {
		return nil, &models.DependencyError{Dependency: "inference", Err: fmt.Errorf("detection not configured")}
	}
	if filename == "" {
		return nil, &models.ValidationError{Field: "image", Reason: "filename must not be empty"}
	}

	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, &models.ValidationError{Field: "image", Reason: "empty upload"}
	}
	if len(data) > maxImageBytes {
		return nil, &models.ValidationError{Field: "image", Reason: "exceeds 10MB limit"}
	}

	ref, err := s.images.Put(ctx, "detections", filename, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, err
	}

	result, err := s.client.Detect(ctx, inference.DetectRequest{Filename: filename, Image: bytes.NewReader(data)})
	if err != nil {
		return nil, &models.DependencyError{Dependency: "inference", Err: err}
	}

	rec := models.DetectionRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		ImageRef:   ref,
		Label:      result.Label,
		Confidence: result.Confidence,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.detections.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("detection stored",
		zap.String("user_id", userID),
		zap.String("label", rec.Label),
		zap.Float64("confidence", rec.Confidence))
	return &rec, nil
}

// History lists the user's past detection results, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.DetectionRecord, error) {
	return s.detections.ListByUser(ctx, userID)
}
