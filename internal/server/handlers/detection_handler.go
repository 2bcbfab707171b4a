package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	detectionsvc "github.com/kasetgo/kaset/internal/service/detection"
)

// DetectionHandler exposes the AI detection upload flow.
type DetectionHandler struct {
	svc    *detectionsvc.Service
	logger *zap.Logger
}

// NewDetectionHandler constructs the HTTP handler adapter.
func NewDetectionHandler(svc *detectionsvc.Service, logger *zap.Logger) *DetectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetectionHandler{svc: svc, logger: logger}
}

// Detect accepts a multipart image upload and returns the stored verdict.
func (h *DetectionHandler) Detect(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'image' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.svc.DetectFromUpload(
		c.Request.Context(),
		currentUserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// History lists the caller's past detections.
func (h *DetectionHandler) History(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
