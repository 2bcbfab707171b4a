package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cctvsvc "github.com/kasetgo/kaset/internal/service/cctv"
)

// CCTVHandler exposes camera registration CRUD.
type CCTVHandler struct {
	svc    *cctvsvc.Service
	logger *zap.Logger
}

// NewCCTVHandler constructs the HTTP handler adapter.
func NewCCTVHandler(svc *cctvsvc.Service, logger *zap.Logger) *CCTVHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CCTVHandler{svc: svc, logger: logger}
}

type cameraRequest struct {
	Name      string `json:"name" binding:"required"`
	StreamURL string `json:"stream_url" binding:"required"`
	PlotID    string `json:"plot_id"`
}

// Register adds a camera for the caller.
func (h *CCTVHandler) Register(c *gin.Context) {
	var req cameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cam, err := h.svc.Register(c.Request.Context(), currentUserID(c), cctvsvc.Input{
		Name:      req.Name,
		StreamURL: req.StreamURL,
		PlotID:    req.PlotID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cam)
}

// Update replaces a camera's fields.
func (h *CCTVHandler) Update(c *gin.Context) {
	var req cameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cam, err := h.svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), cctvsvc.Input{
		Name:      req.Name,
		StreamURL: req.StreamURL,
		PlotID:    req.PlotID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cam)
}

// Delete removes a camera.
func (h *CCTVHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns the caller's cameras.
func (h *CCTVHandler) List(c *gin.Context) {
	cams, err := h.svc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cams)
}
