package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	catalogsvc "github.com/kasetgo/kaset/internal/service/catalog"
)

// CatalogHandler exposes the vegetable, disease and pest admin catalogs.
type CatalogHandler struct {
	svc    *catalogsvc.Service
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc *catalogsvc.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

type vegetableRequest struct {
	Name               string `json:"name" binding:"required"`
	GrowthDurationDays *int   `json:"growth_duration_days"`
	Description        string `json:"description"`
	ImageRef           string `json:"image_ref"`
}

func (r vegetableRequest) toInput() catalogsvc.VegetableInput {
	return catalogsvc.VegetableInput{
		Name:               r.Name,
		GrowthDurationDays: r.GrowthDurationDays,
		Description:        r.Description,
		ImageRef:           r.ImageRef,
	}
}

// CreateVegetable adds a crop catalog entry.
func (h *CatalogHandler) CreateVegetable(c *gin.Context) {
	var req vegetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	veg, err := h.svc.CreateVegetable(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, veg)
}

// UpdateVegetable replaces a crop catalog entry.
func (h *CatalogHandler) UpdateVegetable(c *gin.Context) {
	var req vegetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	veg, err := h.svc.UpdateVegetable(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, veg)
}

// DeleteVegetable removes a crop catalog entry.
func (h *CatalogHandler) DeleteVegetable(c *gin.Context) {
	if err := h.svc.DeleteVegetable(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVegetables returns the crop catalog.
func (h *CatalogHandler) ListVegetables(c *gin.Context) {
	vegs, err := h.svc.ListVegetables(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vegs)
}

// GetVegetable returns one crop catalog entry.
func (h *CatalogHandler) GetVegetable(c *gin.Context) {
	veg, err := h.svc.GetVegetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, veg)
}

type entryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"`
}

// CreateEntry adds a disease or pest entry depending on the route.
func (h *CatalogHandler) CreateEntry(kind models.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		entry, err := h.svc.CreateEntry(c.Request.Context(), kind, catalogsvc.EntryInput{
			Name:        req.Name,
			Description: req.Description,
			ImageRef:    req.ImageRef,
		})
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// UpdateEntry replaces a disease or pest entry.
func (h *CatalogHandler) UpdateEntry(kind models.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		entry, err := h.svc.UpdateEntry(c.Request.Context(), kind, c.Param("id"), catalogsvc.EntryInput{
			Name:        req.Name,
			Description: req.Description,
			ImageRef:    req.ImageRef,
		})
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// DeleteEntry removes a disease or pest entry.
func (h *CatalogHandler) DeleteEntry(kind models.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.DeleteEntry(c.Request.Context(), kind, c.Param("id")); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListEntries returns the selected catalog.
func (h *CatalogHandler) ListEntries(kind models.CatalogKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := h.svc.ListEntries(c.Request.Context(), kind)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
