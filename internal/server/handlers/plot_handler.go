package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	harvestsvc "github.com/kasetgo/kaset/internal/service/harvest"
	historysvc "github.com/kasetgo/kaset/internal/service/history"
	plantingsvc "github.com/kasetgo/kaset/internal/service/planting"
	plotsvc "github.com/kasetgo/kaset/internal/service/plot"
)

const dateLayout = "2006-01-02"

// PlotHandler exposes plot CRUD, lifecycle transitions and history queries.
type PlotHandler struct {
	plots   *plotsvc.Service
	engine  *plantingsvc.Engine
	ledger  *harvestsvc.Ledger
	history *historysvc.Aggregator
	logger  *zap.Logger
}

// NewPlotHandler constructs the HTTP handler adapter.
func NewPlotHandler(plots *plotsvc.Service, engine *plantingsvc.Engine, ledger *harvestsvc.Ledger, history *historysvc.Aggregator, logger *zap.Logger) *PlotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlotHandler{plots: plots, engine: engine, ledger: ledger, history: history, logger: logger}
}

type createPlotRequest struct {
	Name     string  `json:"name" binding:"required"`
	Area     float64 `json:"area" binding:"required"`
	AreaUnit string  `json:"area_unit" binding:"required"`
	ImageRef string  `json:"image_ref"`
}

// Create registers a new empty plot for the caller.
func (h *PlotHandler) Create(c *gin.Context) {
	var req createPlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.plots.Create(c.Request.Context(), currentUserID(c), plotsvc.CreateInput{
		Name:     req.Name,
		Area:     req.Area,
		AreaUnit: models.AreaUnit(req.AreaUnit),
		ImageRef: req.ImageRef,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns the caller's plots ordered by creation time.
func (h *PlotHandler) List(c *gin.Context) {
	plots, err := h.plots.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plots)
}

// Get returns one plot.
func (h *PlotHandler) Get(c *gin.Context) {
	found, err := h.plots.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type updatePlotRequest struct {
	Name     *string  `json:"name"`
	Area     *float64 `json:"area"`
	AreaUnit *string  `json:"area_unit"`
	ImageRef *string  `json:"image_ref"`
}

// Update applies a partial update to a plot's descriptive fields.
func (h *PlotHandler) Update(c *gin.Context) {
	var req updatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in := plotsvc.UpdateInput{Name: req.Name, Area: req.Area, ImageRef: req.ImageRef}
	if req.AreaUnit != nil {
		unit := models.AreaUnit(*req.AreaUnit)
		in.AreaUnit = &unit
	}

	updated, err := h.plots.Update(c.Request.Context(), currentUserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a plot from the caller's set.
func (h *PlotHandler) Delete(c *gin.Context) {
	if err := h.plots.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type startPlantingRequest struct {
	VegetableName  string `json:"vegetable_name" binding:"required"`
	PlantDate      string `json:"plant_date" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	HarvestDueDate string `json:"harvest_due_date"`
}

// StartPlanting opens a planting cycle on an empty plot.
func (h *PlotHandler) StartPlanting(c *gin.Context) {
	var req startPlantingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plantDate, err := time.Parse(dateLayout, req.PlantDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plant_date must use the 2006-01-02 layout"})
		return
	}

	in := plantingsvc.StartInput{
		VegetableName: req.VegetableName,
		PlantDate:     plantDate,
		Quantity:      req.Quantity,
	}
	if req.HarvestDueDate != "" {
		due, err := time.Parse(dateLayout, req.HarvestDueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "harvest_due_date must use the 2006-01-02 layout"})
			return
		}
		in.HarvestDueDate = &due
	}

	planted, err := h.engine.Start(c.Request.Context(), currentUserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, planted)
}

type recordHarvestRequest struct {
	ActualHarvestDate string  `json:"actual_harvest_date" binding:"required"`
	AmountKg          float64 `json:"amount_kg"`
	Income            float64 `json:"income"`
	Expense           float64 `json:"expense"`
	Note              string  `json:"note"`
}

type harvestResponse struct {
	Record    models.HarvestRecord `json:"record"`
	Profit    float64              `json:"profit"`
	NotYetDue bool                 `json:"not_yet_due"`
}

// RecordHarvest closes the plot's active cycle.
func (h *PlotHandler) RecordHarvest(c *gin.Context) {
	var req recordHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	harvestDate, err := time.Parse(dateLayout, req.ActualHarvestDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actual_harvest_date must use the 2006-01-02 layout"})
		return
	}

	result, err := h.ledger.Record(c.Request.Context(), currentUserID(c), c.Param("id"), harvestsvc.RecordInput{
		ActualHarvestDate: harvestDate,
		AmountKg:          req.AmountKg,
		Income:            req.Income,
		Expense:           req.Expense,
		Note:              req.Note,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, harvestResponse{
		Record:    result.Record,
		Profit:    result.Record.Profit(),
		NotYetDue: result.NotYetDue,
	})
}

// History returns the plot's harvest records narrowed by query filters.
func (h *PlotHandler) History(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.history.Query(c.Request.Context(), currentUserID(c), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// HistorySummary returns running totals over the filtered records.
func (h *PlotHandler) HistorySummary(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.history.Query(c.Request.Context(), currentUserID(c), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, historysvc.Summarize(records))
}

// ExportCSV streams the filtered records as CSV.
func (h *PlotHandler) ExportCSV(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.history.Query(c.Request.Context(), currentUserID(c), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(historysvc.ExportCSV(records)))
}

// ExportXLSX streams the filtered records as an Excel workbook.
func (h *PlotHandler) ExportXLSX(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.history.Query(c.Request.Context(), currentUserID(c), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data, err := historysvc.ExportXLSX(records)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="history.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportToSheet appends the filtered records to the bookkeeping spreadsheet.
func (h *PlotHandler) ExportToSheet(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.history.Query(c.Request.Context(), currentUserID(c), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.history.ExportToSheet(c.Request.Context(), records); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": len(records)})
}

func historyFilterFromQuery(c *gin.Context) (models.HistoryFilter, error) {
	filter := models.HistoryFilter{VegetableNameContains: c.Query("vegetable")}

	if from := c.Query("plant_date_from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return filter, &models.ValidationError{Field: "plant_date_from", Reason: "must use the 2006-01-02 layout"}
		}
		filter.PlantDateFrom = &t
	}
	if to := c.Query("plant_date_to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return filter, &models.ValidationError{Field: "plant_date_to", Reason: "must use the 2006-01-02 layout"}
		}
		filter.PlantDateTo = &t
	}
	return filter, nil
}
