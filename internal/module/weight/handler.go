package weight

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutrilog/server/internal/module/auth"
	"github.com/nutrilog/server/internal/shared/response"
)

// Handler handles HTTP requests for weight history.
type Handler struct {
	service *Service
}

// NewHandler creates a new weight handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers weight routes. All of them require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	weights := r.Group("/weights")
	{
		weights.POST("", h.Add)
		weights.GET("", h.List)
		weights.DELETE("/:id", h.Delete)
		weights.GET("/series/daily", h.DailySeries)
		weights.GET("/series/weekly", h.WeeklySeries)
	}
}

// Add records a weight measurement.
func (h *Handler) Add(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.Add(c.Request.Context(), userID, req.WeightKg, req.RecordedAt)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List returns recent measurements.
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Entries: entries})
}

// Delete removes a measurement.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DailySeries returns the per-day chart series.
func (h *Handler) DailySeries(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.service.DailySeries(c.Request.Context(), userID, days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DailySeriesResponse{Points: points})
}

// WeeklySeries returns the per-week chart series.
func (h *Handler) WeeklySeries(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "12"))

	points, err := h.service.WeeklySeries(c.Request.Context(), userID, weeks)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, WeeklySeriesResponse{Points: points})
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrEntryNotFound, Status: http.StatusNotFound, Code: "ENTRY_NOT_FOUND"},
	{Err: ErrImplausibleWeight, Status: http.StatusBadRequest, Code: "IMPLAUSIBLE_WEIGHT"},
}

func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, errorMappings)
}
