package diary

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutrilog/server/internal/module/auth"
	"github.com/nutrilog/server/internal/shared/response"
)

// Handler handles HTTP requests for the diary.
type Handler struct {
	service *Service
}

// NewHandler creates a new diary handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers diary routes. All of them require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	diary := r.Group("/diary")
	{
		diary.POST("/foods", h.LogFood)
		diary.DELETE("/foods/:id", h.DeleteFood)
		diary.POST("/exercises", h.LogExercise)
		diary.DELETE("/exercises/:id", h.DeleteExercise)
		diary.GET("/summary", h.Summary)
	}
}

// LogFood records a food entry.
func (h *Handler) LogFood(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.LogFood(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// DeleteFood removes a food entry.
func (h *Handler) DeleteFood(c *gin.Context) {
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

	if err := h.service.DeleteFood(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LogExercise records an activity.
func (h *Handler) LogExercise(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.LogExercise(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// DeleteExercise removes an activity entry.
func (h *Handler) DeleteExercise(c *gin.Context) {
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

	if err := h.service.DeleteExercise(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary aggregates one day of the diary. The date query parameter
// defaults to today.
func (h *Handler) Summary(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.service.Summary(c.Request.Context(), userID, day)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrEntryNotFound, Status: http.StatusNotFound, Code: "ENTRY_NOT_FOUND"},
	{Err: ErrInvalidMealType, Status: http.StatusBadRequest, Code: "INVALID_MEAL_TYPE"},
	{Err: ErrInvalidPhoto, Status: http.StatusBadRequest, Code: "INVALID_PHOTO"},
}

func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, errorMappings)
}
