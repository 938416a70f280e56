package recognition

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nutrilog/server/internal/shared/errors"
	"github.com/nutrilog/server/internal/shared/response"
)

// Handler exposes the recognition pipeline over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a recognition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers recognition routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/recognition/image", h.AnalyzeImage)
	r.GET("/recognition/quota", h.Quota)
	r.GET("/foods/lookup", h.LookupFood)
	r.GET("/foods/search", h.SearchFoods)
}

// AnalyzeImage identifies the food on an uploaded photo.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Tolerate data-URI prefixed payloads from the mobile client
	b64 := req.ImageBase64
	if idx := strings.Index(b64, ";base64,"); idx >= 0 {
		b64 = b64[idx+len(";base64,"):]
	}
	image, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		response.BadRequest(c, "image_base64 is not valid base64")
		return
	}

	result, err := h.service.AnalyzeImage(c.Request.Context(), image, req.MealType)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LookupFood returns nutrition facts for a named food.
func (h *Handler) LookupFood(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.BadRequest(c, "name query parameter is required")
		return
	}

	result, err := h.service.LookupFood(c.Request.Context(), name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchFoods returns candidate foods matching a query.
func (h *Handler) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "q query parameter is required")
		return
	}

	items, err := h.service.SearchFoods(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Results: items})
}

// Quota reports the remaining daily recognition quota.
func (h *Handler) Quota(c *gin.Context) {
	c.JSON(http.StatusOK, QuotaResponse{
		Remaining: h.service.RemainingQuota(c.Request.Context()),
		Limit:     h.service.quota.Limit(),
	})
}

// handleError maps service errors onto HTTP responses.
func handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithCode(c, appErr.StatusCode, appErr.Code, appErr.Message)
		return
	}
	response.Error(c, apperrors.GetStatusCode(err), err.Error())
}
