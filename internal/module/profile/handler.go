package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutrilog/server/internal/module/auth"
	"github.com/nutrilog/server/internal/shared/response"
)

// Handler handles HTTP requests for accounts and body metrics.
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.GET("/profile/goals", h.Goals)
}

// Register handles account registration.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, tokens, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{User: user.ToResponse(), Tokens: *tokens})
}

// Login handles email/password login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: user.ToResponse(), Tokens: *tokens})
}

// Refresh rotates a refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: user.ToResponse(), Tokens: *tokens})
}

// Logout revokes the user's refresh tokens.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile returns the user's body metrics.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile creates or replaces the user's body metrics.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Goals returns the computed energy metrics.
func (h *Handler) Goals(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "")
		return
	}

	metrics, err := h.service.Goals(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// errorMappings maps module errors onto HTTP responses.
var errorMappings = []response.ErrorMapping{
	{Err: ErrEmailAlreadyExists, Status: http.StatusConflict, Code: "EMAIL_EXISTS"},
	{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"},
	{Err: ErrPasswordTooShort, Status: http.StatusBadRequest, Code: "PASSWORD_TOO_SHORT"},
	{Err: ErrUserNotFound, Status: http.StatusNotFound, Code: "USER_NOT_FOUND"},
	{Err: ErrProfileNotFound, Status: http.StatusNotFound, Code: "PROFILE_NOT_FOUND"},
	{Err: ErrProfileIncomplete, Status: http.StatusBadRequest, Code: "PROFILE_INCOMPLETE"},
	{Err: auth.ErrInvalidToken, Status: http.StatusUnauthorized, Code: "INVALID_TOKEN"},
	{Err: auth.ErrTokenExpired, Status: http.StatusUnauthorized, Code: "TOKEN_EXPIRED"},
}

func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, errorMappings)
}
