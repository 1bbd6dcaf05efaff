package auth

import (
	"errors"
	"net/http"

	"sportrent/internal/domain"
	"sportrent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.GetMe)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  toPublic(u),
		"token": token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  toPublic(u),
		"token": token,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.service.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch profile")
		return
	}

	response.Success(c, http.StatusOK, toPublic(u))
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
