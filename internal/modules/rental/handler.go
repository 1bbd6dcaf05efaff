package rental

import (
	"errors"
	"net/http"

	"sportrent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rentals", h.ListRentals)
	rg.POST("/rentals", h.CreateRental)
	rg.DELETE("/rentals/:id", h.CancelRental)
}

func (h *Handler) CreateRental(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.CreateRental(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, r)
}

func (h *Handler) ListRentals(c *gin.Context) {
	rentals, err := h.service.ListRentals(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rentals)
}

func (h *Handler) CancelRental(c *gin.Context) {
	err := h.service.CancelRental(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Rental deleted"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var stockErr *InsufficientStockError

	switch {
	case errors.Is(err, ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")

	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				validationErr.Message, gin.H{"fields": validationErr.Fields})
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)

	case errors.Is(err, ErrEquipmentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Equipment not found")

	case errors.Is(err, ErrRentalNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")

	case errors.As(err, &stockErr):
		response.ErrorWithDetails(c, http.StatusConflict, "INSUFFICIENT_STOCK",
			"Insufficient quantity available", gin.H{
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			})

	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot modify this rental")

	default:
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
