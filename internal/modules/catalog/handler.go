package catalog

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
	rg.GET("/equipment", h.ListEquipment)
	rg.GET("/equipment/:id", h.GetEquipment)
}

// ListEquipment handles GET /api/equipment.
func (h *Handler) ListEquipment(c *gin.Context) {
	items, err := h.service.ListEquipment(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch equipment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// GetEquipment handles GET /api/equipment/:id.
func (h *Handler) GetEquipment(c *gin.Context) {
	eq, err := h.service.GetEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Equipment not found")
			return
		}
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch equipment")
		return
	}

	response.Success(c, http.StatusOK, eq)
}
