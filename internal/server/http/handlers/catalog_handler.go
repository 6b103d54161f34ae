package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/banksampah/internal/server/http/dto"
)

// CatalogHandler serves the material rates and the reward catalog.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Materials handles GET /api/materials.
func (h *CatalogHandler) Materials(c *gin.Context) {
	entries := h.facade.Materials(c.Request.Context())
	resp := make([]dto.MaterialResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.MaterialResponse{Material: e.Material, Rate: e.Rate})
	}
	c.JSON(http.StatusOK, resp)
}

// Rewards handles GET /api/rewards.
func (h *CatalogHandler) Rewards(c *gin.Context) {
	offers := h.facade.Rewards(c.Request.Context())
	resp := make([]dto.RewardResponse, 0, len(offers))
	for _, o := range offers {
		resp = append(resp, dto.RewardResponse{ID: o.ID, Label: o.Label, Cost: o.Cost})
	}
	c.JSON(http.StatusOK, resp)
}
