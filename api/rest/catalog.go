package rest

import (
	"net/http"

	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the seed catalogs every session starts from.
type CatalogHandler struct {
	seed catalog.Seed
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(seed catalog.Seed) *CatalogHandler {
	return &CatalogHandler{seed: seed}
}

// List returns the three catalogs in display order.
// GET /api/catalogs
func (h *CatalogHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.seed)
}
