package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visadesk/backend/internal/services/catalog"
)

// VisaTypeHandler exposes the read-only visa-type catalog.
type VisaTypeHandler struct {
	catalog *catalog.CatalogService
}

// NewVisaTypeHandler creates a new visa type handler.
func NewVisaTypeHandler(catalogService *catalog.CatalogService) *VisaTypeHandler {
	return &VisaTypeHandler{catalog: catalogService}
}

// List returns every visa type in the catalog.
func (h *VisaTypeHandler) List(c *gin.Context) {
	types, err := h.catalog.ListVisaTypes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visa_types": types})
}
