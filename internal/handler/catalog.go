package handler

import (
	"net/http"

	"github.com/searchai/searchai/internal/models"
	"github.com/searchai/searchai/internal/tools"
)

// CatalogHandler handles GET /api/v1/tools: the tool catalog the agent
// fetches once at session start.
type CatalogHandler struct {
	registry *tools.Registry
}

func NewCatalogHandler(registry *tools.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

// List handles GET /api/v1/tools
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.CatalogResponse{
		Tools: h.registry.Descriptors(),
	})
}
