package handle

import (
	"log/slog"
	"net/http"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	log     *slog.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, snap)
}
