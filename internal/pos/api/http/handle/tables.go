package handle

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type TableHandler struct {
	tables *services.TableService
	log    *slog.Logger
}

func NewTableHandler(tables *services.TableService, log *slog.Logger) *TableHandler {
	return &TableHandler{tables: tables, log: log}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, tables)
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	table, err := h.tables.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, table)
}

func (h *TableHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse JSON")
		return
	}

	if err := h.tables.SetStatus(r.Context(), id, models.TableStatus(req.Status)); err != nil {
		writeServiceError(w, err)
		return
	}

	table, err := h.tables.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, table)
}
