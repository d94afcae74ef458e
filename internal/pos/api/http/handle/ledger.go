package handle

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type LedgerHandler struct {
	ledger *services.LedgerService
	log    *slog.Logger
}

func NewLedgerHandler(ledger *services.LedgerService, log *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, log: log}
}

type addLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	// Merge folds a re-added product into the existing line instead of
	// inserting a new one. Caller policy, off by default.
	Merge bool `json:"merge,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	lines, err := h.ledger.List(r.Context(), tableID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if lines == nil {
		lines = []models.OrderLine{}
	}
	jsonResponse(w, http.StatusOK, lines)
}

func (h *LedgerHandler) Add(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse JSON")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var (
		line models.OrderLine
		err  error
	)
	if req.Merge {
		line, err = h.ledger.AddOrIncrement(r.Context(), tableID, req.ProductID, req.Quantity)
	} else {
		line, err = h.ledger.Add(r.Context(), tableID, req.ProductID, req.Quantity)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, line)
}

func (h *LedgerHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "lineID")
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse JSON")
		return
	}

	line, err := h.ledger.SetQuantity(r.Context(), lineID, tableID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, line)
}

func (h *LedgerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "lineID")
	if !ok {
		return
	}

	if err := h.ledger.Remove(r.Context(), lineID, tableID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear drops every line for the table, the manual override outside the
// settlement transaction.
func (h *LedgerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	if err := h.ledger.Clear(r.Context(), tableID); err != nil {
		writeServiceError(w, err)
		return
	}
	h.log.Info("ledger_cleared", "table_id", tableID)
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}
