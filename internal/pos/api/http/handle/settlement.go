package handle

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type SettlementHandler struct {
	coordinator *services.SettlementCoordinator
	store       core.ISettlementStore
	log         *slog.Logger
}

func NewSettlementHandler(coordinator *services.SettlementCoordinator, store core.ISettlementStore, log *slog.Logger) *SettlementHandler {
	return &SettlementHandler{coordinator: coordinator, store: store, log: log}
}

// Settle runs one settlement. Replays of an already-settled request return
// 200 with the cached result; a fresh commit returns 201.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse JSON")
		return
	}

	result, err := h.coordinator.Settle(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	jsonResponse(w, status, result)
}

// ListPayments returns the payment records of one day for the cashier
// close-out. Defaults to today.
func (h *SettlementHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD: "+raw)
			return
		}
		day = parsed
	}

	payments, err := h.store.ListPaymentsByDay(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if payments == nil {
		payments = []models.PaymentRecord{}
	}
	jsonResponse(w, http.StatusOK, payments)
}
