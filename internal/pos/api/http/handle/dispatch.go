package handle

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
)

type DispatchHandler struct {
	dispatch *services.DispatchService
	log      *slog.Logger
}

func NewDispatchHandler(dispatch *services.DispatchService, log *slog.Logger) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch, log: log}
}

type dispatchRequest struct {
	WaiterID  string `json:"waiter_id"`
	PartySize int    `json:"party_size,omitempty"`
}

func (h *DispatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	tableID, ok := pathID(w, r, "tableID")
	if !ok {
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse JSON")
		return
	}

	result, err := h.dispatch.SendToKitchen(r.Context(), tableID, req.WaiterID, req.PartySize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, result)
}
