package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choreboard/internal/engine"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type OrderHandler struct {
	engine *engine.Engine
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewOrderHandler(e *engine.Engine, hub *websocket.Hub, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{engine: e, hub: hub, logger: logger}
}

func (h *OrderHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	kidID := r.PathValue("kid_id")
	column := r.PathValue("column")

	ids, err := h.engine.GetOrder(r.Context(), kidID, column)
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (h *OrderHandler) Set(w http.ResponseWriter, r *http.Request) {
	kidID := r.PathValue("kid_id")
	column := r.PathValue("column")

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.engine.SetOrder(r.Context(), kidID, column, req.IDs); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("order", "updated", kidID+"|"+column, nil))
	w.WriteHeader(http.StatusNoContent)
}
