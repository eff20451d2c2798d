package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choreboard/internal/engine"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type InstanceHandler struct {
	engine *engine.Engine
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewInstanceHandler(e *engine.Engine, hub *websocket.Hub, logger *slog.Logger) *InstanceHandler {
	return &InstanceHandler{engine: e, hub: hub, logger: logger}
}

func (h *InstanceHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type generateRequest struct {
	RangeStart      time.Time            `json:"range_start"`
	RangeEnd        time.Time            `json:"range_end"`
	DefaultCategory model.CategoryStatus `json:"default_category,omitempty"`
}

// Generate reconciles instances over the requested period and returns
// the full merged set.
func (h *InstanceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.RangeStart.IsZero() || req.RangeEnd.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "range_start and range_end are required"})
		return
	}
	if req.DefaultCategory != "" && !req.DefaultCategory.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown default_category"})
		return
	}

	instances, err := h.engine.Reconcile(r.Context(), req.RangeStart, req.RangeEnd, req.DefaultCategory)
	if err != nil {
		h.logger.Error("reconcile", "error", err)
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "generated", "", nil))
	writeJSON(w, http.StatusOK, instances)
}

func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	instances, err := h.engine.ListInstances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if instances == nil {
		instances = []model.ChoreInstance{}
	}
	writeJSON(w, http.StatusOK, instances)
}

type batchCompleteRequest struct {
	IDs      []string `json:"ids"`
	Complete bool     `json:"complete"`
}

func (h *InstanceHandler) BatchComplete(w http.ResponseWriter, r *http.Request) {
	var req batchCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := h.engine.BatchSetComplete(r.Context(), req.IDs, req.Complete)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "batch_completed", "", map[string]any{"count": result.SucceededCount}))
	writeJSON(w, http.StatusOK, result)
}

type batchCategoryRequest struct {
	IDs      []string             `json:"ids"`
	Category model.CategoryStatus `json:"category"`
}

func (h *InstanceHandler) BatchCategory(w http.ResponseWriter, r *http.Request) {
	var req batchCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := h.engine.BatchSetCategory(r.Context(), req.IDs, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "batch_category", "", map[string]any{"count": result.SucceededCount}))
	writeJSON(w, http.StatusOK, result)
}

func (h *InstanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Complete bool `json:"complete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.engine.SetComplete(r.Context(), id, req.Complete); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "completed", id, map[string]any{"complete": req.Complete}))
	w.WriteHeader(http.StatusNoContent)
}

func (h *InstanceHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	comment, err := h.engine.AddComment(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "commented", id, nil))
	writeJSON(w, http.StatusCreated, comment)
}

func (h *InstanceHandler) SetSubTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	subTaskID := r.PathValue("subtask_id")

	var req struct {
		Done bool `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.engine.SetSubTaskDone(r.Context(), id, subTaskID, req.Done); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "subtask_toggled", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *InstanceHandler) SetSkipped(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Skipped bool `json:"skipped"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.engine.SetSkipped(r.Context(), id, req.Skipped); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "skipped", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *InstanceHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.engine.SetDescriptionOverride(r.Context(), id, req.Description); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("instance", "description_updated", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
