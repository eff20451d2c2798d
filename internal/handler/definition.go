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

type DefinitionHandler struct {
	engine *engine.Engine
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewDefinitionHandler(e *engine.Engine, hub *websocket.Hub, logger *slog.Logger) *DefinitionHandler {
	return &DefinitionHandler{engine: e, hub: hub, logger: logger}
}

func (h *DefinitionHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *DefinitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req engine.DefinitionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	def, err := h.engine.CreateDefinition(r.Context(), req)
	if err != nil {
		h.logger.Error("create definition", "error", err)
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("definition", "created", def.ID, nil))
	writeJSON(w, http.StatusCreated, def)
}

func (h *DefinitionHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.engine.ListDefinitions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if defs == nil {
		defs = []model.ChoreDefinition{}
	}
	writeJSON(w, http.StatusOK, defs)
}

func (h *DefinitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	def, err := h.engine.GetDefinition(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (h *DefinitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req engine.DefinitionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	def, err := h.engine.UpdateDefinition(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("definition", "updated", id, nil))
	writeJSON(w, http.StatusOK, def)
}

// Deactivate soft-deletes a definition; instances stay for history.
func (h *DefinitionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.engine.DeactivateDefinition(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("definition", "deactivated", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

type scopedEditRequest struct {
	Patch           engine.ScopedPatch `json:"patch"`
	FromDate        time.Time          `json:"from_date"`
	Scope           engine.Scope       `json:"scope"`
	RegenerateUntil *time.Time         `json:"regenerate_until,omitempty"`
}

// ScopedEdit applies an instance- or series-scoped edit. When the client
// sends regenerate_until, the forward period is reconciled in the same
// request so the board immediately shows the rebuilt series.
func (h *DefinitionHandler) ScopedEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req scopedEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.FromDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from_date is required"})
		return
	}

	if err := h.engine.ApplyScopedEdit(r.Context(), id, req.Patch, req.FromDate, req.Scope); err != nil {
		writeError(w, err)
		return
	}

	if req.Scope == engine.ScopeSeries && req.RegenerateUntil != nil {
		if _, err := h.engine.Reconcile(r.Context(), req.FromDate, *req.RegenerateUntil, ""); err != nil {
			writeError(w, err)
			return
		}
	}

	h.broadcast(websocket.NewMessage("definition", "scoped_edit", id, map[string]any{"scope": string(req.Scope)}))
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	DefinitionIDs []string `json:"definition_ids"`
	KidID         *string  `json:"kid_id"`
}

// Assign reassigns (or with a null kid_id, unassigns) a batch of
// definitions.
func (h *DefinitionHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.DefinitionIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "definition_ids is required"})
		return
	}

	result, err := h.engine.BatchAssignKid(r.Context(), req.DefinitionIDs, req.KidID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("definition", "assigned", "", map[string]any{"count": result.SucceededCount}))
	writeJSON(w, http.StatusOK, result)
}
