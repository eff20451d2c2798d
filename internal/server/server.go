package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choreboard/internal/engine"
	"github.com/dukerupert/choreboard/internal/handler"
	"github.com/dukerupert/choreboard/internal/middleware"
	ws "github.com/dukerupert/choreboard/internal/websocket"
)

type Server struct {
	engine      *engine.Engine
	hub         *ws.Hub
	definitionH *handler.DefinitionHandler
	instanceH   *handler.InstanceHandler
	orderH      *handler.OrderHandler
	logger      *slog.Logger
}

func New(e *engine.Engine, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	return &Server{
		engine:      e,
		hub:         hub,
		definitionH: handler.NewDefinitionHandler(e, hub, logger.With("component", "definition")),
		instanceH:   handler.NewInstanceHandler(e, hub, logger.With("component", "instance")),
		orderH:      handler.NewOrderHandler(e, hub, logger.With("component", "order")),
		logger:      logger,
	}
}

// Hub returns the broadcast hub, e.g. for the scheduled reconciler to
// announce regenerated instances.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Definition API routes
	mux.HandleFunc("POST /api/definitions", s.definitionH.Create)
	mux.HandleFunc("GET /api/definitions", s.definitionH.List)
	mux.HandleFunc("GET /api/definitions/{id}", s.definitionH.Get)
	mux.HandleFunc("PUT /api/definitions/{id}", s.definitionH.Update)
	mux.HandleFunc("DELETE /api/definitions/{id}", s.definitionH.Deactivate)
	mux.HandleFunc("POST /api/definitions/{id}/scoped-edit", s.definitionH.ScopedEdit)
	mux.HandleFunc("POST /api/definitions/assign", s.definitionH.Assign)

	// Instance API routes
	mux.HandleFunc("POST /api/instances/generate", s.instanceH.Generate)
	mux.HandleFunc("GET /api/instances", s.instanceH.List)
	mux.HandleFunc("POST /api/instances/complete", s.instanceH.BatchComplete)
	mux.HandleFunc("POST /api/instances/category", s.instanceH.BatchCategory)
	mux.HandleFunc("POST /api/instances/{id}/complete", s.instanceH.Complete)
	mux.HandleFunc("POST /api/instances/{id}/comments", s.instanceH.AddComment)
	mux.HandleFunc("PUT /api/instances/{id}/subtasks/{subtask_id}", s.instanceH.SetSubTask)
	mux.HandleFunc("POST /api/instances/{id}/skip", s.instanceH.SetSkipped)
	mux.HandleFunc("PUT /api/instances/{id}/description", s.instanceH.SetDescription)

	// Kanban order API routes
	mux.HandleFunc("GET /api/orders/{kid_id}/{column}", s.orderH.Get)
	mux.HandleFunc("PUT /api/orders/{kid_id}/{column}", s.orderH.Set)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	h := middleware.ResolveActor(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
