package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fernwood/choreboard/internal/generate"
	"github.com/fernwood/choreboard/internal/handler"
	"github.com/fernwood/choreboard/internal/middleware"
	"github.com/fernwood/choreboard/internal/store"
	ws "github.com/fernwood/choreboard/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	householdH  *handler.HouseholdHandler
	memberH     *handler.MemberHandler
	taskH       *handler.TaskHandler
	assignmentH *handler.AssignmentHandler
	generateH   *handler.GenerateHandler
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	householdStore := store.NewHouseholdStore(db)
	memberStore := store.NewMemberStore(db)
	taskStore := store.NewTaskStore(db)
	assignmentStore := store.NewAssignmentStore(db)

	generator := generate.New(taskStore, assignmentStore, logger.With("component", "generate"))

	return &Server{
		db:          db,
		hub:         hub,
		householdH:  handler.NewHouseholdHandler(householdStore, logger.With("component", "household")),
		memberH:     handler.NewMemberHandler(memberStore, householdStore, hub, logger.With("component", "member")),
		taskH:       handler.NewTaskHandler(taskStore, householdStore, hub, logger.With("component", "task")),
		assignmentH: handler.NewAssignmentHandler(assignmentStore, hub, logger.With("component", "assignment")),
		generateH:   handler.NewGenerateHandler(generator, hub, logger.With("component", "generate")),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Household routes
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households", s.householdH.List)
	mux.HandleFunc("GET /api/households/{id}", s.householdH.Get)
	mux.HandleFunc("PUT /api/households/{id}", s.householdH.Update)
	mux.HandleFunc("DELETE /api/households/{id}", s.householdH.Delete)

	// Member routes
	mux.HandleFunc("POST /api/households/{id}/members", s.memberH.Create)
	mux.HandleFunc("GET /api/households/{id}/members", s.memberH.List)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.memberH.VerifyPIN)

	// Task routes
	mux.HandleFunc("POST /api/households/{id}/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/households/{id}/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("PUT /api/tasks/{id}/active", s.taskH.SetActive)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Assignment routes
	mux.HandleFunc("GET /api/households/{id}/assignments", s.assignmentH.List)
	mux.HandleFunc("POST /api/assignments/{id}/complete", s.assignmentH.Complete)
	mux.HandleFunc("POST /api/assignments/{id}/reopen", s.assignmentH.Reopen)
	mux.HandleFunc("GET /api/households/{id}/leaderboard", s.assignmentH.Leaderboard)

	// Generation
	mux.HandleFunc("POST /api/households/{id}/generate", s.generateH.Generate)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
