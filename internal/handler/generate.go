package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fernwood/choreboard/internal/generate"
	"github.com/fernwood/choreboard/internal/websocket"
)

type GenerateHandler struct {
	generator *generate.Generator
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewGenerateHandler(generator *generate.Generator, hub *websocket.Hub, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{generator: generator, hub: hub, logger: logger}
}

type generateRequest struct {
	StartDate string `json:"start_date"`
	Days      int    `json:"days"`
}

// Generate runs the assignment engine for a household. The engine reports
// its own validation and per-task problems inside the result body; only a
// malformed request is rejected outright.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid household id")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		start, err = parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
	}

	result := h.generator.Generate(householdID, start, req.Days)

	if result.Created > 0 && h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage(householdID, "assignment", "generated", 0, map[string]any{
			"created": result.Created,
			"skipped": result.Skipped,
		}))
	}

	writeJSON(w, http.StatusOK, result)
}
