package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fernwood/choreboard/internal/model"
	"github.com/fernwood/choreboard/internal/store"
	"github.com/fernwood/choreboard/internal/websocket"
)

type AssignmentHandler struct {
	assignments *store.AssignmentStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewAssignmentHandler(assignments *store.AssignmentStore, hub *websocket.Hub, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, hub: hub, logger: logger}
}

func (h *AssignmentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// parseWindow reads optional start/end query params, defaulting to the
// current UTC week (today through six days out).
func parseWindow(r *http.Request) (time.Time, time.Time, string) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := parseDate(s)
		if err != nil {
			return start, end, "start must be YYYY-MM-DD"
		}
		start = parsed
		end = start.AddDate(0, 0, 6)
	}
	if s := r.URL.Query().Get("end"); s != "" {
		parsed, err := parseDate(s)
		if err != nil {
			return start, end, "end must be YYYY-MM-DD"
		}
		end = parsed
	}
	if end.Before(start) {
		return start, end, "end must not be before start"
	}
	return start, end, ""
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid household id")
		return
	}

	start, end, msg := parseWindow(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var assignments []model.Assignment
	if s := r.URL.Query().Get("member"); s != "" {
		memberID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "member must be an id")
			return
		}
		assignments, err = h.assignments.ListMemberRange(householdID, memberID, start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list assignments")
			return
		}
	} else {
		assignments, err = h.assignments.ListRange(householdID, start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list assignments")
			return
		}
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.AssignmentDone, "completed")
}

func (h *AssignmentHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.AssignmentPending, "reopened")
}

func (h *AssignmentHandler) setStatus(w http.ResponseWriter, r *http.Request, status, action string) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.assignments.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}

	assignment, err := h.assignments.UpdateStatus(id, status)
	if err != nil {
		h.logger.Error("update assignment status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	h.broadcast(websocket.NewMessage(assignment.HouseholdID, "assignment", action, id, nil))
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid household id")
		return
	}

	start, end, msg := parseWindow(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	totals, err := h.assignments.PointTotals(householdID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute point totals")
		return
	}
	if totals == nil {
		totals = []model.PointTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}
