package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/auth"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/service"
)

// ActivityHandler exposes the activity log: create, list, delete, and the
// aggregate summary. Every route sits behind RequireAuth; the userID from
// the request context scopes all reads and writes.
type ActivityHandler struct {
	activities *service.ActivityService
	logger     *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(activities *service.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		logger:     logger,
	}
}

type createActivityRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Calories int    `json:"calories"`
	Date     string `json:"date"`
}

// HandleCreate logs a new activity for the caller.
//
// HTTP: POST /api/activities
// Body: {"type": "exercise"|"meal", "name": ..., "duration": ...,
// "calories": ..., "date": "YYYY-MM-DD"}
func (h *ActivityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Unauthenticated())
		return
	}

	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	activity, err := h.activities.Create(r.Context(),
		userID, req.Type, req.Name, req.Duration, req.Calories, req.Date)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Activity{"activity": activity})
}

// HandleList returns the caller's activities, newest date first.
//
// HTTP: GET /api/activities
func (h *ActivityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Unauthenticated())
		return
	}

	activities, err := h.activities.List(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Activity{"activities": activities})
}

// HandleDelete removes one of the caller's activities.
//
// HTTP: DELETE /api/activities/{id}
// 404 whether the activity doesn't exist or belongs to another user.
func (h *ActivityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Unauthenticated())
		return
	}

	id := r.PathValue("id")
	if err := h.activities.Delete(r.Context(), userID, id); err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}

// HandleStats returns the caller's aggregate summary.
//
// HTTP: GET /api/activities/stats/summary
func (h *ActivityHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, apperror.Unauthenticated())
		return
	}

	stats, err := h.activities.Stats(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.ActivityStats{"statistics": stats})
}
