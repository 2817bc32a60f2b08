// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActivityHandler holds all HTTP handlers for the activities API.
type ActivityHandler struct {
	svc *service.RosterService
	log *zap.Logger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.RosterService, log *zap.Logger) *ActivityHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// activityParam returns the decoded {activityName} path segment.
func activityParam(r *http.Request) string {
	name := chi.URLParam(r, "activityName")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// writeServiceError maps service and store errors to status codes.
func (h *ActivityHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, repository.ErrActivityNotFound.Error())
	case errors.Is(err, repository.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, repository.ErrAlreadySignedUp.Error())
	case errors.Is(err, repository.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, repository.ErrNotSignedUp.Error())
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusUnprocessableEntity, service.ErrEmailRequired.Error())
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListActivities handles GET /activities
// Returns an object mapping activity name to its details.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	roster, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// SignUp handles POST /activities/{activityName}/signup?email=
func (h *ActivityHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.SignUp(r.Context(), activityParam(r), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unregister handles DELETE /activities/{activityName}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Unregister(r.Context(), activityParam(r), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
