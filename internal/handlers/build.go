package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/physicistcolloh-png/base43/internal/services"
	"github.com/physicistcolloh-png/base43/internal/store"
	"github.com/physicistcolloh-png/base43/types"
)

// BuildHandler provides HTTP handlers for build sessions.
type BuildHandler struct {
	buildService *services.BuildService
}

// NewBuildHandler constructs a handler with the provided service.
func NewBuildHandler(buildService *services.BuildService) *BuildHandler {
	return &BuildHandler{buildService: buildService}
}

// BuildRouter registers build routes on the given router. All routes
// require authentication.
func BuildRouter(r chi.Router, buildService *services.BuildService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewBuildHandler(buildService)

	r.Use(authMiddleware)
	r.Post("/", handler.StartBuild)
	r.Get("/active", handler.ActiveBuild)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", handler.GetSession)
		r.Post("/cancel", handler.CancelBuild)
		r.Post("/steps", handler.AddProgressStep)
		r.Post("/status", handler.SetStatus)
		r.Post("/code", handler.GenerateCode)
		r.Post("/export", handler.ExportBuild)
	})
}

// StartBuild admits a new build session for the authenticated user.
func (h *BuildHandler) StartBuild(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req StartBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.AppName = strings.TrimSpace(req.AppName)
	if req.AppName == "" {
		writeError(w, http.StatusBadRequest, "app name is required")
		return
	}

	session, steps, err := h.buildService.StartBuild(r.Context(), userID, req.AppName, req.Description, req.Requirements)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, StartBuildResponse{
		Message:       "Build started",
		SessionID:     session.ID,
		Session:       session,
		ProgressSteps: steps,
	})
}

// GetSession returns the session's current state.
func (h *BuildHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	session, err := h.buildService.GetSession(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ActiveBuild returns the authenticated user's locked session, if any.
func (h *BuildHandler) ActiveBuild(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	session, ok := h.buildService.ActiveBuild(r.Context(), userID)
	if !ok {
		writeError(w, http.StatusNotFound, "no active build")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CancelBuild releases the lock and deletes the session.
func (h *BuildHandler) CancelBuild(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.buildService.CancelBuild(r.Context(), sessionID, userID); err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cancelled"})
}

// AddProgressStep appends a named milestone to the session history.
func (h *BuildHandler) AddProgressStep(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProgressStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Step = strings.TrimSpace(req.Step)
	if req.Step == "" {
		writeError(w, http.StatusBadRequest, "step name is required")
		return
	}

	session, err := h.buildService.AddProgressStep(r.Context(), chi.URLParam(r, "sessionID"), userID, req.Step)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetStatus advances the session's lifecycle state.
func (h *BuildHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	status := types.SessionStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	session, err := h.buildService.SetStatus(r.Context(), chi.URLParam(r, "sessionID"), userID, status)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GenerateCode renders the code pair for the session.
func (h *BuildHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	code, err := h.buildService.GenerateCode(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateCodeResponse{Code: code})
}

// ExportBuild archives the generated app and returns the object key.
func (h *BuildHandler) ExportBuild(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key, err := h.buildService.ExportBuild(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportBuildResponse{Key: key})
}

// writeBuildError maps service failures onto HTTP statuses and payloads.
func writeBuildError(w http.ResponseWriter, err error) {
	var quotaErr *services.QuotaExceededError
	var lockedErr *services.BuildInProgressError
	var forbiddenErr *services.ForbiddenError

	switch {
	case errors.As(err, &quotaErr):
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error:      quotaErr.Error(),
			UpgradeURL: quotaErr.UpgradeURL,
		})
	case errors.As(err, &lockedErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:     lockedErr.Error(),
			SessionID: lockedErr.ActiveSessionID,
		})
	case errors.As(err, &forbiddenErr):
		writeError(w, http.StatusForbidden, forbiddenErr.Error())
	case errors.Is(err, store.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "invalid status transition")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type StartBuildRequest struct {
	AppName      string `json:"app_name"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

type StartBuildResponse struct {
	Message       string             `json:"message"`
	SessionID     string             `json:"session_id"`
	Session       types.BuildSession `json:"session"`
	ProgressSteps []string           `json:"progress_steps"`
}

type ProgressStepRequest struct {
	Step string `json:"step"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type GenerateCodeResponse struct {
	Code types.GeneratedCode `json:"code"`
}

type ExportBuildResponse struct {
	Key string `json:"key"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
