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

// IntegrationHandler provides HTTP handlers for the integration catalog.
type IntegrationHandler struct {
	integrationService *services.IntegrationService
}

// NewIntegrationHandler constructs a handler with the provided service.
func NewIntegrationHandler(integrationService *services.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService}
}

// IntegrationRouter registers integration routes on the given router.
func IntegrationRouter(r chi.Router, integrationService *services.IntegrationService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewIntegrationHandler(integrationService)

	r.Use(authMiddleware)
	r.Get("/", handler.List)
	r.Post("/{integrationID}/activate", handler.Activate)
	r.Post("/{integrationID}/validate-key", handler.ValidateKey)
}

// List returns the catalog annotated for the caller's tier. An optional
// ?category= query filters by category.
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var entries []services.CatalogEntry
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		entries, err = h.integrationService.ListByCategory(r.Context(), userID, types.IntegrationCategory(category))
	} else {
		entries, err = h.integrationService.List(r.Context(), userID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list integrations")
		return
	}

	writeJSON(w, http.StatusOK, IntegrationListResponse{Integrations: entries})
}

// Activate attaches the integration to the caller's build session.
func (h *IntegrationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	integrationID := chi.URLParam(r, "integrationID")
	integration, err := h.integrationService.Activate(r.Context(), userID, req.SessionID, integrationID)
	if err != nil {
		var forbiddenErr *services.ForbiddenError
		switch {
		case errors.As(err, &forbiddenErr):
			writeError(w, http.StatusForbidden, forbiddenErr.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to activate integration")
		}
		return
	}

	writeJSON(w, http.StatusOK, ActivateResponse{
		Message:     integration.Name + " activated",
		Integration: integration,
	})
}

// ValidateKey checks an API key's format and returns its one-way hash.
func (h *IntegrationHandler) ValidateKey(w http.ResponseWriter, r *http.Request) {
	var req ValidateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "api key is required")
		return
	}

	integrationID := chi.URLParam(r, "integrationID")
	validation, err := h.integrationService.ValidateKey(r.Context(), integrationID, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAPIKey):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to validate key")
		}
		return
	}

	writeJSON(w, http.StatusOK, validation)
}

type IntegrationListResponse struct {
	Integrations []services.CatalogEntry `json:"integrations"`
}

type ActivateRequest struct {
	SessionID string `json:"session_id"`
}

type ActivateResponse struct {
	Message     string            `json:"message"`
	Integration types.Integration `json:"integration"`
}

type ValidateKeyRequest struct {
	APIKey string `json:"api_key"`
}
