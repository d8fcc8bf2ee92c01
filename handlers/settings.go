package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"glasslink/api"
	"glasslink/models"
	"glasslink/services/settings"
)

// SettingsHandler exposes the per-user button mapping configuration.
type SettingsHandler struct {
	Settings *settings.Service
}

func NewSettingsHandler(st *settings.Service) *SettingsHandler {
	return &SettingsHandler{Settings: st}
}

// Get returns the user's mappings merged over defaults, so the webview
// always sees a complete table.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	s, err := h.Settings.Get(userID)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidUserID) || errors.Is(err, settings.ErrUserIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": s})
}

// Update applies a partial mapping change. Unknown action ids reject
// the whole request before anything is written.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	var req struct {
		ActionMappings map[models.ActionID]models.ActionBinding `json:"actionMappings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.ActionMappings) == 0 {
		writeError(w, http.StatusBadRequest, "actionMappings is required")
		return
	}

	updated, err := h.Settings.Update(userID, req.ActionMappings)
	if err != nil {
		if errors.Is(err, settings.ErrUnknownAction) || errors.Is(err, settings.ErrUserIDRequired) || errors.Is(err, settings.ErrInvalidUserID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": updated})
}

// Actions lists the assignable action ids in their canonical order.
func (h *SettingsHandler) Actions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"actions": models.KnownActions,
	})
}

// Triggers lists the assignable trigger values.
func (h *SettingsHandler) Triggers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"triggers": []models.Trigger{
			models.TriggerPlayPause,
			models.TriggerNextTrack,
			models.TriggerPrevTrack,
			models.TriggerNone,
		},
	})
}
