package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"glasslink/api"
	"glasslink/models"
	"glasslink/services/dispatch"
	"glasslink/services/registry"
	"glasslink/services/settings"
)

// supportedEvents is the catalog of button event types the dispatch
// path understands, for the webview's test console.
var supportedEvents = []string{
	"playpause",
	"nexttrack",
	"prevtrack",
	"play",
	"pause",
	"stop",
	"skipforward",
	"skipbackward",
	"nextpage",
	"prevpage",
}

// MediaHandler is the dispatch surface: button events come in, get
// resolved against the user's mappings, and execute.
type MediaHandler struct {
	Registry *registry.Service
	Settings *settings.Service
	Executor *dispatch.Executor
}

func NewMediaHandler(reg *registry.Service, st *settings.Service, ex *dispatch.Executor) *MediaHandler {
	return &MediaHandler{Registry: reg, Settings: st, Executor: ex}
}

// Event receives one physical button event, resolves it against the
// user's mappings and the current screen, and executes the result.
func (h *MediaHandler) Event(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	var ev models.MediaEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ev.EventType == "" {
		writeError(w, http.StatusBadRequest, "eventType is required")
		return
	}

	// Events carrying the foregrounded screen keep the session record
	// fresh without a separate round trip.
	screen := h.Registry.Screen(session.ID)
	if ev.CurrentScreen != "" {
		screen = models.ParseScreen(ev.CurrentScreen)
		if err := h.Registry.SetScreen(session.ID, screen); err != nil {
			writeError(w, http.StatusNotFound, errSessionRequired)
			return
		}
	}
	contentScreen := h.Registry.EffectiveScreen(session.ID)

	userSettings, err := h.Settings.Get(userID)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidUserID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	actionID, ok := dispatch.Resolve(ev.EventType, ev.IsDoubleClick, screen, contentScreen, userSettings)
	if !ok {
		log.Printf("[media] no action for event=%s double=%t screen=%s", ev.EventType, ev.IsDoubleClick, screen)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "action": "none"})
		return
	}

	outcome, err := h.Executor.Execute(actionID, ev, session.ID, ev.FromAccessory())
	if err != nil {
		if errors.Is(err, dispatch.ErrNoSubtitleTrack) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"success": true, "action": outcome.Action}
	if outcome.PageInfo != nil {
		resp["pageInfo"] = outcome.PageInfo
	}
	writeJSON(w, http.StatusOK, resp)
}

// Events lists the supported event types.
func (h *MediaHandler) Events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "events": supportedEvents})
}

// Screen records the webview's foregrounded screen for the session.
func (h *MediaHandler) Screen(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	var req struct {
		Screen string `json:"screen"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Screen == "" {
		writeError(w, http.StatusBadRequest, "screen is required")
		return
	}

	screen := models.ParseScreen(req.Screen)
	if err := h.Registry.SetScreen(session.ID, screen); err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "screen": screen})
}
