package handlers

import (
	"log"
	"net/http"

	"glasslink/api"
	"glasslink/models"
	"glasslink/services/registry"
)

// logSurface is the production display surface: the device link is
// platform-owned, so pushes are observable only in the log.
type logSurface struct {
	userID string
}

func (s *logSurface) ShowText(text string, view models.ViewTarget) {
	log.Printf("[display] user=%s view=%s text=%q", s.userID, view, text)
}

// DeviceHandler manages session lifecycle: the platform's connect and
// disconnect callbacks, expressed as endpoints.
type DeviceHandler struct {
	Registry *registry.Service
}

func NewDeviceHandler(reg *registry.Service) *DeviceHandler {
	return &DeviceHandler{Registry: reg}
}

// Connect registers a device session for the authenticated user and
// shows the welcome text. An existing session for the user is replaced.
func (h *DeviceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session := h.Registry.Register(userID, &logSurface{userID: userID})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session": session})
}

// Disconnect tears the session down, releasing every piece of
// per-session state.
func (h *DeviceHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}
	h.Registry.Teardown(session.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
