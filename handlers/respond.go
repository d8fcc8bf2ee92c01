package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a success payload as JSON.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes the uniform {success:false, error} body. The status
// carries the error class: 401 no identity, 404 missing session or
// resource, 400 malformed input, 500 unexpected failure.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// errSessionRequired is the user-visible miss for a live-session
// lookup: terminal for the request, fixed by reconnecting the device.
const errSessionRequired = "session not found, restart the glasses app"
