package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"glasslink/api"
	"glasslink/models"
	"glasslink/services/library"
	"glasslink/services/playback"
	"glasslink/services/registry"
	"glasslink/services/subtitles"
)

// AudioHandler serves the media library and the audio player's server
// half: streaming, subtitle tracks, progress reports and the command
// poll.
type AudioHandler struct {
	Registry  *registry.Service
	Library   *library.Service
	Subtitles *subtitles.Service
	Playback  *playback.Service
}

func NewAudioHandler(reg *registry.Service, lib *library.Service, subs *subtitles.Service, pb *playback.Service) *AudioHandler {
	return &AudioHandler{Registry: reg, Library: lib, Subtitles: subs, Playback: pb}
}

// Directories returns the library facets for the filter dropdowns.
func (h *AudioHandler) Directories(w http.ResponseWriter, r *http.Request) {
	listing, err := h.Library.List(library.Filter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"configured": h.Library.Configured(),
		"months":     listing.Months,
		"speakers":   listing.Speakers,
	})
}

// Files returns the filtered library listing.
func (h *AudioHandler) Files(w http.ResponseWriter, r *http.Request) {
	filter := library.Filter{
		Month:   r.URL.Query().Get("month"),
		Speaker: r.URL.Query().Get("speaker"),
	}
	listing, err := h.Library.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"files":    listing.Files,
		"months":   listing.Months,
		"speakers": listing.Speakers,
	})
}

// Stream serves the audio bytes with range support, so the client's
// media element can seek without re-downloading.
func (h *AudioHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	file, fi, contentType, err := h.Library.Open(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) || errors.Is(err, library.ErrNoSourceDir) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), file)
}

// LoadSubtitles parses the item's caption track (cached after first
// parse), marks it as the session's loaded media, and resets playback
// state for a fresh listen.
func (h *AudioHandler) LoadSubtitles(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)
	id := mux.Vars(r)["id"]

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	entries, ok := h.Subtitles.Get(id)
	if !ok {
		raw, err := h.Library.Captions(id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, library.ErrNotFound) || errors.Is(err, library.ErrNoCaptionFile) || errors.Is(err, library.ErrNoSourceDir) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		entries = h.Subtitles.Put(id, raw)
	}

	if err := h.Registry.SetMediaID(session.ID, id); err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}
	h.Playback.Init(session.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"subtitles": entries,
		"count":     len(entries),
	})
}

// State receives the client's periodic progress report. When playback
// moves into a new subtitle span the entry's text is pushed to the
// glasses, keeping the display in sync without the client asking.
func (h *AudioHandler) State(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	var req struct {
		CurrentTime   float64 `json:"currentTime"`
		SubtitleIndex *int    `json:"subtitleIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// the client's report is authoritative, last write wins; the
	// time-derived index only fills in for clients that omit the field
	prev := h.Playback.State(session.ID).SubtitleIndex
	index := prev
	if req.SubtitleIndex != nil {
		index = *req.SubtitleIndex
	}

	if mediaID, ok := h.Registry.MediaID(session.ID); ok {
		if entry, ok := h.Subtitles.EntryForTime(mediaID, req.CurrentTime); ok {
			if i, ok := h.entryPosition(mediaID, entry); ok {
				if i != prev {
					h.pushSubtitle(session.ID, entry.Text)
				}
				if req.SubtitleIndex == nil {
					index = i
				}
			}
		}
	}

	h.Playback.Report(session.ID, req.CurrentTime, index)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "subtitleIndex": index})
}

// entryPosition finds an entry's position within its cached track.
func (h *AudioHandler) entryPosition(mediaID string, entry models.SubtitleEntry) (int, bool) {
	track, ok := h.Subtitles.Get(mediaID)
	if !ok {
		return 0, false
	}
	for i := range track {
		if track[i].Index == entry.Index && track[i].StartTime == entry.StartTime {
			return i, true
		}
	}
	return 0, false
}

func (h *AudioHandler) pushSubtitle(sessionID, body string) {
	surface, err := h.Registry.Surface(sessionID)
	if err != nil {
		return
	}
	surface.ShowText(body, models.ViewMain)
}

// Repeat toggles repeat for the session from the webview's own control.
func (h *AudioHandler) Repeat(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	on := h.Playback.ToggleRepeat(session.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "repeat": on})
}

// Speed cycles the playback rate from the webview's own control.
func (h *AudioHandler) Speed(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	speed := h.Playback.CycleSpeed(session.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "playbackSpeed": speed})
}

// Settings returns the session's player-local settings.
func (h *AudioHandler) Settings(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"repeat":        h.Playback.Repeat(session.ID),
		"playbackSpeed": h.Playback.Speed(session.ID),
	})
}

// Commands is the client's poll loop: every fresh queued command is
// delivered once, and the queue resets whether or not anything was
// fresh.
func (h *AudioHandler) Commands(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	commands := h.Playback.Drain(session.ID)
	if commands == nil {
		commands = []models.Command{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "commands": commands})
}

// SubtitleEnd is called when the client finishes playing the current
// subtitle span. With repeat on it answers with a seek back to the
// span's start, closing the loop.
func (h *AudioHandler) SubtitleEnd(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	if !h.Playback.Repeat(session.ID) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "repeat": false})
		return
	}

	mediaID, ok := h.Registry.MediaID(session.ID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "repeat": true})
		return
	}
	index := h.Playback.State(session.ID).SubtitleIndex
	entry, ok := h.Subtitles.EntryAt(mediaID, index)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "repeat": true})
		return
	}

	h.Playback.Enqueue(session.ID, models.CommandSeek, entry.StartTime)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"repeat":  true,
		"seekTo":  entry.StartTime,
	})
}
