package models

// AudioFile describes one playable item in the media library: a wav
// with a companion srt, identified by a slug of its base name.
type AudioFile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date"`      // yyyy-mm-dd
	Part    string `json:"timeOfDay"` // free-form day-part tag from the filename
	Level   string `json:"level"`
	Title   string `json:"title"`
	Speaker string `json:"speaker"`
	Month   string `json:"month"` // yyyy-mm, derived from Date
}

// SubtitleEntry is one cue of a parsed subtitle track. Times are in
// seconds. Entries of a track are sorted by StartTime.
type SubtitleEntry struct {
	Index     int     `json:"index"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// MediaEvent is an incoming physical button event (or its webview-test
// equivalent). CurrentScreen, when empty, is resolved from server-held
// session state.
type MediaEvent struct {
	EventType     string  `json:"eventType"`
	IsDoubleClick bool    `json:"isDoubleClick"`
	Interval      float64 `json:"interval,omitempty"`
	Source        string  `json:"source"`
	Timestamp     int64   `json:"timestamp"`
	CurrentScreen string  `json:"currentPage,omitempty"`
}

// FromAccessory reports whether the event came from a physical
// accessory rather than the webview test page. Confirmation text on the
// glasses is suppressed for accessory events.
func (e MediaEvent) FromAccessory() bool {
	switch e.Source {
	case "bluetooth", "bluetooth-ios", "ios", "ios-double":
		return true
	}
	return false
}
