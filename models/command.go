package models

import "time"

// CommandKind names a client-bound playback instruction. The server can
// decide these but only the browser's media element can apply them.
type CommandKind string

const (
	CommandSeek   CommandKind = "seek"
	CommandSpeed  CommandKind = "speed"
	CommandPlay   CommandKind = "play"
	CommandPause  CommandKind = "pause"
	CommandNext   CommandKind = "next"
	CommandPrev   CommandKind = "prev"
	CommandRepeat CommandKind = "repeat"
)

// Command is one queued instruction for the client. Value carries the
// seek target in seconds, the playback rate, or the repeat flag (0/1)
// depending on the kind.
type Command struct {
	Kind       CommandKind `json:"type"`
	Value      float64     `json:"value,omitempty"`
	EnqueuedAt time.Time   `json:"-"`
}

// PlaybackState mirrors what the client last reported about its media
// element, plus the server-driven subtitle cursor. SubtitleIndex -1
// means no subtitle is active.
type PlaybackState struct {
	SubtitleIndex int       `json:"subtitleIndex"`
	CurrentTime   float64   `json:"currentTime"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
