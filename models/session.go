package models

import "time"

// Screen identifies the webview page currently foregrounded on the phone.
type Screen string

const (
	ScreenTop          Screen = "top"
	ScreenTextReader   Screen = "textReader"
	ScreenAudioPlayer  Screen = "audioPlayer"
	ScreenBTController Screen = "btController"
	ScreenSettings     Screen = "settings"
)

// ParseScreen maps a client-supplied screen name to a known Screen.
// Unknown values fall back to the top screen so a misbehaving client
// cannot put a session into an unreachable state.
func ParseScreen(s string) Screen {
	switch Screen(s) {
	case ScreenTop, ScreenTextReader, ScreenAudioPlayer, ScreenBTController, ScreenSettings:
		return Screen(s)
	}
	return ScreenTop
}

// IsContent reports whether the screen hosts one of the two content
// domains (text reader or audio player). Only content screens are
// remembered as the "last content screen" fallback.
func (s Screen) IsContent() bool {
	return s == ScreenTextReader || s == ScreenAudioPlayer
}

// ViewTarget selects which glasses display surface a text push goes to.
type ViewTarget string

const (
	ViewMain      ViewTarget = "main"
	ViewDashboard ViewTarget = "dashboard"
)

// Surface is the device display a session can push text to. Pushes are
// fire-and-forget; the transport belongs to the device link, not to us.
type Surface interface {
	ShowText(text string, view ViewTarget)
}

// Session is the public view of a registered device session.
type Session struct {
	ID          string    `json:"sessionId"`
	UserID      string    `json:"userId"`
	ConnectedAt time.Time `json:"connectedAt"`
}
