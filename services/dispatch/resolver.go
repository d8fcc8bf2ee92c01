// Package dispatch turns physical button events into logical actions
// and executes them. This is the coordination core: resolution decides
// which action a click means on the screen the user is looking at, and
// execution either mutates server-held state or queues a command for
// the client.
package dispatch

import (
	"strings"

	"glasslink/models"
)

// configurableTriggers are the only event types that consult the user's
// mapping table. Everything else is handled by hardcoded screen-aware
// defaults.
var configurableTriggers = map[string]models.Trigger{
	"playpause": models.TriggerPlayPause,
	"nexttrack": models.TriggerNextTrack,
	"prevtrack": models.TriggerPrevTrack,
}

// prefixesFor computes which action-id prefixes are reachable from a
// screen. Content screens scope to their own domain; the top and
// utility screens allow both so neither domain's bindings go dark
// while, say, the settings page is foregrounded.
func prefixesFor(screen models.Screen) []string {
	switch screen {
	case models.ScreenTextReader:
		return []string{"text_"}
	case models.ScreenAudioPlayer:
		return []string{"audio_"}
	default:
		return []string{"text_", "audio_"}
	}
}

func allowed(id models.ActionID, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(string(id), p) {
			return true
		}
	}
	return false
}

// Resolve decides the single logical action for an event, or reports
// that there is none. screen is the foregrounded screen used for
// mapping scope; contentScreen is the effective content screen used by
// the screen-implicit defaults (they differ when the user is on a
// utility screen).
func Resolve(eventType string, isDouble bool, screen, contentScreen models.Screen, settings models.MediaSettings) (models.ActionID, bool) {
	eventType = strings.ToLower(strings.TrimSpace(eventType))

	trigger, configurable := configurableTriggers[eventType]
	if !configurable {
		return screenDefault(eventType, contentScreen)
	}

	// new format: scan actions in canonical order, first match wins
	prefixes := prefixesFor(screen)
	for _, id := range models.KnownActions {
		if !allowed(id, prefixes) {
			continue
		}
		binding, ok := settings.ActionMappings[id]
		if !ok {
			continue
		}
		if binding.BindingFor(isDouble) == trigger {
			return id, true
		}
	}

	// legacy format: one action slot per trigger, screen-agnostic
	if legacy, ok := settings.Mappings[trigger]; ok {
		b := legacy.Single
		if isDouble {
			b = legacy.Double
		}
		if b.Type != "" && b.Type != models.LegacyNone {
			if id, ok := models.ActionIDForLegacy(b.Type); ok {
				return id, true
			}
		}
	}

	// safety net so an unconfigured system is still usable
	return screenDefault(eventType, contentScreen)
}

// screenDefault is the hardcoded mapping for events that bypass the
// table, plus the unconfigured-trigger safety net.
func screenDefault(eventType string, contentScreen models.Screen) (models.ActionID, bool) {
	switch eventType {
	case "nextpage":
		return models.ActionTextNext, true
	case "prevpage":
		return models.ActionTextPrev, true
	}

	switch contentScreen {
	case models.ScreenAudioPlayer:
		switch eventType {
		case "play":
			return models.ActionAudioPlay, true
		case "pause", "stop":
			return models.ActionAudioPause, true
		case "skipforward":
			return models.ActionAudioSkipForward, true
		case "skipbackward":
			return models.ActionAudioSkipBackward, true
		case "nexttrack":
			return models.ActionAudioNextSubtitle, true
		case "prevtrack":
			return models.ActionAudioPrevSubtitle, true
		}
	case models.ScreenTextReader:
		switch eventType {
		case "nexttrack":
			return models.ActionTextNext, true
		case "prevtrack":
			return models.ActionTextPrev, true
		}
	}

	return "", false
}
