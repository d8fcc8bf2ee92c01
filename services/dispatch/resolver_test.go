package dispatch

import (
	"testing"

	"glasslink/models"
)

func settingsWith(bindings map[models.ActionID]models.ActionBinding) models.MediaSettings {
	merged := models.DefaultActionMappings()
	for id, b := range bindings {
		merged[id] = b
	}
	return models.MediaSettings{ActionMappings: merged}
}

func bindSingle(trigger models.Trigger) models.ActionBinding {
	return models.ActionBinding{
		Single: models.TriggerBinding{Trigger: trigger},
		Double: models.TriggerBinding{Trigger: models.TriggerNone},
	}
}

func bindDouble(trigger models.Trigger) models.ActionBinding {
	return models.ActionBinding{
		Single: models.TriggerBinding{Trigger: models.TriggerNone},
		Double: models.TriggerBinding{Trigger: trigger},
	}
}

func TestResolve_MappedSingleClick(t *testing.T) {
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioPlay: bindSingle(models.TriggerPlayPause),
	})

	id, ok := Resolve("playpause", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s)
	if !ok || id != models.ActionAudioPlay {
		t.Errorf("Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioPlay)
	}
}

func TestResolve_DoubleClickUsesDoubleBinding(t *testing.T) {
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioPause: bindDouble(models.TriggerPlayPause),
	})

	if id, ok := Resolve("playpause", true, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s); !ok || id != models.ActionAudioPause {
		t.Errorf("double click: Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioPause)
	}
	// single click must not match a double-only binding, so the
	// unconfigured safety net kicks in instead
	if id, _ := Resolve("playpause", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s); id == models.ActionAudioPause {
		t.Errorf("single click matched the double binding")
	}
}

func TestResolve_ScreenScopesMappings(t *testing.T) {
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionTextNext:          bindSingle(models.TriggerNextTrack),
		models.ActionAudioNextSubtitle: bindSingle(models.TriggerNextTrack),
	})

	if id, _ := Resolve("nexttrack", false, models.ScreenTextReader, models.ScreenTextReader, s); id != models.ActionTextNext {
		t.Errorf("textReader: got %q, want %q", id, models.ActionTextNext)
	}
	if id, _ := Resolve("nexttrack", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s); id != models.ActionAudioNextSubtitle {
		t.Errorf("audioPlayer: got %q, want %q", id, models.ActionAudioNextSubtitle)
	}
}

func TestResolve_UtilityScreenAllowsBothDomains(t *testing.T) {
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioSpeed: bindSingle(models.TriggerPlayPause),
	})

	id, ok := Resolve("playpause", false, models.ScreenSettings, models.ScreenAudioPlayer, s)
	if !ok || id != models.ActionAudioSpeed {
		t.Errorf("settings screen: Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioSpeed)
	}
}

func TestResolve_FirstMatchWinsInCanonicalOrder(t *testing.T) {
	// pathological: two audio actions bound to the same trigger. The
	// canonical order has play before speed, so play must win.
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioSpeed: bindSingle(models.TriggerPlayPause),
		models.ActionAudioPlay:  bindSingle(models.TriggerPlayPause),
	})

	for i := 0; i < 20; i++ {
		id, ok := Resolve("playpause", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s)
		if !ok || id != models.ActionAudioPlay {
			t.Fatalf("iteration %d: Resolve = %q, %t; want %q, true", i, id, ok, models.ActionAudioPlay)
		}
	}
}

func TestResolve_LegacyFallback(t *testing.T) {
	s := models.MediaSettings{
		ActionMappings: models.DefaultActionMappings(),
		Mappings: map[models.Trigger]models.LegacyMapping{
			models.TriggerNextTrack: {
				Single: models.LegacyBinding{Type: models.LegacyAudioNext},
			},
		},
	}

	id, ok := Resolve("nexttrack", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s)
	if !ok || id != models.ActionAudioNextSubtitle {
		t.Errorf("legacy fallback: Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioNextSubtitle)
	}
}

func TestResolve_NewFormatShadowsLegacy(t *testing.T) {
	s := models.MediaSettings{
		ActionMappings: models.DefaultActionMappings(),
		Mappings: map[models.Trigger]models.LegacyMapping{
			models.TriggerPlayPause: {
				Single: models.LegacyBinding{Type: models.LegacyAudioPause},
			},
		},
	}
	s.ActionMappings[models.ActionAudioPlay] = bindSingle(models.TriggerPlayPause)

	id, _ := Resolve("playpause", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s)
	if id != models.ActionAudioPlay {
		t.Errorf("new format should shadow legacy: got %q", id)
	}
}

func TestResolve_NonConfigurableBypassesTable(t *testing.T) {
	// even a mapping that binds something to playpause must not affect
	// bare play/pause events
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioSpeed: bindSingle(models.TriggerPlayPause),
	})

	cases := []struct {
		eventType string
		screen    models.Screen
		want      models.ActionID
	}{
		{"play", models.ScreenAudioPlayer, models.ActionAudioPlay},
		{"pause", models.ScreenAudioPlayer, models.ActionAudioPause},
		{"stop", models.ScreenAudioPlayer, models.ActionAudioPause},
		{"skipforward", models.ScreenAudioPlayer, models.ActionAudioSkipForward},
		{"skipbackward", models.ScreenAudioPlayer, models.ActionAudioSkipBackward},
		{"nextpage", models.ScreenTextReader, models.ActionTextNext},
		{"prevpage", models.ScreenTextReader, models.ActionTextPrev},
		{"nextpage", models.ScreenAudioPlayer, models.ActionTextNext},
	}
	for _, tc := range cases {
		id, ok := Resolve(tc.eventType, false, tc.screen, tc.screen, s)
		if !ok || id != tc.want {
			t.Errorf("%s on %s: Resolve = %q, %t; want %q, true", tc.eventType, tc.screen, id, ok, tc.want)
		}
	}
}

func TestResolve_UnconfiguredSafetyNet(t *testing.T) {
	s := settingsWith(nil)

	if id, _ := Resolve("nexttrack", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s); id != models.ActionAudioNextSubtitle {
		t.Errorf("audio default: got %q, want %q", id, models.ActionAudioNextSubtitle)
	}
	if id, _ := Resolve("prevtrack", false, models.ScreenTextReader, models.ScreenTextReader, s); id != models.ActionTextPrev {
		t.Errorf("text default: got %q, want %q", id, models.ActionTextPrev)
	}
}

func TestResolve_ContentScreenDrivesDefaults(t *testing.T) {
	// on a utility screen the defaults follow the last content screen
	s := settingsWith(nil)

	id, ok := Resolve("play", false, models.ScreenSettings, models.ScreenAudioPlayer, s)
	if !ok || id != models.ActionAudioPlay {
		t.Errorf("Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioPlay)
	}
}

func TestResolve_UnknownEvent(t *testing.T) {
	s := settingsWith(nil)
	if id, ok := Resolve("volumeup", false, models.ScreenTop, models.ScreenTop, s); ok {
		t.Errorf("unknown event resolved to %q", id)
	}
}

func TestResolve_EventTypeNormalized(t *testing.T) {
	s := settingsWith(map[models.ActionID]models.ActionBinding{
		models.ActionAudioPlay: bindSingle(models.TriggerPlayPause),
	})

	id, ok := Resolve("  PlayPause ", false, models.ScreenAudioPlayer, models.ScreenAudioPlayer, s)
	if !ok || id != models.ActionAudioPlay {
		t.Errorf("Resolve = %q, %t; want %q, true", id, ok, models.ActionAudioPlay)
	}
}
