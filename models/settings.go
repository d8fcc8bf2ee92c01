package models

// Trigger is a physical Bluetooth button event that can be bound to an
// action. Only these three participate in user-configurable mapping;
// every other event type is handled by hardcoded screen defaults.
type Trigger string

const (
	TriggerPlayPause Trigger = "playpause"
	TriggerNextTrack Trigger = "nexttrack"
	TriggerPrevTrack Trigger = "prevtrack"
	TriggerNone      Trigger = "none"
)

// ActionID is a logical, screen-scoped operation. The "text_"/"audio_"
// prefix encodes which screen the action belongs to; resolution filters
// on it.
type ActionID string

const (
	ActionTextPrev          ActionID = "text_prevBtn"
	ActionTextNext          ActionID = "text_nextBtn"
	ActionAudioPlay         ActionID = "audio_playBtn"
	ActionAudioPause        ActionID = "audio_pauseBtn"
	ActionAudioSkipForward  ActionID = "audio_skipForwardBtn"
	ActionAudioSkipBackward ActionID = "audio_skipBackwardBtn"
	ActionAudioNextSubtitle ActionID = "audio_nextSubtitleBtn"
	ActionAudioPrevSubtitle ActionID = "audio_prevSubtitleBtn"
	ActionAudioRepeat       ActionID = "audio_repeatSubtitleBtn"
	ActionAudioSpeed        ActionID = "audio_speedBtn"
)

// KnownActions is the closed action set in canonical order. The order is
// load-bearing: resolution scans it and returns the first match, which
// is the tie-break for pathological duplicate bindings.
var KnownActions = []ActionID{
	ActionTextPrev,
	ActionTextNext,
	ActionAudioPlay,
	ActionAudioPause,
	ActionAudioSkipForward,
	ActionAudioSkipBackward,
	ActionAudioNextSubtitle,
	ActionAudioPrevSubtitle,
	ActionAudioRepeat,
	ActionAudioSpeed,
}

// IsKnownAction reports whether id belongs to the closed action set.
// Update rejects anything else before touching the store.
func IsKnownAction(id ActionID) bool {
	for _, a := range KnownActions {
		if a == id {
			return true
		}
	}
	return false
}

// TriggerBinding holds the trigger assigned to one click arity.
type TriggerBinding struct {
	Trigger Trigger `json:"trigger"`
}

// ActionBinding is one action's pair of bindings: which physical trigger
// fires it on single click and which on double click.
type ActionBinding struct {
	Single TriggerBinding `json:"single"`
	Double TriggerBinding `json:"double"`
}

// BindingFor selects the single- or double-click half of the pair.
func (b ActionBinding) BindingFor(double bool) Trigger {
	if double {
		return b.Double.Trigger
	}
	return b.Single.Trigger
}

// LegacyActionType is the pre-screen-aware action vocabulary. Kept so
// that settings saved before the actionMappings format still resolve.
type LegacyActionType string

const (
	LegacyTextNextPage      LegacyActionType = "text_nextpage"
	LegacyTextPrevPage      LegacyActionType = "text_prevpage"
	LegacyAudioPlay         LegacyActionType = "audio_play"
	LegacyAudioPause        LegacyActionType = "audio_pause"
	LegacyAudioNext         LegacyActionType = "audio_next"
	LegacyAudioPrev         LegacyActionType = "audio_prev"
	LegacyAudioSkipForward  LegacyActionType = "audio_skip_forward"
	LegacyAudioSkipBackward LegacyActionType = "audio_skip_backward"
	LegacyNone              LegacyActionType = "none"
)

// legacyActionIDs translates a legacy action type to the current id.
var legacyActionIDs = map[LegacyActionType]ActionID{
	LegacyTextNextPage:      ActionTextNext,
	LegacyTextPrevPage:      ActionTextPrev,
	LegacyAudioPlay:         ActionAudioPlay,
	LegacyAudioPause:        ActionAudioPause,
	LegacyAudioNext:         ActionAudioNextSubtitle,
	LegacyAudioPrev:         ActionAudioPrevSubtitle,
	LegacyAudioSkipForward:  ActionAudioSkipForward,
	LegacyAudioSkipBackward: ActionAudioSkipBackward,
}

// ActionIDForLegacy resolves a legacy action type to its current action
// id, reporting whether the type maps to anything.
func ActionIDForLegacy(t LegacyActionType) (ActionID, bool) {
	id, ok := legacyActionIDs[t]
	return id, ok
}

// LegacyBinding is one click arity of the old per-trigger format.
type LegacyBinding struct {
	Type  LegacyActionType `json:"type"`
	Value float64          `json:"value,omitempty"`
}

// LegacyMapping is the old format's entry for one trigger: an action per
// click arity instead of a trigger per action.
type LegacyMapping struct {
	Single LegacyBinding `json:"single"`
	Double LegacyBinding `json:"double"`
}

// MediaSettings is the persisted per-user control scheme. ActionMappings
// is the current format; Mappings is the legacy one, retained verbatim
// for users who saved settings before the screen-aware format existed.
type MediaSettings struct {
	UserID         string                     `json:"userId"`
	ActionMappings map[ActionID]ActionBinding `json:"actionMappings"`
	Mappings       map[Trigger]LegacyMapping  `json:"mappings,omitempty"`
	UpdatedAt      int64                      `json:"updatedAt"`
}

// DefaultActionMappings returns the all-"none" total mapping: every
// known action present with both click arities unbound.
func DefaultActionMappings() map[ActionID]ActionBinding {
	m := make(map[ActionID]ActionBinding, len(KnownActions))
	for _, a := range KnownActions {
		m[a] = ActionBinding{
			Single: TriggerBinding{Trigger: TriggerNone},
			Double: TriggerBinding{Trigger: TriggerNone},
		}
	}
	return m
}
