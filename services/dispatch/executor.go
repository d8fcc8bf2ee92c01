package dispatch

import (
	"errors"
	"fmt"
	"log"

	"glasslink/models"
	"glasslink/services/playback"
	"glasslink/services/registry"
	"glasslink/services/subtitles"
	"glasslink/services/text"
)

// DefaultSkipSeconds is the timed-skip offset when the event carries no
// interval of its own.
const DefaultSkipSeconds = 10

var ErrNoSubtitleTrack = errors.New("no subtitle track loaded")

// PageInfo reports the pager position after a page navigation.
type PageInfo struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	PageInfo    string `json:"pageInfo"`
}

// Outcome is what executing a resolved action produced, for the
// response body.
type Outcome struct {
	Action   models.ActionID `json:"action"`
	PageInfo *PageInfo       `json:"pageInfo,omitempty"`
}

// Executor performs resolved actions. Server-authoritative actions
// mutate registry/playback state and push to the display; client-
// resident ones translate into exactly one queued command.
type Executor struct {
	registry  *registry.Service
	playback  *playback.Service
	subtitles *subtitles.Service
}

func NewExecutor(reg *registry.Service, pb *playback.Service, subs *subtitles.Service) *Executor {
	return &Executor{registry: reg, playback: pb, subtitles: subs}
}

// Execute performs one resolved action for a session. quiet suppresses
// user-facing confirmation text (set for physical-accessory events);
// content pushes (pages, subtitles) are never suppressed.
func (e *Executor) Execute(actionID models.ActionID, ev models.MediaEvent, sessionID string, quiet bool) (Outcome, error) {
	out := Outcome{Action: actionID}

	switch actionID {
	case models.ActionTextNext, models.ActionTextPrev:
		info, err := e.navigatePage(actionID, sessionID, quiet)
		out.PageInfo = info
		return out, err

	case models.ActionAudioNextSubtitle, models.ActionAudioPrevSubtitle:
		return out, e.navigateSubtitle(actionID, sessionID)

	case models.ActionAudioPlay:
		e.playback.Enqueue(sessionID, models.CommandPlay, 0)
		e.confirm(sessionID, "Play", quiet)
		return out, nil

	case models.ActionAudioPause:
		e.playback.Enqueue(sessionID, models.CommandPause, 0)
		e.confirm(sessionID, "Pause", quiet)
		return out, nil

	case models.ActionAudioSkipForward, models.ActionAudioSkipBackward:
		e.skip(actionID, ev.Interval, sessionID)
		return out, nil

	case models.ActionAudioRepeat:
		on := e.playback.ToggleRepeat(sessionID)
		v := 0.0
		if on {
			v = 1.0
		}
		e.playback.Enqueue(sessionID, models.CommandRepeat, v)
		if on {
			e.confirm(sessionID, "Repeat on", quiet)
		} else {
			e.confirm(sessionID, "Repeat off", quiet)
		}
		return out, nil

	case models.ActionAudioSpeed:
		speed := e.playback.CycleSpeed(sessionID)
		e.playback.Enqueue(sessionID, models.CommandSpeed, speed)
		e.confirm(sessionID, fmt.Sprintf("Speed %gx", speed), quiet)
		return out, nil
	}

	return out, fmt.Errorf("unhandled action %q", actionID)
}

// navigatePage moves the pager and pushes the resulting page. Boundary
// and missing-text conditions show a transient notice instead.
func (e *Executor) navigatePage(actionID models.ActionID, sessionID string, quiet bool) (*PageInfo, error) {
	pager, ok := e.registry.Pager(sessionID)
	if !ok {
		e.confirm(sessionID, "No text uploaded", quiet)
		return nil, nil
	}

	var moved bool
	if actionID == models.ActionTextNext {
		moved = pager.Next()
	} else {
		moved = pager.Prev()
	}

	info := &PageInfo{
		CurrentPage: pager.PageNumber(),
		TotalPages:  pager.TotalPages(),
		PageInfo:    pager.PageInfo(),
	}

	if !moved {
		if actionID == models.ActionTextNext {
			e.confirm(sessionID, "Last page", quiet)
		} else {
			e.confirm(sessionID, "First page", quiet)
		}
		return info, nil
	}

	e.DisplayCurrentPage(sessionID)
	return info, nil
}

// DisplayCurrentPage pushes the pager's current page to both display
// targets. Exposed because the upload path pushes page one the same
// way.
func (e *Executor) DisplayCurrentPage(sessionID string) {
	pager, ok := e.registry.Pager(sessionID)
	if !ok {
		return
	}
	surface, err := e.registry.Surface(sessionID)
	if err != nil {
		return
	}

	body := text.CleanDisplay(pager.Current())
	if body == "" {
		log.Printf("[dispatch] page %s empty after display cleanup", pager.PageInfo())
		return
	}
	display := body + "\n\n" + pager.PageInfo()
	surface.ShowText(display, models.ViewMain)
	surface.ShowText(display, models.ViewDashboard)
}

// navigateSubtitle advances or rewinds the server-side subtitle cursor
// and pairs the index change with exactly one seek command, keeping the
// client's audio position in lockstep with the authoritative index.
func (e *Executor) navigateSubtitle(actionID models.ActionID, sessionID string) error {
	mediaID, ok := e.registry.MediaID(sessionID)
	if !ok {
		return ErrNoSubtitleTrack
	}
	count := e.subtitles.Count(mediaID)
	if count == 0 {
		return ErrNoSubtitleTrack
	}

	index := e.playback.State(sessionID).SubtitleIndex
	if actionID == models.ActionAudioNextSubtitle {
		index++
		if index > count-1 {
			index = count - 1
		}
	} else {
		index--
		if index < 0 {
			index = 0
		}
	}

	entry, ok := e.subtitles.EntryAt(mediaID, index)
	if !ok {
		return fmt.Errorf("subtitle %d out of range for %s", index, mediaID)
	}

	// the pairing below is the invariant: never one without the other
	e.playback.SetSubtitleIndex(sessionID, index)
	e.playback.Enqueue(sessionID, models.CommandSeek, entry.StartTime)

	if surface, err := e.registry.Surface(sessionID); err == nil {
		if body := text.CleanDisplay(entry.Text); body != "" {
			surface.ShowText(body, models.ViewMain)
		}
	}
	return nil
}

// skip enqueues an absolute seek computed from the last-known playback
// position, so polling latency cannot turn a 10s skip into something
// else.
func (e *Executor) skip(actionID models.ActionID, interval float64, sessionID string) {
	if interval <= 0 {
		interval = DefaultSkipSeconds
	}
	t := e.playback.State(sessionID).CurrentTime

	var target float64
	if actionID == models.ActionAudioSkipForward {
		target = t + interval
	} else {
		target = t - interval
		if target < 0 {
			target = 0
		}
	}
	e.playback.Enqueue(sessionID, models.CommandSeek, target)
}

// confirm pushes a short confirmation notice unless suppressed.
func (e *Executor) confirm(sessionID, message string, quiet bool) {
	if quiet {
		return
	}
	surface, err := e.registry.Surface(sessionID)
	if err != nil {
		return
	}
	surface.ShowText(message, models.ViewMain)
}
