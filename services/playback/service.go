// Package playback keeps the per-session outbox of client-bound
// commands and the mirror of what the client last reported about its
// media element.
package playback

import (
	"log"
	"sync"
	"time"

	"glasslink/models"
)

// StaleAfter is how old a queued command may get before delivery is
// worse than no delivery. A seek computed 5 seconds ago targets a
// position the user no longer expects.
const StaleAfter = 5 * time.Second

// Speeds is the playback-rate cycle, in order.
var Speeds = []float64{1.0, 1.25, 1.5, 1.75, 2.0}

type sessionPlayback struct {
	queue  []models.Command
	state  models.PlaybackState
	repeat bool
	speed  float64
}

// Service holds all per-session playback state. It satisfies the
// registry's SessionStore: Open creates the slot on register, Drop
// clears it on teardown, and every other call on an unknown session id
// is a no-op so a dropped session cannot be resurrected by a late
// write.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*sessionPlayback
	now      func() time.Time
}

func NewService() *Service {
	return &Service{
		sessions: make(map[string]*sessionPlayback),
		now:      time.Now,
	}
}

// Open creates the playback slot for a freshly registered session.
func (s *Service) Open(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = &sessionPlayback{
			state: models.PlaybackState{SubtitleIndex: -1},
			speed: Speeds[0],
		}
	}
}

// Init resets the session's playback state for a freshly loaded media
// item: no active subtitle, position zero.
func (s *Service) Init(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	sp.state = models.PlaybackState{SubtitleIndex: -1, UpdatedAt: s.now()}
}

// Enqueue appends one command to the session's outbox.
func (s *Service) Enqueue(sessionID string, kind models.CommandKind, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	sp.queue = append(sp.queue, models.Command{
		Kind:       kind,
		Value:      value,
		EnqueuedAt: s.now(),
	})
}

// Drain returns the commands still fresh enough to deliver and resets
// the queue unconditionally. Stale entries are discarded, never
// retried: the polling loop itself is the retry mechanism.
func (s *Service) Drain(sessionID string) []models.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok || len(sp.queue) == 0 {
		return nil
	}

	cutoff := s.now().Add(-StaleAfter)
	var fresh []models.Command
	for _, cmd := range sp.queue {
		if cmd.EnqueuedAt.After(cutoff) {
			fresh = append(fresh, cmd)
		}
	}
	if dropped := len(sp.queue) - len(fresh); dropped > 0 {
		log.Printf("[playback] dropped %d stale command(s) for session %s", dropped, sessionID)
	}
	sp.queue = nil
	return fresh
}

// Report records the client's true playback progress, last-write-wins.
func (s *Service) Report(sessionID string, currentTime float64, subtitleIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	sp.state = models.PlaybackState{
		SubtitleIndex: subtitleIndex,
		CurrentTime:   currentTime,
		UpdatedAt:     s.now(),
	}
}

// State returns the session's last-known playback state.
func (s *Service) State(sessionID string) models.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp, ok := s.sessions[sessionID]; ok {
		return sp.state
	}
	return models.PlaybackState{SubtitleIndex: -1}
}

// SetSubtitleIndex is the server-authoritative half of subtitle
// navigation. The caller pairs it with an enqueued seek.
func (s *Service) SetSubtitleIndex(sessionID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	sp.state.SubtitleIndex = index
	sp.state.UpdatedAt = s.now()
}

// ToggleRepeat flips the repeat flag and returns the new value.
func (s *Service) ToggleRepeat(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	sp.repeat = !sp.repeat
	return sp.repeat
}

// Repeat returns the session's repeat flag.
func (s *Service) Repeat(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp, ok := s.sessions[sessionID]; ok {
		return sp.repeat
	}
	return false
}

// CycleSpeed advances to the next playback rate and returns it.
func (s *Service) CycleSpeed(sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sessions[sessionID]
	if !ok {
		return Speeds[0]
	}
	next := 0
	for i, v := range Speeds {
		if v == sp.speed {
			next = (i + 1) % len(Speeds)
			break
		}
	}
	sp.speed = Speeds[next]
	return sp.speed
}

// Speed returns the session's current playback rate.
func (s *Service) Speed(sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp, ok := s.sessions[sessionID]; ok {
		return sp.speed
	}
	return Speeds[0]
}

// Drop discards all playback state for a session. Called by the
// registry on teardown.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}
