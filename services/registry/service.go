package registry

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"glasslink/models"
	"glasslink/services/text"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is implemented by every store that holds per-session
// state. Register opens a slot in each attached store and Teardown
// drops it, so "disconnect clears everything" is enforced in one place
// and a dropped session cannot be resurrected by a late write.
type SessionStore interface {
	Open(sessionID string)
	Drop(sessionID string)
}

// sessionState is the single aggregate record for one device session.
// All per-session fields live here rather than in scattered maps.
type sessionState struct {
	session           models.Session
	surface           models.Surface
	screen            models.Screen
	lastContentScreen models.Screen

	// text reader state
	pager    *text.Pager
	text     string
	fileType string

	// currently loaded media item, if any
	mediaID string
}

// Service owns the mapping from users to live device sessions and the
// per-session ephemeral state. All other components receive session
// ids, never raw state references.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState // by session id
	byUser   map[string]string        // user id -> session id
	stores   []SessionStore
}

func NewService() *Service {
	return &Service{
		sessions: make(map[string]*sessionState),
		byUser:   make(map[string]string),
	}
}

// AttachStore registers a per-session store whose lifecycle follows
// session registration and teardown. Call during wiring, before any
// session exists.
func (s *Service) AttachStore(store SessionStore) {
	s.stores = append(s.stores, store)
}

// Register creates a session for the user and pushes the welcome text
// to the device. A user holds at most one session; an existing one is
// torn down first.
func (s *Service) Register(userID string, surface models.Surface) models.Session {
	if old, err := s.LookupByUser(userID); err == nil {
		log.Printf("[registry] replacing session %s for user %s", old.ID, userID)
		s.Teardown(old.ID)
	}

	session := models.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{
		session: session,
		surface: surface,
		screen:  models.ScreenTop,
	}
	s.byUser[userID] = session.ID
	s.mu.Unlock()

	for _, store := range s.stores {
		store.Open(session.ID)
	}

	surface.ShowText("Press a button to begin", models.ViewMain)
	surface.ShowText("Session: "+session.ID, models.ViewDashboard)

	log.Printf("[registry] session %s registered for user %s", session.ID, userID)
	return session
}

// LookupByUser returns the user's live session. A miss is not
// exceptional: it means the device is not connected and the caller must
// report "reconnect required", not retry.
func (s *Service) LookupByUser(userID string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUser[userID]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	st, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return st.session, nil
}

// UserBySession is the reverse lookup, used when the dispatch path only
// has a session handle.
func (s *Service) UserBySession(sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return st.session.UserID, nil
}

// Surface returns the display surface for a session.
func (s *Service) Surface(sessionID string) (models.Surface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st.surface, nil
}

// SetScreen records the webview's foregrounded screen. Transitions into
// a content screen also update the last-content-screen fallback.
func (s *Service) SetScreen(sessionID string, screen models.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	st.screen = screen
	if screen.IsContent() {
		st.lastContentScreen = screen
	}
	return nil
}

// Screen returns the session's current screen, defaulting to top.
func (s *Service) Screen(sessionID string) models.Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.sessions[sessionID]; ok && st.screen != "" {
		return st.screen
	}
	return models.ScreenTop
}

// EffectiveScreen is the single fallback policy for screen-implicit
// behavior: the current screen when it is a content screen, else the
// last content screen if one was ever foregrounded, else the current
// screen as-is.
func (s *Service) EffectiveScreen(sessionID string) models.Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return models.ScreenTop
	}
	if st.screen.IsContent() {
		return st.screen
	}
	if st.lastContentScreen != "" {
		return st.lastContentScreen
	}
	if st.screen != "" {
		return st.screen
	}
	return models.ScreenTop
}

// SetText stores the uploaded text and its pager for the session.
func (s *Service) SetText(sessionID, content, fileType string, pager *text.Pager) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	st.text = content
	st.fileType = fileType
	st.pager = pager
	return nil
}

// Text returns the session's uploaded text, if any.
func (s *Service) Text(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok || st.text == "" {
		return "", false
	}
	return st.text, true
}

// FileType returns the declared type of the uploaded text.
func (s *Service) FileType(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.sessions[sessionID]; ok {
		return st.fileType
	}
	return ""
}

// Pager returns the session's pagination cursor, if text was uploaded.
func (s *Service) Pager(sessionID string) (*text.Pager, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok || st.pager == nil {
		return nil, false
	}
	return st.pager, true
}

// SetMediaID records which library item the session is playing.
func (s *Service) SetMediaID(sessionID, mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	st.mediaID = mediaID
	return nil
}

// MediaID returns the session's currently loaded media item id.
func (s *Service) MediaID(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok || st.mediaID == "" {
		return "", false
	}
	return st.mediaID, true
}

// Teardown releases the session and every piece of per-session state
// held by attached stores. A disconnected device cannot act on stale
// instructions, so unobserved state is simply discarded.
func (s *Service) Teardown(sessionID string) {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
		if cur, exists := s.byUser[st.session.UserID]; exists && cur == sessionID {
			delete(s.byUser, st.session.UserID)
		}
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	for _, store := range s.stores {
		store.Drop(sessionID)
	}
	log.Printf("[registry] session %s torn down", sessionID)
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
