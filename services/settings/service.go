// Package settings persists each user's button control scheme.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"glasslink/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrUnknownAction      = errors.New("unknown action id")
)

// checkUserID rejects ids that could name a file outside the storage
// directory. The id comes from client-controlled request data, so path
// separators and parent references must never reach filepath.Join.
func checkUserID(userID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	if strings.ContainsAny(userID, `/\`) || strings.Contains(userID, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}

// Service stores one JSON file per user under its storage directory.
// Reads degrade to defaults on I/O failure; writes surface errors, since
// silently dropping a settings change is worse than reporting it.
type Service struct {
	mu  sync.Mutex
	dir string
}

// NewService creates the store inside storageDir.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}
	return &Service{dir: storageDir}, nil
}

func (s *Service) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Get returns the user's settings merged over the all-"none" defaults,
// so every known action always has both click bindings present. A user
// with nothing stored gets pure defaults.
func (s *Service) Get(userID string) (models.MediaSettings, error) {
	userID = strings.TrimSpace(userID)
	if err := checkUserID(userID); err != nil {
		return models.MediaSettings{}, err
	}

	s.mu.Lock()
	stored, err := s.loadLocked(userID)
	s.mu.Unlock()
	if err != nil {
		log.Printf("[settings] read failed for %s, using defaults: %v", userID, err)
		stored = models.MediaSettings{}
	}

	merged := models.DefaultActionMappings()
	for id, binding := range stored.ActionMappings {
		if models.IsKnownAction(id) {
			merged[id] = binding
		}
	}
	stored.UserID = userID
	stored.ActionMappings = merged
	return stored, nil
}

// Update validates the partial mapping against the closed action set,
// merges it at per-action granularity (an action's whole single/double
// pair is replaced, never merged within), persists, and returns the
// result. Validation happens before any mutation.
func (s *Service) Update(userID string, partial map[models.ActionID]models.ActionBinding) (models.MediaSettings, error) {
	userID = strings.TrimSpace(userID)
	if err := checkUserID(userID); err != nil {
		return models.MediaSettings{}, err
	}
	for id := range partial {
		if !models.IsKnownAction(id) {
			return models.MediaSettings{}, fmt.Errorf("%w: %s", ErrUnknownAction, id)
		}
	}

	current, err := s.Get(userID)
	if err != nil {
		return models.MediaSettings{}, err
	}
	for id, binding := range partial {
		current.ActionMappings[id] = binding
	}
	current.UpdatedAt = time.Now().UnixMilli()

	s.mu.Lock()
	err = s.saveLocked(current)
	s.mu.Unlock()
	if err != nil {
		return models.MediaSettings{}, err
	}

	log.Printf("[settings] updated %d action binding(s) for %s", len(partial), userID)
	return current, nil
}

func (s *Service) loadLocked(userID string) (models.MediaSettings, error) {
	data, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return models.MediaSettings{}, nil
	}
	if err != nil {
		return models.MediaSettings{}, fmt.Errorf("read settings: %w", err)
	}

	var stored models.MediaSettings
	if err := json.Unmarshal(data, &stored); err != nil {
		return models.MediaSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return stored, nil
}

// saveLocked writes via a temp file and rename so a crash mid-write
// never corrupts the stored settings.
func (s *Service) saveLocked(settings models.MediaSettings) error {
	tmp := s.path(settings.UserID) + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync settings: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path(settings.UserID)); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
