// Package library lists and serves the audio source directory: wav
// files with companion srt captions, their filenames carrying the
// item's metadata.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mozillazg/go-unidecode"
	"github.com/spf13/afero"

	"glasslink/models"
)

var (
	ErrNotFound      = errors.New("media item not found")
	ErrNoSourceDir   = errors.New("audio source directory not configured")
	ErrNoCaptionFile = errors.New("caption file not found")
)

var (
	dateRe    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	levelRe   = regexp.MustCompile(`\[([^\]]+)\]`)
	slugStrip = regexp.MustCompile(`[^a-z0-9]+`)
)

// Listing is the library's facet view: items plus the distinct months
// and speakers available for filtering.
type Listing struct {
	Files    []models.AudioFile `json:"files"`
	Months   []string           `json:"months"`
	Speakers []string           `json:"speakers"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Month   string
	Speaker string
}

// Service reads the source directory through an afero filesystem so
// tests can run against an in-memory one.
type Service struct {
	fs  afero.Fs
	dir string

	mu    sync.RWMutex
	index map[string]string // slug id -> base name (without extension)
}

// NewService creates a library over dir. An empty dir is allowed; every
// operation then reports the library as empty or unconfigured.
func NewService(fs afero.Fs, dir string) *Service {
	return &Service{fs: fs, dir: dir, index: make(map[string]string)}
}

// Configured reports whether a source directory was set and exists.
func (s *Service) Configured() bool {
	if s.dir == "" {
		return false
	}
	ok, err := afero.DirExists(s.fs, s.dir)
	return err == nil && ok
}

// List scans the directory, rebuilds the id index, and returns the
// filtered listing sorted newest-first.
func (s *Service) List(filter Filter) (Listing, error) {
	if !s.Configured() {
		return Listing{Files: []models.AudioFile{}, Months: []string{}, Speakers: []string{}}, nil
	}

	names, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return Listing{}, fmt.Errorf("read source dir: %w", err)
	}

	index := make(map[string]string)
	var all []models.AudioFile
	monthSet := make(map[string]struct{})
	speakerSet := make(map[string]struct{})

	for _, fi := range names {
		if fi.IsDir() || !strings.HasSuffix(strings.ToLower(fi.Name()), ".wav") {
			continue
		}
		base := strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name()))

		// only items with a companion caption file are playable
		if ok, _ := afero.Exists(s.fs, filepath.Join(s.dir, base+".srt")); !ok {
			continue
		}

		item, ok := parseName(base)
		if !ok {
			continue
		}
		item.ID = Slug(base)
		item.Name = fi.Name()
		index[item.ID] = base

		monthSet[item.Month] = struct{}{}
		speakerSet[item.Speaker] = struct{}{}
		all = append(all, item)
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	var files []models.AudioFile
	for _, f := range all {
		if filter.Month != "" && f.Month != filter.Month {
			continue
		}
		if filter.Speaker != "" && f.Speaker != filter.Speaker {
			continue
		}
		files = append(files, f)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Date != files[j].Date {
			return files[i].Date > files[j].Date
		}
		return files[i].Part < files[j].Part
	})

	months := keys(monthSet)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	speakers := keys(speakerSet)
	sort.Strings(speakers)

	if files == nil {
		files = []models.AudioFile{}
	}
	return Listing{Files: files, Months: months, Speakers: speakers}, nil
}

// Open returns the audio file for an item id, ready for range
// streaming, along with its size, modtime and content type.
func (s *Service) Open(id string) (afero.File, os.FileInfo, string, error) {
	base, err := s.resolve(id)
	if err != nil {
		return nil, nil, "", err
	}

	path := filepath.Join(s.dir, base+".wav")
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, "", fmt.Errorf("stat %s: %w", path, err)
	}

	contentType := "audio/wav"
	if fi.Size() > 0 {
		head := make([]byte, 3072)
		if n, _ := file.Read(head); n > 0 {
			contentType = mimetype.Detect(head[:n]).String()
		}
		if _, err := file.Seek(0, 0); err != nil {
			file.Close()
			return nil, nil, "", fmt.Errorf("rewind %s: %w", path, err)
		}
	}
	return file, fi, contentType, nil
}

// Captions returns the raw srt content for an item id.
func (s *Service) Captions(id string) (string, error) {
	base, err := s.resolve(id)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, base+".srt"))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoCaptionFile, id)
	}
	return string(data), nil
}

// resolve maps a slug id to its base name, rescanning once on a miss so
// items added since the last List are still reachable.
func (s *Service) resolve(id string) (string, error) {
	if !s.Configured() {
		return "", ErrNoSourceDir
	}

	s.mu.RLock()
	base, ok := s.index[id]
	s.mu.RUnlock()
	if ok {
		return base, nil
	}

	if _, err := s.List(Filter{}); err != nil {
		return "", err
	}

	s.mu.RLock()
	base, ok = s.index[id]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return base, nil
}

// Slug derives a stable ASCII item id from a base file name.
func Slug(base string) string {
	s := strings.ToLower(unidecode.Unidecode(base))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// parseName extracts item metadata from a base name of the form
// "yyyy-mm-dd[_part][_[level]]_title..._speaker". Names without a
// leading date are not library items.
func parseName(base string) (models.AudioFile, bool) {
	m := dateRe.FindStringSubmatch(base)
	if m == nil {
		return models.AudioFile{}, false
	}
	date := m[1]

	level := ""
	if lm := levelRe.FindStringSubmatch(base); lm != nil {
		level = lm[1]
	}

	rest := strings.Trim(strings.TrimPrefix(base, date), "_")
	rest = levelRe.ReplaceAllString(rest, "")
	parts := splitParts(rest)
	if len(parts) == 0 {
		return models.AudioFile{}, false
	}

	speaker := parts[len(parts)-1]
	parts = parts[:len(parts)-1]

	part := ""
	if len(parts) > 0 && len([]rune(parts[0])) <= 2 {
		part = parts[0]
		parts = parts[1:]
	}

	return models.AudioFile{
		Date:    date,
		Part:    part,
		Level:   level,
		Title:   strings.Join(parts, " "),
		Speaker: speaker,
		Month:   date[:7],
	}, true
}

func splitParts(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, "_") {
		if p = strings.TrimSpace(strings.Trim(p, "-")); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
