// Package subtitles parses SRT caption files and caches the resulting
// tracks by media item id.
package subtitles

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"glasslink/models"
)

// cacheSize bounds the track cache. Tracks are immutable once parsed,
// so eviction only costs a re-parse.
const cacheSize = 256

var timecodeRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// Service is the process-lifetime subtitle track cache.
type Service struct {
	cache *lru.Cache[string, []models.SubtitleEntry]
}

func NewService() (*Service, error) {
	cache, err := lru.New[string, []models.SubtitleEntry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{cache: cache}, nil
}

// Get returns the cached track for a media id, if present.
func (s *Service) Get(mediaID string) ([]models.SubtitleEntry, bool) {
	return s.cache.Get(mediaID)
}

// Put parses raw SRT content, caches the track under mediaID, and
// returns it.
func (s *Service) Put(mediaID, srtContent string) []models.SubtitleEntry {
	entries := Parse(srtContent)
	s.cache.Add(mediaID, entries)
	return entries
}

// EntryAt returns the cached entry at index for a media id.
func (s *Service) EntryAt(mediaID string, index int) (models.SubtitleEntry, bool) {
	entries, ok := s.cache.Get(mediaID)
	if !ok || index < 0 || index >= len(entries) {
		return models.SubtitleEntry{}, false
	}
	return entries[index], true
}

// EntryForTime returns the entry whose time span contains t, for
// display sync lookups.
func (s *Service) EntryForTime(mediaID string, t float64) (models.SubtitleEntry, bool) {
	entries, ok := s.cache.Get(mediaID)
	if !ok {
		return models.SubtitleEntry{}, false
	}
	for _, e := range entries {
		if t >= e.StartTime && t < e.EndTime {
			return e, true
		}
	}
	return models.SubtitleEntry{}, false
}

// Count returns the cached track's entry count, or 0 when uncached.
func (s *Service) Count(mediaID string) int {
	entries, ok := s.cache.Get(mediaID)
	if !ok {
		return 0
	}
	return len(entries)
}

// Parse scans SRT content into entries sorted by start time. Malformed
// blocks are skipped rather than failing the whole track.
func Parse(content string) []models.SubtitleEntry {
	var entries []models.SubtitleEntry

	blocks := regexp.MustCompile(`\n\s*\n`).Split(strings.TrimSpace(content), -1)
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		m := timecodeRe.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[2:], " "))
		if text == "" {
			continue
		}

		entries = append(entries, models.SubtitleEntry{
			Index:     index,
			StartTime: timecodeSeconds(m[1], m[2], m[3], m[4]),
			EndTime:   timecodeSeconds(m[5], m[6], m[7], m[8]),
			Text:      text,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries
}

func timecodeSeconds(h, m, sec, ms string) float64 {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(sec)
	msi, _ := strconv.Atoi(ms)
	return float64(hi)*3600 + float64(mi)*60 + float64(si) + float64(msi)/1000
}
