package subtitles

import (
	"testing"
)

const sampleSRT = `1
00:00:01,500 --> 00:00:04,000
Hello there.

2
00:00:05,000 --> 00:00:08,250
Second line
continues here.

3
00:01:30,000 --> 00:01:33,000
Third entry.
`

func TestParse_Basic(t *testing.T) {
	entries := Parse(sampleSRT)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].StartTime != 1.5 || entries[0].EndTime != 4.0 {
		t.Errorf("entry 0 times = %v/%v, want 1.5/4", entries[0].StartTime, entries[0].EndTime)
	}
	if entries[0].Text != "Hello there." {
		t.Errorf("entry 0 text = %q", entries[0].Text)
	}
	// multi-line text joined with a space
	if entries[1].Text != "Second line continues here." {
		t.Errorf("entry 1 text = %q", entries[1].Text)
	}
	if entries[2].StartTime != 90.0 {
		t.Errorf("entry 2 start = %v, want 90", entries[2].StartTime)
	}
}

func TestParse_SkipsMalformedBlocks(t *testing.T) {
	src := `1
00:00:01,000 --> 00:00:02,000
good

not-a-number
00:00:03,000 --> 00:00:04,000
skipped

2
badly formatted timecode
skipped too

3
00:00:05,000 --> 00:00:06,000
also good
`
	entries := Parse(src)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want the 2 good ones", len(entries))
	}
	if entries[0].Text != "good" || entries[1].Text != "also good" {
		t.Errorf("entries = %q, %q", entries[0].Text, entries[1].Text)
	}
}

func TestParse_SortsByStartTime(t *testing.T) {
	src := `2
00:00:10,000 --> 00:00:12,000
later

1
00:00:01,000 --> 00:00:03,000
earlier
`
	entries := Parse(src)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Text != "earlier" || entries[1].Text != "later" {
		t.Errorf("order = %q, %q; want earlier, later", entries[0].Text, entries[1].Text)
	}
}

func TestParse_Empty(t *testing.T) {
	if entries := Parse(""); len(entries) != 0 {
		t.Errorf("got %d entries from empty input", len(entries))
	}
}

func TestService_CacheRoundTrip(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, ok := svc.Get("talk-1"); ok {
		t.Fatal("uncached id reported as cached")
	}
	if got := svc.Count("talk-1"); got != 0 {
		t.Errorf("uncached Count = %d, want 0", got)
	}

	put := svc.Put("talk-1", sampleSRT)
	if len(put) != 3 {
		t.Fatalf("Put returned %d entries, want 3", len(put))
	}

	cached, ok := svc.Get("talk-1")
	if !ok || len(cached) != 3 {
		t.Fatalf("Get after Put = %d entries, %t", len(cached), ok)
	}
	if got := svc.Count("talk-1"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
}

func TestService_EntryAt(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.Put("talk-1", sampleSRT)

	entry, ok := svc.EntryAt("talk-1", 1)
	if !ok || entry.Text != "Second line continues here." {
		t.Errorf("EntryAt(1) = %+v, %t", entry, ok)
	}
	if _, ok := svc.EntryAt("talk-1", -1); ok {
		t.Error("EntryAt(-1) reported ok")
	}
	if _, ok := svc.EntryAt("talk-1", 3); ok {
		t.Error("EntryAt past end reported ok")
	}
	if _, ok := svc.EntryAt("other", 0); ok {
		t.Error("EntryAt on uncached id reported ok")
	}
}

func TestService_EntryForTime(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.Put("talk-1", sampleSRT)

	entry, ok := svc.EntryForTime("talk-1", 6.0)
	if !ok || entry.Text != "Second line continues here." {
		t.Errorf("EntryForTime(6) = %+v, %t", entry, ok)
	}
	// the gap between entries matches nothing
	if _, ok := svc.EntryForTime("talk-1", 4.5); ok {
		t.Error("EntryForTime in a gap reported ok")
	}
	// end time is exclusive
	if _, ok := svc.EntryForTime("talk-1", 4.0); ok {
		t.Error("EntryForTime at an end boundary reported ok")
	}
}
