package text

import "strings"

// CleanDisplay strips runes the glasses renderer cannot draw, keeping
// printable ASCII, kana, CJK ideographs and newlines.
func CleanDisplay(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n',
			r >= 0x20 && r <= 0x7E, // printable ASCII
			r >= 0x3040 && r <= 0x309F, // hiragana
			r >= 0x30A0 && r <= 0x30FF, // katakana
			r >= 0x4E00 && r <= 0x9FAF: // CJK ideographs
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
