package text

import (
	"strings"
	"testing"
)

func TestFormatMarkdown_Headings(t *testing.T) {
	out := FormatMarkdown("# Title\n\ncontent")

	if !strings.Contains(out, "Title") {
		t.Fatalf("heading text lost: %q", out)
	}
	if !strings.Contains(out, "═══") {
		t.Errorf("h1 rule missing: %q", out)
	}

	out = FormatMarkdown("## Section")
	if !strings.Contains(out, "───") {
		t.Errorf("h2 rule missing: %q", out)
	}
	out = FormatMarkdown("### Sub")
	if !strings.Contains(out, "━━━") {
		t.Errorf("h3 rule missing: %q", out)
	}
}

func TestFormatMarkdown_StripsEmphasis(t *testing.T) {
	out := FormatMarkdown("**bold** and *italic* and ~~gone~~ and __also__ and _this_")

	for _, marker := range []string{"*", "~", "_"} {
		if strings.Contains(out, marker) {
			t.Errorf("marker %q survived: %q", marker, out)
		}
	}
	for _, word := range []string{"bold", "italic", "gone", "also", "this"} {
		if !strings.Contains(out, word) {
			t.Errorf("content %q lost: %q", word, out)
		}
	}
}

func TestFormatMarkdown_LinksAndImages(t *testing.T) {
	out := FormatMarkdown("see [docs](https://example.com) and ![diagram](pic.png)")

	if !strings.Contains(out, "docs (https://example.com)") {
		t.Errorf("link not flattened: %q", out)
	}
	if !strings.Contains(out, "[image: diagram]") {
		t.Errorf("image not flattened: %q", out)
	}
}

func TestFormatMarkdown_Lists(t *testing.T) {
	out := FormatMarkdown("- one\n- two\n1. first\n2. second")

	if !strings.Contains(out, "• one") || !strings.Contains(out, "• two") {
		t.Errorf("bullets not converted: %q", out)
	}
	if strings.Contains(out, "1.") || strings.Contains(out, "2.") {
		t.Errorf("numbering survived: %q", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("numbered content lost: %q", out)
	}
}

func TestFormatMarkdown_Blockquote(t *testing.T) {
	out := FormatMarkdown("> quoted words")
	if !strings.Contains(out, `"quoted words"`) {
		t.Errorf("quote not converted: %q", out)
	}
}

func TestFormatMarkdown_PreservesCode(t *testing.T) {
	src := "before\n```\n**not bold** [not](a-link)\n```\nafter `x *= 2` done"
	out := FormatMarkdown(src)

	if !strings.Contains(out, "**not bold** [not](a-link)") {
		t.Errorf("fenced code was rewritten: %q", out)
	}
	if !strings.Contains(out, "`x *= 2`") {
		t.Errorf("inline code was rewritten: %q", out)
	}
}

func TestFormatMarkdown_Table(t *testing.T) {
	src := "| Name | Age |\n|------|-----|\n| Ann | 30 |"
	out := FormatMarkdown(src)

	if !strings.Contains(out, "Name | Age") {
		t.Errorf("header row lost: %q", out)
	}
	if !strings.Contains(out, "Ann | 30") {
		t.Errorf("data row lost: %q", out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("separator row survived: %q", out)
	}
}

func TestFormatMarkdown_CapsBlankRuns(t *testing.T) {
	out := FormatMarkdown("a\n\n\n\n\n\n\nb")
	if strings.Contains(out, "\n\n\n\n") {
		t.Errorf("blank run not capped: %q", out)
	}
}

func TestFormatMarkdown_RemovesRules(t *testing.T) {
	out := FormatMarkdown("above\n\n---\n\nbelow")
	if strings.Contains(out, "---") {
		t.Errorf("horizontal rule survived: %q", out)
	}
}
