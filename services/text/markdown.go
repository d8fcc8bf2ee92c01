package text

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldAltRe    = regexp.MustCompile(`__(.+?)__`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	italicAltRe  = regexp.MustCompile(`_(.+?)_`)
	strikeRe     = regexp.MustCompile(`~~(.+?)~~`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bulletRe     = regexp.MustCompile(`(?m)^(\s*)[-*]\s+(.+)$`)
	numberedRe   = regexp.MustCompile(`(?m)^(\s*)\d+\.\s+(.+)$`)
	ruleRe       = regexp.MustCompile(`(?m)^[-*]{3,}$`)
	quoteRe      = regexp.MustCompile(`(?m)^>\s+(.+)$`)
	tableRowRe   = regexp.MustCompile(`(?m)^\|(.+)\|$`)
	tableSepRe   = regexp.MustCompile(`^:?-+:?$`)
	blankRunRe   = regexp.MustCompile(`\n{4,}`)
)

// FormatMarkdown flattens markdown to plain text suitable for the
// glasses text wall. Code spans are preserved verbatim; everything else
// loses its syntax but keeps its content.
func FormatMarkdown(src string) string {
	var codeBlocks, inlineCodes []string

	out := codeBlockRe.ReplaceAllStringFunc(src, func(m string) string {
		codeBlocks = append(codeBlocks, m)
		return fmt.Sprintf("\x00CB%d\x00", len(codeBlocks)-1)
	})
	out = inlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		inlineCodes = append(inlineCodes, m)
		return fmt.Sprintf("\x00IC%d\x00", len(inlineCodes)-1)
	})

	out = headingRe.ReplaceAllStringFunc(out, func(m string) string {
		parts := headingRe.FindStringSubmatch(m)
		var rule string
		switch len(parts[1]) {
		case 1:
			rule = strings.Repeat("═", 23)
		case 2:
			rule = strings.Repeat("─", 23)
		default:
			rule = strings.Repeat("━", 23)
		}
		title := strings.TrimSpace(parts[2])
		return "\n" + rule + "\n" + title + "\n" + rule + "\n"
	})

	out = boldRe.ReplaceAllString(out, "$1")
	out = boldAltRe.ReplaceAllString(out, "$1")
	out = italicRe.ReplaceAllString(out, "$1")
	out = italicAltRe.ReplaceAllString(out, "$1")
	out = strikeRe.ReplaceAllString(out, "$1")

	// images before links: the image pattern is a superset
	out = imageRe.ReplaceAllString(out, "[image: $1]")
	out = linkRe.ReplaceAllString(out, "$1 ($2)")

	out = bulletRe.ReplaceAllString(out, "$1• $2")
	out = numberedRe.ReplaceAllString(out, "$1$2")
	out = ruleRe.ReplaceAllString(out, "")
	out = quoteRe.ReplaceAllString(out, `"$1"`)

	out = tableRowRe.ReplaceAllStringFunc(out, func(m string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(m, "|"), "|")
		var keep []string
		separator := true
		for _, cell := range strings.Split(inner, "|") {
			c := strings.TrimSpace(cell)
			if !tableSepRe.MatchString(c) {
				separator = false
			}
			if c != "" {
				keep = append(keep, c)
			}
		}
		if separator {
			return ""
		}
		return strings.Join(keep, " | ")
	})

	for i, code := range codeBlocks {
		out = strings.Replace(out, fmt.Sprintf("\x00CB%d\x00", i), code, 1)
	}
	for i, code := range inlineCodes {
		out = strings.Replace(out, fmt.Sprintf("\x00IC%d\x00", i), code, 1)
	}

	out = blankRunRe.ReplaceAllString(out, "\n\n\n")
	return strings.TrimSpace(out)
}
