// Package text paginates uploaded documents into glasses-sized pages
// and flattens markdown into displayable plain text.
package text

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// DefaultPageBudget is the per-page display budget in cells. Wide (East
// Asian) runes count as two cells, matching what the glasses render.
const DefaultPageBudget = 150

// Pager splits a document into pages once and keeps a cursor. It is not
// safe for concurrent use; the registry serializes access per session.
type Pager struct {
	pages   []string
	current int
	budget  int
}

// NewPager paginates the text with the given per-page budget. A budget
// of zero or less uses DefaultPageBudget.
func NewPager(content string, budget int) *Pager {
	if budget <= 0 {
		budget = DefaultPageBudget
	}
	p := &Pager{budget: budget}
	p.split(content)
	return p
}

// cells measures the display width of s.
func cells(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func (p *Pager) split(content string) {
	p.pages = nil
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		p.pages = []string{""}
		return
	}

	var page strings.Builder
	flush := func() {
		if s := strings.TrimSpace(page.String()); s != "" {
			p.pages = append(p.pages, s)
		}
		page.Reset()
	}

	for _, paragraph := range strings.Split(content, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			if page.Len() > 0 {
				page.WriteByte('\n')
			}
			continue
		}

		if cells(page.String())+cells(paragraph) <= p.budget {
			if page.Len() > 0 {
				page.WriteByte('\n')
			}
			page.WriteString(paragraph)
			continue
		}

		flush()
		remaining := paragraph
		for remaining != "" {
			if cells(remaining) <= p.budget {
				page.WriteString(remaining)
				break
			}
			cut := p.breakIndex(remaining)
			p.pages = append(p.pages, strings.TrimSpace(remaining[:cut]))
			remaining = strings.TrimSpace(remaining[cut:])
		}
	}
	flush()

	if len(p.pages) == 0 {
		p.pages = []string{""}
	}
}

// breakIndex picks the byte offset to cut an over-budget run at: the
// last space inside the budget when it lies past 70% of it, otherwise
// the budget boundary itself.
func (p *Pager) breakIndex(s string) int {
	used := 0
	lastSpace := -1
	spaceCells := 0
	for i, r := range s {
		w := 1
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w = 2
		}
		if used+w > p.budget {
			if lastSpace >= 0 && spaceCells*10 > p.budget*7 {
				return lastSpace
			}
			if i == 0 {
				return len(string(r))
			}
			return i
		}
		used += w
		if r == ' ' {
			lastSpace = i
			spaceCells = used
		}
	}
	return len(s)
}

// Current returns the text of the current page.
func (p *Pager) Current() string {
	if p.current < 0 || p.current >= len(p.pages) {
		return ""
	}
	return p.pages[p.current]
}

// Next advances one page, reporting false at the last page.
func (p *Pager) Next() bool {
	if p.current < len(p.pages)-1 {
		p.current++
		return true
	}
	return false
}

// Prev moves back one page, reporting false at the first page.
func (p *Pager) Prev() bool {
	if p.current > 0 {
		p.current--
		return true
	}
	return false
}

// PageNumber is the 1-based current page number.
func (p *Pager) PageNumber() int { return p.current + 1 }

// TotalPages is the page count; at least 1 even for empty input.
func (p *Pager) TotalPages() int { return len(p.pages) }

// PageInfo renders the "current/total" footer shown under each page.
func (p *Pager) PageInfo() string {
	return fmt.Sprintf("%d/%d", p.PageNumber(), p.TotalPages())
}
