package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/core/domain"
)

// minWidth keeps wrapping sane in tiny terminals.
const minWidth = 20

// Layout is a rendered content tree: one string per terminal line plus the
// line range of every section heading and segment, in document order.
type Layout struct {
	Lines    []string
	Elements []domain.ElementRect
}

// Render lays out sections for a pane width columns wide.
func Render(sections []domain.Section, width int, mode domain.LayoutMode, s *styles.Styles) Layout {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if width < minWidth {
		width = minWidth
	}
	r := renderer{width: width, mode: mode, styles: s}
	r.sections(sections, 0)
	return r.out
}

type renderer struct {
	width  int
	mode   domain.LayoutMode
	styles *styles.Styles
	out    Layout
}

func (r *renderer) sections(sections []domain.Section, depth int) {
	for i := range sections {
		sec := &sections[i]
		title := sec.Title
		if title == "" {
			title = sec.ID
		}
		if len(r.out.Lines) > 0 {
			r.out.Lines = append(r.out.Lines, "")
		}
		r.element(sec.ID, domain.ElementSection, func() {
			heading := strings.Repeat("#", min(depth+1, 6)) + " " + title
			r.wrap(heading, r.styles.Heading)
		})

		for _, seg := range sec.Segments {
			r.segment(seg)
		}
		r.sections(sec.Sections, depth+1)
	}
}

func (r *renderer) segment(seg domain.Segment) {
	r.element(seg.ID, domain.ElementSegment, func() {
		text := seg.Content
		if r.mode != domain.LayoutProse && seg.Ordinal > 0 {
			text = r.styles.Ordinal.Render(fmt.Sprintf("[%d]", seg.Ordinal)) + " " + text
		}
		r.wrap(text, r.styles.Normal)
		if seg.Translation != nil && seg.Translation.Content != "" {
			r.wrap(seg.Translation.Content, r.styles.Translation)
		}
	})
	if r.mode != domain.LayoutProse {
		r.out.Lines = append(r.out.Lines, "")
	}
}

// element records the lines written by draw as one element.
func (r *renderer) element(id string, kind domain.ElementKind, draw func()) {
	top := len(r.out.Lines)
	draw()
	r.out.Elements = append(r.out.Elements, domain.ElementRect{
		ID:     id,
		Kind:   kind,
		Top:    float64(top),
		Bottom: float64(len(r.out.Lines)),
	})
}

func (r *renderer) wrap(text string, style lipgloss.Style) {
	rendered := style.Width(r.width).Render(text)
	for _, line := range strings.Split(rendered, "\n") {
		r.out.Lines = append(r.out.Lines, strings.TrimRight(line, " "))
	}
}
