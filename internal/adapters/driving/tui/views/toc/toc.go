// Package toc provides the table of contents pane of the TUI.
package toc

import (
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/core/domain"
)

// node is one visible row of the tree.
type node struct {
	id          string
	title       string
	depth       int
	hasChildren bool
}

// View is a collapsible TOC tree. Expansion state is owned by the
// session; the view renders the snapshot it was last given.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	toggle func(id string) bool

	sections []domain.Section
	expanded map[string]bool
	active   string
	flat     []node
	cursor   int
	offset   int
	width    int
	height   int
}

// NewView creates a TOC view. toggle flips a node's expansion and returns
// the new state.
func NewView(s *styles.Styles, km *keymap.KeyMap, toggle func(id string) bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, toggle: toggle, expanded: map[string]bool{}}
}

// SetTOC replaces the tree.
func (v *View) SetTOC(toc *domain.TableOfContents) {
	v.sections = toc.Sections()
	v.rebuild()
}

// SetExpanded replaces the expansion snapshot.
func (v *View) SetExpanded(expanded map[string]bool) {
	if expanded == nil {
		expanded = map[string]bool{}
	}
	v.expanded = expanded
	v.rebuild()
}

// SetActive marks the node holding the visible element.
func (v *View) SetActive(id string) {
	v.active = id
}

// Active returns the visible element id last set with SetActive.
func (v *View) Active() string {
	return v.active
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.clampOffset()
}

// Update handles key presses while the pane is focused.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(v.flat) == 0 {
		return v, nil
	}

	k := km.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.cursor < len(v.flat)-1 {
			v.cursor++
		}
	case keymap.Matches(k, v.keymap.Top):
		v.cursor = 0
	case keymap.Matches(k, v.keymap.Bottom):
		v.cursor = len(v.flat) - 1
	case keymap.Matches(k, v.keymap.Toggle):
		v.flip()
	case k == "left" || k == "h":
		if v.expanded[v.flat[v.cursor].id] {
			v.flip()
		} else {
			v.selectParent()
		}
	case keymap.Matches(k, v.keymap.Select):
		id := v.SelectedID()
		return v, func() tea.Msg { return messages.NavigateRequested{ID: id} }
	}
	v.clampOffset()
	return v, nil
}

// flip toggles the selected node through the session.
func (v *View) flip() {
	n := v.flat[v.cursor]
	if !n.hasChildren || v.toggle == nil {
		return
	}
	next := maps.Clone(v.expanded)
	next[n.id] = v.toggle(n.id)
	v.expanded = next
	v.rebuild()
	v.SelectByID(n.id)
}

func (v *View) selectParent() {
	depth := v.flat[v.cursor].depth
	for i := v.cursor - 1; i >= 0; i-- {
		if v.flat[i].depth < depth {
			v.cursor = i
			return
		}
	}
}

// SelectedID returns the id under the cursor, or "".
func (v *View) SelectedID() string {
	if v.cursor < 0 || v.cursor >= len(v.flat) {
		return ""
	}
	return v.flat[v.cursor].id
}

// SelectByID moves the cursor to id if it is visible.
func (v *View) SelectByID(id string) bool {
	for i, n := range v.flat {
		if n.id == id {
			v.cursor = i
			v.clampOffset()
			return true
		}
	}
	return false
}

// Visible returns the ids of the visible rows in order.
func (v *View) Visible() []string {
	ids := make([]string, len(v.flat))
	for i, n := range v.flat {
		ids[i] = n.id
	}
	return ids
}

// activeRow is the deepest visible row on the path to the active element.
func (v *View) activeRow() string {
	if v.active == "" {
		return ""
	}
	path, ok := domain.AncestorPath(v.sections, v.active)
	if !ok {
		return ""
	}
	path = append(path, v.active)
	visible := make(map[string]bool, len(v.flat))
	for _, n := range v.flat {
		visible[n.id] = true
	}
	for i := len(path) - 1; i >= 0; i-- {
		if visible[path[i]] {
			return path[i]
		}
	}
	return ""
}

// View renders the tree.
func (v *View) View() string {
	if len(v.flat) == 0 {
		return v.styles.Muted.Render("No table of contents")
	}

	active := v.activeRow()
	start, end := v.visibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		n := v.flat[i]
		line := strings.Repeat("  ", n.depth) + v.indicator(n) + " " + v.truncate(n.title, n.depth)
		switch {
		case i == v.cursor:
			line = v.styles.Selected.Render(line)
		case n.id == active:
			line = v.styles.Active.Render(line)
		default:
			line = v.styles.Normal.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v *View) indicator(n node) string {
	if !n.hasChildren {
		return "•"
	}
	if v.expanded[n.id] {
		return "▾"
	}
	return "▸"
}

func (v *View) truncate(title string, depth int) string {
	limit := v.width - 2*depth - 2
	r := []rune(title)
	if limit <= 1 || len(r) <= limit {
		return title
	}
	return string(r[:limit-1]) + "…"
}

func (v *View) visibleRange() (start, end int) {
	if v.height <= 0 {
		return 0, len(v.flat)
	}
	start = v.offset
	end = min(start+v.height, len(v.flat))
	return start, end
}

func (v *View) clampOffset() {
	if v.height <= 0 {
		v.offset = 0
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+v.height {
		v.offset = v.cursor - v.height + 1
	}
	v.offset = max(0, min(v.offset, len(v.flat)-v.height))
}

// rebuild flattens the expanded part of the tree, keeping the cursor on
// the same id when it is still visible.
func (v *View) rebuild() {
	selected := v.SelectedID()
	v.flat = v.flat[:0]
	var walk func([]domain.Section, int)
	walk = func(ss []domain.Section, depth int) {
		for i := range ss {
			title := ss[i].Title
			if title == "" {
				title = ss[i].ID
			}
			v.flat = append(v.flat, node{
				id:          ss[i].ID,
				title:       title,
				depth:       depth,
				hasChildren: len(ss[i].Sections) > 0,
			})
			if v.expanded[ss[i].ID] {
				walk(ss[i].Sections, depth+1)
			}
		}
	}
	walk(v.sections, 0)

	if selected == "" || !v.SelectByID(selected) {
		v.cursor = min(v.cursor, max(len(v.flat)-1, 0))
	}
	v.clampOffset()
}
