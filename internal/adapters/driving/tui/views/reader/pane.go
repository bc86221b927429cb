// Package reader provides the reading pane of the TUI. The pane renders a
// session's merged content tree and is the session's view: it answers
// ViewIndex, Viewport and RenderWaiter queries from the core.
package reader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
)

// Ensure Pane implements the view ports.
var (
	_ driven.ViewIndex    = (*Pane)(nil)
	_ driven.Viewport     = (*Pane)(nil)
	_ driven.RenderWaiter = (*Pane)(nil)
)

// Tree supplies the content the pane renders.
type Tree interface {
	Sections() []domain.Section
}

// Pane is a scrollable rendering of a content tree. All methods are safe
// for concurrent use; navigation runs outside the UI goroutine.
type Pane struct {
	mu        sync.Mutex
	styles    *styles.Styles
	mode      domain.LayoutMode
	tree      Tree
	vp        viewport.Model
	layout    Layout
	index     map[string]int
	laidOut   bool
	listeners map[int]func()
	nextID    int
	send      func(tea.Msg)
}

// NewPane creates an empty pane.
func NewPane(s *styles.Styles, mode domain.LayoutMode) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if !mode.IsValid() {
		mode = domain.LayoutSegmented
	}
	return &Pane{
		styles:    s,
		mode:      mode,
		vp:        viewport.New(0, 0),
		index:     make(map[string]int),
		listeners: make(map[int]func()),
	}
}

// Bind sets the tree the pane renders.
func (p *Pane) Bind(tree Tree) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree = tree
}

// SetSender lets WaitForRender wake the UI, typically tea.Program.Send.
func (p *Pane) SetSender(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

// SetDimensions resizes the pane and re-lays out its content.
func (p *Pane) SetDimensions(width, height int) {
	p.mu.Lock()
	p.vp.Width = width
	p.vp.Height = height
	p.relayoutLocked()
	p.mu.Unlock()
	p.notify()
}

// Ready reports whether the pane has a size and has been laid out.
func (p *Pane) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readyLocked()
}

func (p *Pane) readyLocked() bool {
	return p.laidOut && p.vp.Height > 0 && p.vp.Width > 0
}

// Relayout re-renders the tree, keeping the top visible element in place
// so prepended pages do not move the text under the reader.
func (p *Pane) Relayout() {
	p.mu.Lock()
	p.relayoutLocked()
	p.mu.Unlock()
	p.notify()
}

func (p *Pane) relayoutLocked() {
	if p.tree == nil || p.vp.Width <= 0 {
		return
	}
	anchorID, delta := p.topElementLocked()

	p.layout = Render(p.tree.Sections(), p.vp.Width, p.mode, p.styles)
	p.index = make(map[string]int, len(p.layout.Elements))
	for i, el := range p.layout.Elements {
		if _, dup := p.index[el.ID]; !dup {
			p.index[el.ID] = i
		}
	}
	p.vp.SetContent(strings.Join(p.layout.Lines, "\n"))
	p.laidOut = true

	if i, ok := p.index[anchorID]; ok && anchorID != "" {
		p.vp.SetYOffset(int(p.layout.Elements[i].Top) + delta)
	}
}

// topElementLocked returns the first element reaching the top of the
// viewport and how far into it the viewport starts.
func (p *Pane) topElementLocked() (string, int) {
	y := float64(p.vp.YOffset)
	for _, el := range p.layout.Elements {
		if el.Bottom > y {
			return el.ID, p.vp.YOffset - int(el.Top)
		}
	}
	return "", 0
}

// Update handles scroll keys and mouse wheel events.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	p.mu.Lock()
	before := p.vp.YOffset
	var cmd tea.Cmd
	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "g" || km.String() == "home") {
		p.vp.GotoTop()
	} else if ok && (km.String() == "G" || km.String() == "end") {
		p.vp.GotoBottom()
	} else {
		p.vp, cmd = p.vp.Update(msg)
	}
	moved := p.vp.YOffset != before
	p.mu.Unlock()

	if moved {
		p.notify()
	}
	return p, cmd
}

// View renders the visible lines.
func (p *Pane) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.laidOut || len(p.layout.Lines) == 0 {
		return p.styles.Muted.Render("(No content)")
	}
	return p.vp.View()
}

// AtTop reports whether the first line is visible.
func (p *Pane) AtTop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vp.AtTop()
}

// AtBottom reports whether the last line is visible.
func (p *Pane) AtBottom() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.laidOut && p.vp.AtBottom()
}

// ScrollPercent returns the scroll position within the loaded content.
func (p *Pane) ScrollPercent() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vp.ScrollPercent()
}

// Offset returns the first visible line.
func (p *Pane) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vp.YOffset
}

// Lines returns a copy of the laid-out lines.
func (p *Pane) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.layout.Lines...)
}

// Has reports whether an element tagged with id is laid out.
func (p *Pane) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.index[id]
	return ok
}

// ScrollTo scrolls the element tagged with id into view. Terminals have no
// smooth scrolling, so the behaviour option is ignored.
func (p *Pane) ScrollTo(id string, opts domain.ScrollOptions) error {
	p.mu.Lock()
	i, ok := p.index[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("scroll to %q: %w", id, domain.ErrNotFound)
	}
	el := p.layout.Elements[i]
	y := int(el.Top)
	if opts.Align == domain.AlignCenter {
		y -= (p.vp.Height - int(el.Height())) / 2
	}
	p.vp.SetYOffset(max(y, 0))
	p.mu.Unlock()

	p.notify()
	return nil
}

// Bounds returns the visible line range.
func (p *Pane) Bounds() (top, bottom float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.readyLocked() {
		return 0, 0, false
	}
	top = float64(p.vp.YOffset)
	return top, top + float64(p.vp.Height), true
}

// Elements returns the laid-out elements in document order.
func (p *Pane) Elements() []domain.ElementRect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ElementRect(nil), p.layout.Elements...)
}

// OnScroll registers fn to run whenever the visible range changes.
func (p *Pane) OnScroll(fn func()) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// WaitForRender lays out the current tree and wakes the UI to draw it.
func (p *Pane) WaitForRender(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Relayout()

	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send != nil {
		send(messages.TreeChanged{})
	}
	return ctx.Err()
}

// notify runs scroll listeners without holding the lock; listeners call
// back into Bounds and Elements.
func (p *Pane) notify() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
