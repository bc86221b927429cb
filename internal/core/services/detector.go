package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/logger"
)

// DetectorOption configures an ActiveSectionDetector.
type DetectorOption func(*ActiveSectionDetector)

// WithThrottle limits scroll-driven recomputes to one per interval. A
// dropped event schedules a trailing recompute one interval later, so the
// last position of a scroll burst is always picked up. A zero or negative
// interval disables throttling.
func WithThrottle(interval time.Duration) DetectorOption {
	return func(d *ActiveSectionDetector) {
		if interval <= 0 {
			d.limiter, d.interval = nil, 0
			return
		}
		d.limiter = rate.NewLimiter(rate.Every(interval), 1)
		d.interval = interval
	}
}

// ActiveSectionDetector tracks which annotated element of the reading
// viewport is most visible. The result is the active cursor.
type ActiveSectionDetector struct {
	viewport driven.Viewport
	limiter  *rate.Limiter
	interval time.Duration

	mu       sync.Mutex
	onChange func(id string)
	active   string
	detach   func()
	dirty    bool
	trailing *time.Timer
}

// NewActiveSectionDetector creates a detector over viewport. onChange runs
// whenever the active cursor moves to a different id; it may be nil.
func NewActiveSectionDetector(viewport driven.Viewport, onChange func(id string), opts ...DetectorOption) *ActiveSectionDetector {
	d := &ActiveSectionDetector{
		viewport: viewport,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnChange replaces the change callback.
func (d *ActiveSectionDetector) OnChange(fn func(id string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

// Mount attaches one scroll listener and recomputes once. Mounting twice
// without Unmount is a no-op, as is mounting before the viewport exists.
func (d *ActiveSectionDetector) Mount() {
	if d.viewport == nil {
		return
	}
	if _, _, ok := d.viewport.Bounds(); !ok {
		logger.Debug("detector: viewport not ready, skipping mount")
		return
	}

	d.mu.Lock()
	if d.detach != nil {
		d.mu.Unlock()
		return
	}
	d.detach = d.viewport.OnScroll(d.handleScroll)
	d.mu.Unlock()

	d.Recompute()
}

// Unmount detaches the scroll listener.
func (d *ActiveSectionDetector) Unmount() {
	d.mu.Lock()
	detach := d.detach
	d.detach = nil
	d.dirty = false
	d.stopTrailingLocked()
	d.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// Mounted reports whether a scroll listener is attached.
func (d *ActiveSectionDetector) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detach != nil
}

func (d *ActiveSectionDetector) handleScroll() {
	if d.limiter != nil && !d.limiter.Allow() {
		d.mu.Lock()
		d.dirty = true
		if d.trailing == nil && d.detach != nil {
			d.trailing = time.AfterFunc(d.interval, d.flushTrailing)
		}
		d.mu.Unlock()
		return
	}
	d.Recompute()
}

func (d *ActiveSectionDetector) flushTrailing() {
	d.mu.Lock()
	d.trailing = nil
	mounted := d.detach != nil
	d.mu.Unlock()

	if mounted {
		d.Flush()
	}
}

func (d *ActiveSectionDetector) stopTrailingLocked() {
	if d.trailing != nil {
		d.trailing.Stop()
		d.trailing = nil
	}
}

// Flush performs the recompute a throttled scroll event skipped, if any.
func (d *ActiveSectionDetector) Flush() {
	d.mu.Lock()
	dirty := d.dirty
	d.mu.Unlock()

	if dirty {
		d.Recompute()
	}
}

// Recompute selects the most visible element and returns the active cursor
// and whether it changed. When nothing is visible the cursor is kept.
func (d *ActiveSectionDetector) Recompute() (string, bool) {
	if d.viewport == nil {
		return d.Active(), false
	}
	top, bottom, ok := d.viewport.Bounds()
	if !ok {
		return d.Active(), false
	}
	id, found := SelectMostVisible(top, bottom, d.viewport.Elements())

	d.mu.Lock()
	d.dirty = false
	if !found || id == d.active {
		active := d.active
		d.mu.Unlock()
		return active, false
	}
	d.active = id
	fn := d.onChange
	d.mu.Unlock()

	logger.Debug("detector: active element is now %q", id)
	if fn != nil {
		fn(id)
	}
	return id, true
}

// Interval returns the throttle interval, or 0 when unthrottled.
func (d *ActiveSectionDetector) Interval() time.Duration {
	return d.interval
}

// Active returns the current active cursor ("" before the first selection).
func (d *ActiveSectionDetector) Active() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Reset clears the active cursor without firing the change callback.
func (d *ActiveSectionDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = ""
	d.dirty = false
	d.stopTrailingLocked()
}

// SelectMostVisible returns the id of the element with the largest visible
// fraction of its own height inside [top, bottom]. Elements are assumed to
// be in document order, so the first of equally visible elements wins.
// Returns false if no element is visible at all.
func SelectMostVisible(top, bottom float64, elements []domain.ElementRect) (string, bool) {
	var (
		best  string
		ratio float64
	)
	for _, el := range elements {
		if r := el.VisibleRatio(top, bottom); r > ratio {
			best, ratio = el.ID, r
		}
	}
	return best, ratio > 0
}
