package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lectern/internal/core/domain"
)

// bookForest is a small text used across the service tests:
//
//	c1 [seg1 seg2]
//	  c1-1 [seg3]
//	  c1-2 [seg4 seg5]
//	c2
//	  c2-1 [seg6]
//	c3 [seg7 .. seg12]
func bookForest() []domain.Section {
	return []domain.Section{
		{
			ID: "c1", Title: "Chapter 1",
			Segments: []domain.Segment{{ID: "seg1", Ordinal: 1}, {ID: "seg2", Ordinal: 2}},
			Sections: []domain.Section{
				{ID: "c1-1", Title: "Part 1.1", Segments: []domain.Segment{{ID: "seg3", Ordinal: 1}}},
				{ID: "c1-2", Title: "Part 1.2", Segments: []domain.Segment{{ID: "seg4", Ordinal: 1}, {ID: "seg5", Ordinal: 2}}},
			},
		},
		{
			ID: "c2", Title: "Chapter 2",
			Sections: []domain.Section{
				{ID: "c2-1", Title: "Part 2.1", Segments: []domain.Segment{{ID: "seg6", Ordinal: 1}}},
			},
		},
		{
			ID: "c3", Title: "Chapter 3",
			Segments: []domain.Segment{
				{ID: "seg7", Ordinal: 1}, {ID: "seg8", Ordinal: 2}, {ID: "seg9", Ordinal: 3},
				{ID: "seg10", Ordinal: 4}, {ID: "seg11", Ordinal: 5}, {ID: "seg12", Ordinal: 6},
			},
		},
	}
}

type bookEntry struct {
	path []string
	seg  domain.Segment
}

// bookSource serves windows of a forest the way the text API does:
// a page covers size segments starting (next) or ending (previous) at the
// anchor, inclusive, and reports the anchor's 1-based position.
type bookSource struct {
	mu      sync.Mutex
	entries []bookEntry
	titles  map[string]string
	detail  domain.TextDetail

	requests []domain.PageRequest
	failures int
	failErr  error
	gate     chan struct{}
}

func newBookSource(forest []domain.Section) *bookSource {
	b := &bookSource{
		titles: make(map[string]string),
		detail: domain.TextDetail{ID: "t1", Title: "Test Text", Language: "en", Type: "root"},
	}
	var walk func(path []string, ss []domain.Section)
	walk = func(path []string, ss []domain.Section) {
		for _, s := range ss {
			b.titles[s.ID] = s.Title
			p := append(append([]string(nil), path...), s.ID)
			for _, seg := range s.Segments {
				b.entries = append(b.entries, bookEntry{path: p, seg: seg})
			}
			walk(p, s.Sections)
		}
	}
	walk(nil, forest)
	return b
}

// failNext makes the next n requests fail with err.
func (b *bookSource) failNext(n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = n
	b.failErr = err
}

// hold blocks every request until release is called.
func (b *bookSource) hold() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gate = make(chan struct{})
}

func (b *bookSource) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gate != nil {
		close(b.gate)
		b.gate = nil
	}
}

func (b *bookSource) calls() []domain.PageRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.PageRequest(nil), b.requests...)
}

func (b *bookSource) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.ContentPage, error) {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures > 0 {
		b.failures--
		return nil, b.failErr
	}

	idx := 0
	if req.Anchor != "" {
		idx = -1
		for i, e := range b.entries {
			if e.seg.ID == req.Anchor {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &domain.NotFoundError{Anchor: req.Anchor, Resource: "segment"}
		}
	} else if req.Direction == domain.DirectionPrevious {
		idx = len(b.entries) - 1
	}

	size := req.Size
	if size < 1 {
		size = domain.DefaultPageSize
	}
	start, end := idx, idx+size
	if req.Direction == domain.DirectionPrevious {
		start, end = idx-size+1, idx+1
	}
	start = max(start, 0)
	end = min(end, len(b.entries))

	return &domain.ContentPage{
		Anchor:                 req.Anchor,
		Direction:              req.Direction,
		Sections:               b.build(b.entries[start:end]),
		CurrentSegmentPosition: idx + 1,
		TotalSegments:          len(b.entries),
		TextDetail:             b.detail,
	}, nil
}

// build rebuilds the section nesting for a contiguous run of segments.
func (b *bookSource) build(entries []bookEntry) []domain.Section {
	var out []domain.Section
	for _, e := range entries {
		level := &out
		var target *domain.Section
		for _, id := range e.path {
			n := len(*level)
			if n == 0 || (*level)[n-1].ID != id {
				*level = append(*level, domain.Section{ID: id, Title: b.titles[id]})
				n++
			}
			target = &(*level)[n-1]
			level = &target.Sections
		}
		target.Segments = append(target.Segments, e.seg.Clone())
	}
	return out
}

// recordingView is a ViewIndex over the ids of a tree.
type recordingView struct {
	mu      sync.Mutex
	ids     map[string]bool
	scrolls []string
	opts    []domain.ScrollOptions
	err     error
}

func newRecordingView(ids ...string) *recordingView {
	v := &recordingView{ids: make(map[string]bool)}
	for _, id := range ids {
		v.ids[id] = true
	}
	return v
}

// index replaces the known ids with every section and segment of sections.
func (v *recordingView) index(sections []domain.Section) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = make(map[string]bool)
	var walk func([]domain.Section)
	walk = func(ss []domain.Section) {
		for _, s := range ss {
			v.ids[s.ID] = true
			for _, seg := range s.Segments {
				v.ids[seg.ID] = true
			}
			walk(s.Sections)
		}
	}
	walk(sections)
}

func (v *recordingView) Has(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ids[id]
}

func (v *recordingView) ScrollTo(id string, opts domain.ScrollOptions) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	v.scrolls = append(v.scrolls, id)
	v.opts = append(v.opts, opts)
	return nil
}

func (v *recordingView) scrolled() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.scrolls...)
}

// fakeViewport is a Viewport with fixed geometry and a manual scroll trigger.
type fakeViewport struct {
	mu          sync.Mutex
	top, bottom float64
	ready       bool
	elements    []domain.ElementRect
	listeners   map[int]func()
	nextID      int
}

func newFakeViewport(top, bottom float64, elements ...domain.ElementRect) *fakeViewport {
	return &fakeViewport{top: top, bottom: bottom, ready: true, elements: elements, listeners: make(map[int]func())}
}

func (v *fakeViewport) Bounds() (float64, float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top, v.bottom, v.ready
}

func (v *fakeViewport) Elements() []domain.ElementRect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elements
}

// moveTo changes the visible range while a trailing recompute may be reading it.
func (v *fakeViewport) moveTo(top, bottom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.top, v.bottom = top, bottom
}

func (v *fakeViewport) OnScroll(fn func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

func (v *fakeViewport) scroll() {
	for _, fn := range v.listeners {
		fn()
	}
}

// newMemLocation returns the in-memory shareable-URL location store.
func newMemLocation() *memory.LocationStore {
	return memory.NewLocationStore()
}
