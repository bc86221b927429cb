package domain

// Segment is the smallest addressable unit of text content.
// Segments are immutable once fetched.
type Segment struct {
	// ID is stable and unique within a text.
	ID string

	// Ordinal is the position within the parent section.
	Ordinal int

	// Content is rich markup.
	Content string

	// Translation is an optional rendering in another language.
	Translation *Translation
}

// Translation is a segment rendered in another language.
type Translation struct {
	// Language is a BCP 47 tag (e.g. "en", "bo").
	Language string

	// Content is rich markup.
	Content string
}

// Section is a named node in a text's hierarchy.
// A section may hold segments, child sections, or both.
type Section struct {
	// ID is unique within a text.
	ID string

	// Title is the human-readable heading.
	Title string

	// Segments are the ordered direct segments (may be empty).
	Segments []Segment

	// Sections are the ordered child sections (may be empty).
	Sections []Section
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := Section{ID: s.ID, Title: s.Title}
	if len(s.Segments) > 0 {
		out.Segments = make([]Segment, len(s.Segments))
		for i, seg := range s.Segments {
			out.Segments[i] = seg.Clone()
		}
	}
	if len(s.Sections) > 0 {
		out.Sections = CloneSections(s.Sections)
	}
	return out
}

// Clone returns a deep copy of the segment.
func (s Segment) Clone() Segment {
	if s.Translation != nil {
		t := *s.Translation
		s.Translation = &t
	}
	return s
}

// CloneSections returns a deep copy of a section forest.
func CloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i := range sections {
		out[i] = sections[i].Clone()
	}
	return out
}

// LastSegmentID returns the id of the last segment reachable by a
// depth-first traversal that prefers the rightmost child section and then
// the last direct segment. Returns false if the forest has no segments.
func LastSegmentID(sections []Section) (string, bool) {
	for i := len(sections) - 1; i >= 0; i-- {
		if id, ok := LastSegmentID(sections[i].Sections); ok {
			return id, true
		}
		if n := len(sections[i].Segments); n > 0 {
			return sections[i].Segments[n-1].ID, true
		}
	}
	return "", false
}

// FirstSegmentID mirrors LastSegmentID: the first direct segment of the
// leftmost section wins, then its first child section.
func FirstSegmentID(sections []Section) (string, bool) {
	for i := range sections {
		if len(sections[i].Segments) > 0 {
			return sections[i].Segments[0].ID, true
		}
		if id, ok := FirstSegmentID(sections[i].Sections); ok {
			return id, true
		}
	}
	return "", false
}

// CountSegments returns the number of segments in a forest.
func CountSegments(sections []Section) int {
	n := 0
	for i := range sections {
		n += len(sections[i].Segments) + CountSegments(sections[i].Sections)
	}
	return n
}

// FindSection returns the section with the given id, searching depth-first.
func FindSection(sections []Section, id string) (*Section, bool) {
	for i := range sections {
		if sections[i].ID == id {
			return &sections[i], true
		}
		if found, ok := FindSection(sections[i].Sections, id); ok {
			return found, true
		}
	}
	return nil, false
}

// ContainsID reports whether id names a section or a segment in the forest.
func ContainsID(sections []Section, id string) bool {
	for i := range sections {
		if sections[i].ID == id {
			return true
		}
		for _, seg := range sections[i].Segments {
			if seg.ID == id {
				return true
			}
		}
		if ContainsID(sections[i].Sections, id) {
			return true
		}
	}
	return false
}

// SegmentIDs returns every segment id of the forest in document order.
// A section's direct segments come before its child sections.
func SegmentIDs(sections []Section) []string {
	var ids []string
	var walk func([]Section)
	walk = func(ss []Section) {
		for i := range ss {
			for _, seg := range ss[i].Segments {
				ids = append(ids, seg.ID)
			}
			walk(ss[i].Sections)
		}
	}
	walk(sections)
	return ids
}
