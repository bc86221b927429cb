package domain

// TOCRequest describes one page of a table-of-contents fetch.
type TOCRequest struct {
	// TextID identifies the text. Required.
	TextID string

	// Language selects title translations.
	Language string

	// Limit is the maximum number of contents to return.
	Limit int

	// Skip is the number of contents to skip.
	Skip int
}

// TOCContent is one content of a text with its full section skeleton.
type TOCContent struct {
	// ID is the content identifier.
	ID string

	// Sections is the section skeleton. Segments may only carry ids.
	Sections []Section
}

// TOCPage is one table-of-contents fetch result.
type TOCPage struct {
	// Contents are the returned contents.
	Contents []TOCContent

	// TextDetail is document-level metadata.
	TextDetail TextDetail
}

// TableOfContents is the eagerly loaded structural skeleton of a text.
// It is distinct from the lazily paged reading tree.
type TableOfContents struct {
	// TextID identifies the text.
	TextID string

	// Contents are all contents in server order.
	Contents []TOCContent

	// TextDetail is document-level metadata.
	TextDetail TextDetail
}

// Sections returns the section forest of all contents concatenated.
func (t *TableOfContents) Sections() []Section {
	if t == nil {
		return nil
	}
	var out []Section
	for _, c := range t.Contents {
		out = append(out, c.Sections...)
	}
	return out
}

// PathTo returns the ids of the ancestors of id (outermost first) and
// whether id was found. Both section and segment ids are matched.
func (t *TableOfContents) PathTo(id string) ([]string, bool) {
	return AncestorPath(t.Sections(), id)
}

// FirstSegmentOf returns the first segment id inside the section with the
// given id, or false when the section is unknown or empty.
func (t *TableOfContents) FirstSegmentOf(sectionID string) (string, bool) {
	sec, ok := FindSection(t.Sections(), sectionID)
	if !ok {
		return "", false
	}
	return FirstSegmentID([]Section{*sec})
}

// ContentOf returns the content id owning the section or segment id.
func (t *TableOfContents) ContentOf(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, c := range t.Contents {
		if ContainsID(c.Sections, id) {
			return c.ID, true
		}
	}
	return "", false
}

// AncestorPath searches the forest depth-first carrying the parent path.
// It stops at the first match and returns the ancestor ids outermost first.
func AncestorPath(sections []Section, id string) ([]string, bool) {
	var path []string
	var walk func([]Section) bool
	walk = func(ss []Section) bool {
		for i := range ss {
			if ss[i].ID == id {
				return true
			}
			for _, seg := range ss[i].Segments {
				if seg.ID == id {
					path = append(path, ss[i].ID)
					return true
				}
			}
			path = append(path, ss[i].ID)
			if walk(ss[i].Sections) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !walk(sections) {
		return nil, false
	}
	return path, true
}

// Location is where a section or segment lives in a text.
type Location struct {
	// TextID identifies the text.
	TextID string

	// ContentID is the content holding the id.
	ContentID string

	// ID is the resolved section or segment id.
	ID string

	// Title is the section title, empty for segments.
	Title string

	// FirstSegmentID is the anchor a page must be fetched at to contain ID.
	FirstSegmentID string

	// Path holds the ancestor ids, outermost first.
	Path []string
}
