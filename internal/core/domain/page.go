package domain

// Direction is the reading direction of a page request.
type Direction string

// Available directions.
const (
	// DirectionNext reads towards the end of the text.
	DirectionNext Direction = "next"

	// DirectionPrevious reads towards the start of the text.
	DirectionPrevious Direction = "previous"
)

// IsValid returns true if the direction is recognised.
func (d Direction) IsValid() bool {
	return d == DirectionNext || d == DirectionPrevious
}

// String returns the string representation.
func (d Direction) String() string {
	return string(d)
}

// TextDetail is document-level metadata returned with every page.
type TextDetail struct {
	// ID is the text identifier.
	ID string

	// Title is the text's display title.
	Title string

	// Language is the text's primary language.
	Language string

	// Type is the kind of text (e.g. "root_text", "commentary").
	Type string
}

// PageRequest describes one bounded fetch of a text's content.
type PageRequest struct {
	// TextID identifies the text. Required.
	TextID string

	// ContentID optionally selects one content of the text.
	ContentID string

	// VersionID optionally selects a version of the text.
	VersionID string

	// Anchor is the segment id to paginate from. Empty means the start.
	Anchor string

	// Direction is next or previous.
	Direction Direction

	// Size is the requested number of segments.
	Size int
}

// ContentPage is one fetch result. It is transient: its sections are merged
// into the session tree and only its boundary metadata is retained.
type ContentPage struct {
	// Anchor is the segment id used for the request.
	Anchor string

	// Direction is the direction of the request.
	Direction Direction

	// Sections is the partial section forest contained in the page.
	Sections []Section

	// CurrentSegmentPosition is the 1-based position reported by the server.
	CurrentSegmentPosition int

	// TotalSegments is the number of segments in the whole text.
	TotalSegments int

	// TextDetail is document-level metadata.
	TextDetail TextDetail
}

// AtEnd reports whether the page touches the forward boundary.
func (p *ContentPage) AtEnd() bool {
	return p.CurrentSegmentPosition == p.TotalSegments
}

// AtStart reports whether the page touches the backward boundary.
func (p *ContentPage) AtStart() bool {
	return p.CurrentSegmentPosition == 1
}

// PageBounds is the boundary metadata retained after a page is merged.
type PageBounds struct {
	// Position is the page's CurrentSegmentPosition.
	Position int

	// Total is the page's TotalSegments.
	Total int
}

// Boundaries holds the retained metadata of the outermost pages.
type Boundaries struct {
	// First is the earliest page loaded (towards the start).
	First PageBounds

	// Last is the latest page loaded (towards the end).
	Last PageBounds
}
