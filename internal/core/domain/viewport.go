package domain

// ElementKind distinguishes annotated elements in the rendered view.
type ElementKind int

const (
	// ElementSection is an element tagged with a section id.
	ElementSection ElementKind = iota

	// ElementSegment is an element tagged with a segment id.
	ElementSegment
)

// String returns the string representation of the element kind.
func (k ElementKind) String() string {
	switch k {
	case ElementSection:
		return "section"
	case ElementSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// ElementRect is the geometry of one annotated element, in the same
// coordinate space as the viewport bounds.
type ElementRect struct {
	// ID is the section or segment id the element is tagged with.
	ID string

	// Kind says which kind of id ID is.
	Kind ElementKind

	// Top is the element's top edge.
	Top float64

	// Bottom is the element's bottom edge.
	Bottom float64
}

// Height returns the element height.
func (r ElementRect) Height() float64 {
	return r.Bottom - r.Top
}

// VisibleRatio returns the fraction of the element inside [top, bottom].
// Elements with no height never count as visible.
func (r ElementRect) VisibleRatio(top, bottom float64) float64 {
	h := r.Height()
	if h <= 0 {
		return 0
	}
	visible := min(bottom, r.Bottom) - max(top, r.Top)
	if visible <= 0 {
		return 0
	}
	return visible / h
}
