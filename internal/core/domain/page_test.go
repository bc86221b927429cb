package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionNext.IsValid())
	assert.True(t, DirectionPrevious.IsValid())
	assert.False(t, Direction("sideways").IsValid())
	assert.Equal(t, "next", DirectionNext.String())
}

func TestContentPage_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		position int
		total    int
		atStart  bool
		atEnd    bool
	}{
		{"first page", 1, 100, true, false},
		{"middle page", 40, 100, false, false},
		{"last page", 100, 100, false, true},
		{"single segment text", 1, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ContentPage{CurrentSegmentPosition: tt.position, TotalSegments: tt.total}
			assert.Equal(t, tt.atStart, p.AtStart())
			assert.Equal(t, tt.atEnd, p.AtEnd())
		})
	}
}

func TestSessionKey_String(t *testing.T) {
	tests := []struct {
		key  SessionKey
		want string
	}{
		{SessionKey{TextID: "t1"}, "t1"},
		{SessionKey{TextID: "t1", ContentID: "c1"}, "t1/c1"},
		{SessionKey{TextID: "t1", ContentID: "c1", VersionID: "v1"}, "t1/c1/v1"},
		{SessionKey{TextID: "t1", VersionID: "v1"}, "t1//v1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestSessionKey_Request(t *testing.T) {
	key := SessionKey{TextID: "t1", ContentID: "c1", VersionID: "v1"}

	req := key.Request("seg-3", DirectionPrevious, 20)

	assert.Equal(t, PageRequest{
		TextID: "t1", ContentID: "c1", VersionID: "v1",
		Anchor: "seg-3", Direction: DirectionPrevious, Size: 20,
	}, req)
	assert.False(t, key.IsZero())
	assert.True(t, SessionKey{}.IsZero())
}

func TestPreferences_Validate(t *testing.T) {
	assert.NoError(t, DefaultPreferences().Validate())

	p := DefaultPreferences()
	p.PageSize = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)

	p = DefaultPreferences()
	p.PageSize = MaxPageSize + 1
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)

	p = DefaultPreferences()
	p.Language = ""
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)

	p = DefaultPreferences()
	p.Layout = "columns"
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
}

func TestElementRect_VisibleRatio(t *testing.T) {
	tests := []struct {
		name   string
		rect   ElementRect
		top    float64
		bottom float64
		want   float64
	}{
		{"fully visible", ElementRect{Top: 0, Bottom: 400}, 0, 800, 1.0},
		{"half visible", ElementRect{Top: 700, Bottom: 900}, 0, 800, 0.5},
		{"above viewport", ElementRect{Top: -200, Bottom: -100}, 0, 800, 0},
		{"below viewport", ElementRect{Top: 900, Bottom: 1000}, 0, 800, 0},
		{"touching edge", ElementRect{Top: 800, Bottom: 900}, 0, 800, 0},
		{"zero height", ElementRect{Top: 10, Bottom: 10}, 0, 800, 0},
		{"larger than viewport", ElementRect{Top: -100, Bottom: 900}, 0, 800, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.rect.VisibleRatio(tt.top, tt.bottom), 1e-9)
		})
	}
}

func TestElementKind_String(t *testing.T) {
	assert.Equal(t, "section", ElementSection.String())
	assert.Equal(t, "segment", ElementSegment.String())
	assert.Equal(t, "unknown", ElementKind(9).String())
}
