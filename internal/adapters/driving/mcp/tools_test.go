package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

func samplePage() *domain.ContentPage {
	return &domain.ContentPage{
		Anchor:    "seg1",
		Direction: domain.DirectionNext,
		Sections: []domain.Section{{
			ID: "c1", Title: "Chapter One",
			Sections: []domain.Section{{
				ID: "s1", Title: "Verse",
				Segments: []domain.Segment{
					{ID: "seg1", Ordinal: 1, Content: "alpha", Translation: &domain.Translation{Language: "en", Content: "first"}},
					{ID: "seg2", Ordinal: 2, Content: "beta"},
				},
			}},
		}},
		CurrentSegmentPosition: 1,
		TotalSegments:          40,
		TextDetail:             domain.TextDetail{ID: "t1", Title: "The Text"},
	}
}

func sampleTOC() *domain.TableOfContents {
	return &domain.TableOfContents{
		TextID:     "t1",
		TextDetail: domain.TextDetail{ID: "t1", Title: "The Text"},
		Contents: []domain.TOCContent{
			{ID: "content-a", Sections: []domain.Section{{
				ID: "c1", Title: "One",
				Sections: []domain.Section{{ID: "s1", Title: "One.1", Segments: []domain.Segment{{ID: "seg1"}}}},
			}}},
			{ID: "content-b", Sections: []domain.Section{{
				ID: "c2", Title: "Two", Segments: []domain.Segment{{ID: "seg9"}},
			}}},
		},
	}
}

func TestServer_handleReadPage(t *testing.T) {
	ctx := context.Background()

	t.Run("flattens sections with depth", func(t *testing.T) {
		content := &mockContentService{page: samplePage()}
		server := newTestServer(t, &Ports{Content: content, TOC: &mockTOCService{}})

		_, output, err := server.handleReadPage(ctx, nil, ReadPageInput{TextID: "t1", SegmentID: "seg1", Size: 2})

		require.NoError(t, err)
		assert.Equal(t, "The Text", output.Title)
		assert.Equal(t, 1, output.Position)
		assert.Equal(t, 40, output.Total)
		assert.True(t, output.AtStart)
		assert.False(t, output.AtEnd)
		require.Len(t, output.Sections, 2)
		assert.Equal(t, "c1", output.Sections[0].ID)
		assert.Equal(t, 0, output.Sections[0].Depth)
		assert.Empty(t, output.Sections[0].Segments)
		assert.Equal(t, "s1", output.Sections[1].ID)
		assert.Equal(t, 1, output.Sections[1].Depth)
		require.Len(t, output.Sections[1].Segments, 2)
		assert.Equal(t, "first", output.Sections[1].Segments[0].Translation)
		assert.Empty(t, output.Sections[1].Segments[1].Translation)

		assert.Equal(t, "seg1", content.lastReq.Anchor)
		assert.Equal(t, 2, content.lastReq.Size)
	})

	t.Run("default size comes from preferences", func(t *testing.T) {
		content := &mockContentService{page: samplePage()}
		server := newTestServer(t, &Ports{
			Content:     content,
			TOC:         &mockTOCService{},
			Preferences: &mockPreferencesService{prefs: domain.Preferences{PageSize: 25, Language: "en"}},
		})

		_, _, err := server.handleReadPage(ctx, nil, ReadPageInput{TextID: "t1", Direction: "previous"})

		require.NoError(t, err)
		assert.Equal(t, 25, content.lastReq.Size)
		assert.Equal(t, domain.DirectionPrevious, content.lastReq.Direction)
	})

	t.Run("returns error on read failure", func(t *testing.T) {
		content := &mockContentService{err: &domain.NotFoundError{Anchor: "gone", Resource: "segment"}}
		server := newTestServer(t, &Ports{Content: content, TOC: &mockTOCService{}})

		_, _, err := server.handleReadPage(ctx, nil, ReadPageInput{TextID: "t1", SegmentID: "gone"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleTableOfContents(t *testing.T) {
	ctx := context.Background()

	t.Run("lists entries across contents", func(t *testing.T) {
		toc := &mockTOCService{toc: sampleTOC()}
		server := newTestServer(t, &Ports{Content: &mockContentService{}, TOC: toc})

		_, output, err := server.handleTableOfContents(ctx, nil, TOCInput{TextID: "t1"})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Equal(t, "The Text", output.Title)
		assert.Equal(t, TOCEntry{ID: "c1", Title: "One", ContentID: "content-a", FirstSegmentID: "seg1"}, output.Entries[0])
		assert.Equal(t, TOCEntry{ID: "s1", Title: "One.1", Depth: 1, ContentID: "content-a", FirstSegmentID: "seg1"}, output.Entries[1])
		assert.Equal(t, TOCEntry{ID: "c2", Title: "Two", ContentID: "content-b", FirstSegmentID: "seg9"}, output.Entries[2])
		assert.Equal(t, domain.DefaultLanguage, toc.lastLang)
	})

	t.Run("passes explicit language", func(t *testing.T) {
		toc := &mockTOCService{toc: sampleTOC()}
		server := newTestServer(t, &Ports{Content: &mockContentService{}, TOC: toc})

		_, _, err := server.handleTableOfContents(ctx, nil, TOCInput{TextID: "t1", Language: "bo"})

		require.NoError(t, err)
		assert.Equal(t, "bo", toc.lastLang)
	})

	t.Run("returns error on load failure", func(t *testing.T) {
		toc := &mockTOCService{err: errors.New("toc failed")}
		server := newTestServer(t, &Ports{Content: &mockContentService{}, TOC: toc})

		_, _, err := server.handleTableOfContents(ctx, nil, TOCInput{TextID: "t1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "toc failed")
	})
}

func TestServer_handleLocateSection(t *testing.T) {
	ctx := context.Background()

	t.Run("returns location", func(t *testing.T) {
		content := &mockContentService{location: &domain.Location{
			TextID: "t1", ContentID: "content-a", ID: "s1", Title: "One.1",
			FirstSegmentID: "seg1", Path: []string{"c1"},
		}}
		server := newTestServer(t, &Ports{Content: content, TOC: &mockTOCService{}})

		_, output, err := server.handleLocateSection(ctx, nil, LocateInput{TextID: "t1", ID: "s1"})

		require.NoError(t, err)
		assert.Equal(t, LocateOutput{
			TextID: "t1", ContentID: "content-a", ID: "s1", Title: "One.1",
			FirstSegmentID: "seg1", Path: []string{"c1"},
		}, output)
	})

	t.Run("top-level path is empty not null", func(t *testing.T) {
		content := &mockContentService{location: &domain.Location{TextID: "t1", ContentID: "content-a", ID: "c1"}}
		server := newTestServer(t, &Ports{Content: content, TOC: &mockTOCService{}})

		_, output, err := server.handleLocateSection(ctx, nil, LocateInput{TextID: "t1", ID: "c1"})

		require.NoError(t, err)
		assert.NotNil(t, output.Path)
		assert.Empty(t, output.Path)
	})

	t.Run("returns error for unknown id", func(t *testing.T) {
		content := &mockContentService{err: &domain.NotFoundError{Anchor: "nope", Resource: "section"}}
		server := newTestServer(t, &Ports{Content: content, TOC: &mockTOCService{}})

		_, _, err := server.handleLocateSection(ctx, nil, LocateInput{TextID: "t1", ID: "nope"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
