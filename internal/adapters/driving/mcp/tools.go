package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// ReadPageInput is the input schema for the read_page tool.
type ReadPageInput struct {
	TextID    string `json:"text_id" jsonschema:"the text to read"`
	ContentID string `json:"content_id,omitempty" jsonschema:"optional content of the text"`
	VersionID string `json:"version_id,omitempty" jsonschema:"optional version of the text"`
	SegmentID string `json:"segment_id,omitempty" jsonschema:"segment to read from; empty starts at the beginning"`
	Direction string `json:"direction,omitempty" jsonschema:"next or previous (default next)"`
	Size      int    `json:"size,omitempty" jsonschema:"number of segments to return (default from preferences)"`
}

// ReadPageOutput is the output schema for the read_page tool.
type ReadPageOutput struct {
	TextID   string          `json:"text_id"`
	Title    string          `json:"title,omitempty"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	AtStart  bool            `json:"at_start"`
	AtEnd    bool            `json:"at_end"`
	Sections []SectionOutput `json:"sections"`
}

// SectionOutput is one section of a page, flattened with its depth.
type SectionOutput struct {
	ID       string          `json:"id"`
	Title    string          `json:"title,omitempty"`
	Depth    int             `json:"depth"`
	Segments []SegmentOutput `json:"segments,omitempty"`
}

// SegmentOutput is one segment of a page.
type SegmentOutput struct {
	ID          string `json:"id"`
	Ordinal     int    `json:"ordinal"`
	Content     string `json:"content"`
	Translation string `json:"translation,omitempty"`
}

// TOCInput is the input schema for the table_of_contents tool.
type TOCInput struct {
	TextID   string `json:"text_id" jsonschema:"the text whose contents to list"`
	Language string `json:"language,omitempty" jsonschema:"language for section titles (default from preferences)"`
}

// TOCOutput is the output schema for the table_of_contents tool.
type TOCOutput struct {
	TextID  string     `json:"text_id"`
	Title   string     `json:"title,omitempty"`
	Entries []TOCEntry `json:"entries"`
	Count   int        `json:"count"`
}

// TOCEntry is one section of the table of contents.
type TOCEntry struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	Depth          int    `json:"depth"`
	ContentID      string `json:"content_id"`
	FirstSegmentID string `json:"first_segment_id,omitempty"`
}

// LocateInput is the input schema for the locate_section tool.
type LocateInput struct {
	TextID   string `json:"text_id" jsonschema:"the text to search"`
	ID       string `json:"id" jsonschema:"section or segment id to locate"`
	Language string `json:"language,omitempty" jsonschema:"language for section titles (default from preferences)"`
}

// LocateOutput is the output schema for the locate_section tool.
type LocateOutput struct {
	TextID         string   `json:"text_id"`
	ContentID      string   `json:"content_id"`
	ID             string   `json:"id"`
	Title          string   `json:"title,omitempty"`
	FirstSegmentID string   `json:"first_segment_id,omitempty"`
	Path           []string `json:"path"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_page",
		Description: "Read one page of segments from a text, forwards or backwards from a segment",
	}, s.handleReadPage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "table_of_contents",
		Description: "List the sections of a text in reading order",
	}, s.handleTableOfContents)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "locate_section",
		Description: "Find the content, ancestors and first segment of a section or segment id",
	}, s.handleLocateSection)
}

// handleReadPage handles the read_page tool invocation.
func (s *Server) handleReadPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadPageInput,
) (*mcp.CallToolResult, ReadPageOutput, error) {
	size := input.Size
	if size <= 0 {
		size = s.preferences().PageSize
	}

	page, err := s.ports.Content.ReadPage(ctx, domain.PageRequest{
		TextID:    input.TextID,
		ContentID: input.ContentID,
		VersionID: input.VersionID,
		Anchor:    input.SegmentID,
		Direction: domain.Direction(input.Direction),
		Size:      size,
	})
	if err != nil {
		return nil, ReadPageOutput{}, err
	}

	output := ReadPageOutput{
		TextID:   input.TextID,
		Title:    page.TextDetail.Title,
		Position: page.CurrentSegmentPosition,
		Total:    page.TotalSegments,
		AtStart:  page.AtStart(),
		AtEnd:    page.AtEnd(),
		Sections: []SectionOutput{},
	}
	walkSections(page.Sections, 0, func(sec domain.Section, depth int) {
		out := SectionOutput{ID: sec.ID, Title: sec.Title, Depth: depth}
		for _, seg := range sec.Segments {
			so := SegmentOutput{ID: seg.ID, Ordinal: seg.Ordinal, Content: seg.Content}
			if seg.Translation != nil {
				so.Translation = seg.Translation.Content
			}
			out.Segments = append(out.Segments, so)
		}
		output.Sections = append(output.Sections, out)
	})

	return nil, output, nil
}

// handleTableOfContents handles the table_of_contents tool invocation.
func (s *Server) handleTableOfContents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TOCInput,
) (*mcp.CallToolResult, TOCOutput, error) {
	toc, err := s.ports.TOC.Load(ctx, input.TextID, s.language(input.Language))
	if err != nil {
		return nil, TOCOutput{}, err
	}

	output := TOCOutput{
		TextID:  input.TextID,
		Title:   toc.TextDetail.Title,
		Entries: []TOCEntry{},
	}
	for _, content := range toc.Contents {
		walkSections(content.Sections, 0, func(sec domain.Section, depth int) {
			first, _ := domain.FirstSegmentID([]domain.Section{sec})
			output.Entries = append(output.Entries, TOCEntry{
				ID:             sec.ID,
				Title:          sec.Title,
				Depth:          depth,
				ContentID:      content.ID,
				FirstSegmentID: first,
			})
		})
	}
	output.Count = len(output.Entries)

	return nil, output, nil
}

// handleLocateSection handles the locate_section tool invocation.
func (s *Server) handleLocateSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LocateInput,
) (*mcp.CallToolResult, LocateOutput, error) {
	loc, err := s.ports.Content.Locate(ctx, input.TextID, s.language(input.Language), input.ID)
	if err != nil {
		return nil, LocateOutput{}, err
	}

	path := loc.Path
	if path == nil {
		path = []string{}
	}
	return nil, LocateOutput{
		TextID:         loc.TextID,
		ContentID:      loc.ContentID,
		ID:             loc.ID,
		Title:          loc.Title,
		FirstSegmentID: loc.FirstSegmentID,
		Path:           path,
	}, nil
}

// walkSections visits sections depth-first in document order.
func walkSections(sections []domain.Section, depth int, visit func(domain.Section, int)) {
	for _, sec := range sections {
		visit(sec, depth)
		walkSections(sec.Sections, depth+1, visit)
	}
}
