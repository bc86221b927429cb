package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// pageOutput is the --json form of a page.
type pageOutput struct {
	TextID   string          `json:"text_id"`
	Title    string          `json:"title,omitempty"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
	AtStart  bool            `json:"at_start"`
	AtEnd    bool            `json:"at_end"`
	Sections []sectionOutput `json:"sections"`
}

// tocOutput is the --json form of a table of contents.
type tocOutput struct {
	TextID   string          `json:"text_id"`
	Title    string          `json:"title,omitempty"`
	Contents []contentOutput `json:"contents"`
}

type contentOutput struct {
	ID       string          `json:"id"`
	Sections []sectionOutput `json:"sections"`
}

type sectionOutput struct {
	ID       string          `json:"id"`
	Title    string          `json:"title,omitempty"`
	Segments []segmentOutput `json:"segments,omitempty"`
	Sections []sectionOutput `json:"sections,omitempty"`
}

type segmentOutput struct {
	ID          string             `json:"id"`
	Ordinal     int                `json:"ordinal"`
	Content     string             `json:"content,omitempty"`
	Translation *translationOutput `json:"translation,omitempty"`
}

type translationOutput struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

func newPageOutput(textID string, page *domain.ContentPage) pageOutput {
	return pageOutput{
		TextID:   textID,
		Title:    page.TextDetail.Title,
		Position: page.CurrentSegmentPosition,
		Total:    page.TotalSegments,
		AtStart:  page.AtStart(),
		AtEnd:    page.AtEnd(),
		Sections: toSectionOutputs(page.Sections),
	}
}

func newTOCOutput(toc *domain.TableOfContents) tocOutput {
	out := tocOutput{
		TextID:   toc.TextID,
		Title:    toc.TextDetail.Title,
		Contents: make([]contentOutput, 0, len(toc.Contents)),
	}
	for _, c := range toc.Contents {
		out.Contents = append(out.Contents, contentOutput{ID: c.ID, Sections: toSectionOutputs(c.Sections)})
	}
	return out
}

func toSectionOutputs(in []domain.Section) []sectionOutput {
	out := make([]sectionOutput, 0, len(in))
	for _, s := range in {
		sec := sectionOutput{ID: s.ID, Title: s.Title}
		for _, seg := range s.Segments {
			so := segmentOutput{ID: seg.ID, Ordinal: seg.Ordinal, Content: seg.Content}
			if seg.Translation != nil {
				so.Translation = &translationOutput{Language: seg.Translation.Language, Content: seg.Translation.Content}
			}
			sec.Segments = append(sec.Segments, so)
		}
		if len(s.Sections) > 0 {
			sec.Sections = toSectionOutputs(s.Sections)
		}
		out = append(out, sec)
	}
	return out
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, what string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	cmd.Println(string(data))
	return nil
}
