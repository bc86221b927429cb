package textapi

import "github.com/custodia-labs/lectern/internal/core/domain"

// detailsRequest is the body of POST /texts/{id}/details.
type detailsRequest struct {
	ContentID string `json:"content_id,omitempty"`
	SegmentID string `json:"segment_id,omitempty"`
	VersionID string `json:"version_id,omitempty"`
	Direction string `json:"direction"`
	Size      int    `json:"size"`
}

type detailsResponse struct {
	Content struct {
		Sections []wireSection `json:"sections"`
	} `json:"content"`
	TextDetail             wireTextDetail `json:"text_detail"`
	CurrentSegmentPosition int            `json:"current_segment_position"`
	TotalSegments          int            `json:"total_segments"`
}

type contentsResponse struct {
	Contents   []wireContent  `json:"contents"`
	TextDetail wireTextDetail `json:"text_detail"`
}

type wireContent struct {
	ID       string        `json:"id"`
	Sections []wireSection `json:"sections"`
}

type wireSection struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Segments []wireSegment `json:"segments"`
	Sections []wireSection `json:"sections"`
}

type wireSegment struct {
	SegmentID     string           `json:"segment_id"`
	SegmentNumber int              `json:"segment_number"`
	Content       string           `json:"content"`
	Translation   *wireTranslation `json:"translation,omitempty"`
}

type wireTranslation struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

type wireTextDetail struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Language string `json:"language"`
	Type     string `json:"type"`
}

// errorResponse is the body the API sends with 4xx responses.
type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (d wireTextDetail) toDomain() domain.TextDetail {
	return domain.TextDetail{ID: d.ID, Title: d.Title, Language: d.Language, Type: d.Type}
}

func toSections(in []wireSection) []domain.Section {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Section, len(in))
	for i, s := range in {
		out[i] = domain.Section{
			ID:       s.ID,
			Title:    s.Title,
			Segments: toSegments(s.Segments),
			Sections: toSections(s.Sections),
		}
	}
	return out
}

func toSegments(in []wireSegment) []domain.Segment {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Segment, len(in))
	for i, s := range in {
		out[i] = domain.Segment{ID: s.SegmentID, Ordinal: s.SegmentNumber, Content: s.Content}
		if s.Translation != nil {
			out[i].Translation = &domain.Translation{Language: s.Translation.Language, Content: s.Translation.Content}
		}
	}
	return out
}
