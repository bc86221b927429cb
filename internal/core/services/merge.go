package services

import "github.com/custodia-labs/lectern/internal/core/domain"

// MergeSections folds incoming into existing and returns a new forest.
//
// Sections are matched by id at each level. A matched section gains the
// incoming segments whose ids it does not already hold, appended in incoming
// order, and its child sections are merged with the same rule. Unmatched
// sections are appended. Existing elements are never reordered or removed.
//
// Neither input is modified and the result shares no memory with them.
// Callers choose argument order: forward pages merge as (tree, page),
// backward pages as (page, tree), so document order holds either way.
func MergeSections(existing, incoming []domain.Section) []domain.Section {
	out := domain.CloneSections(existing)
	if len(incoming) == 0 {
		return out
	}

	index := make(map[string]int, len(out)+len(incoming))
	for i := range out {
		if _, dup := index[out[i].ID]; !dup {
			index[out[i].ID] = i
		}
	}

	for i := range incoming {
		in := &incoming[i]
		pos, ok := index[in.ID]
		if !ok {
			index[in.ID] = len(out)
			out = append(out, in.Clone())
			continue
		}
		out[pos] = mergeSection(out[pos], in)
	}
	return out
}

// mergeSection merges in into dst. dst is already a private copy.
func mergeSection(dst domain.Section, in *domain.Section) domain.Section {
	if dst.Title == "" {
		dst.Title = in.Title
	}
	dst.Segments = appendMissingSegments(dst.Segments, in.Segments)
	if len(in.Sections) > 0 {
		dst.Sections = MergeSections(dst.Sections, in.Sections)
	}
	return dst
}

func appendMissingSegments(dst, incoming []domain.Segment) []domain.Segment {
	if len(incoming) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst)+len(incoming))
	for _, s := range dst {
		seen[s.ID] = struct{}{}
	}
	for _, s := range incoming {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		dst = append(dst, s.Clone())
	}
	return dst
}
