package ingest

import "survey-insights-go/internal/types"

// SegmentAssigner picks the audience tag for a record at a given position in
// the merged stream. It is only consulted when the record carries no tag.
type SegmentAssigner func(r types.CompleteResponse, index int) string

// Fallback tags every untagged record with the same value.
func Fallback(tag string) SegmentAssigner {
	return func(types.CompleteResponse, int) string { return tag }
}

// Parity alternates small_business / general_public by index. It stands in
// for real segmentation when a source has no audience_type field.
func Parity() SegmentAssigner {
	return func(_ types.CompleteResponse, index int) string {
		if index%2 == 0 {
			return types.AudienceSmallBusiness
		}
		return types.AudienceGeneralPublic
	}
}

// Normalize concatenates the sources in order and fills in missing audience
// tags. Records are copied; duplicate ids across sources are kept.
func Normalize(sources []types.CompleteSource, assign SegmentAssigner) []types.CompleteResponse {
	if assign == nil {
		assign = Fallback(types.AudienceAll)
	}
	n := 0
	for _, s := range sources {
		n += len(s.Responses)
	}
	out := make([]types.CompleteResponse, 0, n)
	for _, s := range sources {
		for _, r := range s.Responses {
			if r.AudienceType == "" {
				r.AudienceType = assign(r, len(out))
			}
			out = append(out, r)
		}
	}
	return out
}

// Segments splits records by audience tag, preserving input order per segment.
func Segments(records []types.CompleteResponse) map[string][]types.CompleteResponse {
	out := map[string][]types.CompleteResponse{}
	for _, r := range records {
		out[r.AudienceType] = append(out[r.AudienceType], r)
	}
	return out
}
