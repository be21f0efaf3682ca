package aggregator

import (
	"time"

	"survey-insights-go/internal/device"
	"survey-insights-go/internal/filter"
	"survey-insights-go/internal/ingest"
	"survey-insights-go/internal/scoring"
	"survey-insights-go/internal/types"
)

// Options carries the campaign window and presentation knobs for Compute.
type Options struct {
	CampaignStart    time.Time
	CampaignEnd      time.Time
	TargetPerSegment float64
	// Segments are the audience tags tracked against the daily target.
	Segments []string
	Assign   ingest.SegmentAssigner
	Location *time.Location
	TopN     int

	RecentResponses int
	RecentEvents    int

	Now time.Time
}

// Compute builds the full AggregateResult from one cycle's raw payloads.
// It never fails: malformed records fall through to the default rules.
func Compute(p types.Payloads, opts Options) types.AggregateResult {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	topN := opts.TopN
	if topN == 0 {
		topN = 3
	}

	normalized := ingest.Normalize(p.Complete, opts.Assign)
	responses, testResponses := filter.Responses(normalized)
	events, testEvents := filter.Events(p.Progressive)

	res := types.AggregateResult{
		GeneratedAt: now,
		Totals: types.Totals{
			Responses:           len(normalized),
			ProductionResponses: len(responses),
			TestResponses:       len(testResponses),
			Events:              len(p.Progressive),
			ProductionEvents:    len(events),
			TestEvents:          len(testEvents),
		},
	}

	tallies := Tally(responses, types.QuestionKeys)
	res.Questions = make(map[string]types.QuestionSummary, len(tallies))
	for _, q := range types.QuestionKeys {
		t := tallies[q]
		res.Questions[q] = types.QuestionSummary{
			Label:  types.QuestionLabels[q],
			Counts: t.Counts,
			Top:    t.Top(topN),
			Score:  scoring.Score(t.Counts),
		}
	}

	segments := segmentList(opts.Segments, responses)
	bySegment := TallyBySegment(responses, segments, types.QuestionKeys)
	sizes := map[string]int{}
	for _, r := range responses {
		sizes[r.AudienceType]++
	}
	res.Segments = make(map[string]types.SegmentSummary, len(segments))
	for _, s := range segments {
		counts := Counts(bySegment[s])
		res.Segments[s] = types.SegmentSummary{
			Responses: sizes[s],
			Counts:    counts,
			Scores:    scoring.ScoreQuestions(counts, types.QuestionKeys),
		}
	}

	uas := make([]string, 0, len(responses))
	for _, r := range responses {
		uas = append(uas, r.UserAgent())
	}
	res.Devices = device.Count(uas)

	res.Hourly = Hourly(responses, opts.Location)
	res.Daily = Daily(responses, opts.CampaignStart, opts.CampaignEnd, opts.TargetPerSegment, opts.Segments)
	res.ProgressiveHourly = ProgressiveHourly(events, opts.Location)
	res.Sessions = Sessions(events)
	res.CampaignActivity = campaignActivity(responses, events)

	res.RecentResponses = head(responses, opts.RecentResponses)
	res.RecentEvents = tail(events, opts.RecentEvents)
	return res
}

// segmentList is the configured segments followed by any other observed tags.
func segmentList(configured []string, records []types.CompleteResponse) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(configured)+1)
	for _, s := range configured {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, r := range records {
		if !seen[r.AudienceType] {
			seen[r.AudienceType] = true
			out = append(out, r.AudienceType)
		}
	}
	return out
}

func campaignActivity(responses []types.CompleteResponse, events []types.ProgressiveEvent) map[string]types.CampaignActivity {
	out := map[string]types.CampaignActivity{}
	for _, r := range responses {
		c := r.CampaignID
		if c == "" {
			c = unknownCampaign
		}
		a := out[c]
		a.Responses++
		out[c] = a
	}
	for _, e := range events {
		c := e.CampaignID
		if c == "" {
			c = unknownCampaign
		}
		a := out[c]
		a.Progressive++
		if e.IsComplete {
			a.Completed++
		}
		out[c] = a
	}
	return out
}

func head(in []types.CompleteResponse, n int) []types.CompleteResponse {
	if n <= 0 || len(in) < n {
		n = len(in)
	}
	return append([]types.CompleteResponse(nil), in[:n]...)
}

func tail(in []types.ProgressiveEvent, n int) []types.ProgressiveEvent {
	if n <= 0 || len(in) < n {
		n = len(in)
	}
	return append([]types.ProgressiveEvent(nil), in[len(in)-n:]...)
}
