package aggregator

import (
	"testing"
	"time"

	"survey-insights-go/internal/ingest"
	"survey-insights-go/internal/types"
)

func testOptions() Options {
	return Options{
		CampaignStart:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CampaignEnd:      time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		TargetPerSegment: 1500,
		Segments:         []string{types.AudienceSmallBusiness, types.AudienceGeneralPublic},
		Assign:           ingest.Fallback(types.AudienceAll),
		Location:         time.UTC,
		RecentResponses:  10,
		RecentEvents:     50,
		Now:              time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestComputeCompleteScenario(t *testing.T) {
	a := types.CompleteResponse{
		ID: "A", CampaignID: "sebrae_q3", SessionID: "sa", Timestamp: "2025-09-02T10:00:00Z",
		Answers: map[string]string{
			"q1": "sempre", "q2": "engajado", "q3": "muito_agil",
			"q4": "sempre", "q5": "muito_agil", "q6": "muitas_parcerias",
		},
	}
	b := types.CompleteResponse{
		ID: "B", CampaignID: "test_run", SessionID: "sb", Timestamp: "2025-09-02T11:00:00Z",
		Answers: map[string]string{"q1": "nao_sei"},
	}
	res := Compute(types.Payloads{Complete: []types.CompleteSource{{Name: "v1", Responses: []types.CompleteResponse{a, b}}}}, testOptions())

	if res.Totals.Responses != 2 || res.Totals.ProductionResponses != 1 || res.Totals.TestResponses != 1 {
		t.Fatalf("totals: %+v", res.Totals)
	}
	q1 := res.Questions["q1"]
	if len(q1.Counts) != 1 || q1.Counts["sempre"] != 1 {
		t.Fatalf("q1 counts: %v", q1.Counts)
	}
	if q1.Score != 10 {
		t.Fatalf("q1 score %v, want 10", q1.Score)
	}
	if q1.Label != "Tecnologia e Inovação" {
		t.Fatalf("q1 label %q", q1.Label)
	}
	all, ok := res.Segments[types.AudienceAll]
	if !ok || all.Responses != 1 || all.Scores["q1"] != 10 {
		t.Fatalf("segment all: %+v", all)
	}
	if sb := res.Segments[types.AudienceSmallBusiness]; sb.Responses != 0 || sb.Scores["q1"] != 0 {
		t.Fatalf("segment small_business should be empty: %+v", sb)
	}
	if res.Hourly[10].Count != 1 || res.Hourly[11].Count != 0 {
		t.Fatalf("hourly excludes test traffic: %v", res.Hourly[10:12])
	}
	if len(res.Daily.Buckets) != 60 {
		t.Fatalf("daily buckets %d", len(res.Daily.Buckets))
	}
	if res.Devices["Desktop"] != 1 {
		t.Fatalf("devices: %v", res.Devices)
	}
	if res.CampaignActivity["sebrae_q3"].Responses != 1 {
		t.Fatalf("campaign activity: %v", res.CampaignActivity)
	}
	if len(res.RecentResponses) != 1 || res.RecentResponses[0].ID != "A" {
		t.Fatalf("recent responses: %v", res.RecentResponses)
	}
	if !res.GeneratedAt.Equal(testOptions().Now) {
		t.Fatalf("generated at %v", res.GeneratedAt)
	}
}

func TestComputeProgressiveScenario(t *testing.T) {
	events := append(progressiveScenario(), types.ProgressiveEvent{SessionID: "test_x", QuestionNumber: 1})
	res := Compute(types.Payloads{Progressive: events}, testOptions())

	if res.Totals.Events != 5 || res.Totals.TestEvents != 1 {
		t.Fatalf("totals: %+v", res.Totals)
	}
	st := res.Sessions
	if st.Total != 2 || st.Completed != 1 || st.Abandoned != 1 || st.CompletionRate != 50 {
		t.Fatalf("sessions: %+v", st.CompletionStats)
	}
	if st.QuestionAbandonment[1] != 50 || st.QuestionAbandonment[3] != 0 {
		t.Fatalf("abandonment: %v", st.QuestionAbandonment)
	}
	if res.ProgressiveHourly[10].Progressive != 3 || res.ProgressiveHourly[10].Complete != 1 {
		t.Fatalf("progressive hourly: %+v", res.ProgressiveHourly[10])
	}
	if res.CampaignActivity["c1"].Completed != 1 || res.CampaignActivity["unknown"].Progressive != 1 {
		t.Fatalf("campaign activity: %v", res.CampaignActivity)
	}
}

func TestComputeRecentLimits(t *testing.T) {
	opts := testOptions()
	opts.RecentEvents = 2
	opts.RecentResponses = 1
	var events []types.ProgressiveEvent
	for _, id := range []string{"e1", "e2", "e3"} {
		events = append(events, types.ProgressiveEvent{ID: id, SessionID: "s"})
	}
	responses := []types.CompleteResponse{{ID: "r1"}, {ID: "r2"}}
	res := Compute(types.Payloads{
		Complete:    []types.CompleteSource{{Responses: responses}},
		Progressive: events,
	}, opts)
	if len(res.RecentEvents) != 2 || res.RecentEvents[0].ID != "e2" {
		t.Fatalf("recent events: %v", res.RecentEvents)
	}
	if len(res.RecentResponses) != 1 || res.RecentResponses[0].ID != "r1" {
		t.Fatalf("recent responses: %v", res.RecentResponses)
	}
}
