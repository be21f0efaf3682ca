package aggregator

import (
	"testing"
	"time"

	"survey-insights-go/internal/types"
)

func TestHourlyAlwaysDense(t *testing.T) {
	for _, recs := range [][]types.CompleteResponse{
		nil,
		{{Timestamp: "2025-09-01T10:15:00Z"}},
		{{Timestamp: "not a time"}, {Timestamp: ""}},
	} {
		got := Hourly(recs, time.UTC)
		if len(got) != 24 {
			t.Fatalf("got %d buckets, want 24", len(got))
		}
		if got[0].Hour != "00:00" || got[23].Hour != "23:00" {
			t.Fatalf("unexpected labels %q..%q", got[0].Hour, got[23].Hour)
		}
	}
}

func TestHourlyCountsLocalHour(t *testing.T) {
	recs := []types.CompleteResponse{
		{Timestamp: "2025-09-01T10:15:00Z"},
		{Timestamp: "2025-09-02T10:59:59.123Z"},
		{Timestamp: "2025-09-02T13:00:00"},
	}
	got := Hourly(recs, time.UTC)
	if got[10].Count != 2 || got[13].Count != 1 {
		t.Fatalf("unexpected counts: 10h=%d 13h=%d", got[10].Count, got[13].Count)
	}

	sp := time.FixedZone("BRT", -3*3600)
	shifted := Hourly(recs, sp)
	if shifted[7].Count != 2 || shifted[10].Count != 1 {
		t.Fatalf("unexpected shifted counts: 7h=%d 10h=%d", shifted[7].Count, shifted[10].Count)
	}
}

func TestProgressiveHourly(t *testing.T) {
	events := []types.ProgressiveEvent{
		{Timestamp: "2025-09-01T08:00:00Z"},
		{Timestamp: "2025-09-01T08:30:00Z", IsComplete: true},
		{Timestamp: "2025-09-01T21:00:00Z"},
	}
	got := ProgressiveHourly(events, time.UTC)
	if len(got) != 24 {
		t.Fatalf("got %d buckets", len(got))
	}
	if got[8].Progressive != 2 || got[8].Complete != 1 || got[21].Progressive != 1 || got[21].Complete != 0 {
		t.Fatalf("unexpected buckets: %+v %+v", got[8], got[21])
	}
}

func TestDailyCampaignWindow(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
	recs := []types.CompleteResponse{
		{Timestamp: "2025-09-02T12:00:00Z", AudienceType: "small_business"},
		{Timestamp: "2025-09-02T18:00:00Z", AudienceType: "general_public"},
		{Timestamp: "2025-09-02T19:00:00Z", AudienceType: "small_business"},
		{Timestamp: "2025-10-31T09:00:00Z", AudienceType: "small_business"},
	}
	got := Daily(recs, start, end, 1500, []string{"small_business", "general_public"})
	if got.Days != 60 || len(got.Buckets) != 60 {
		t.Fatalf("got %d days / %d buckets, want 60", got.Days, len(got.Buckets))
	}
	if got.DailyTarget != 25 {
		t.Fatalf("daily target %v, want 25", got.DailyTarget)
	}
	for _, b := range got.Buckets {
		if b.Target != 25 {
			t.Fatalf("bucket %s target %v, want flat 25", b.Date, b.Target)
		}
	}
	if got.Buckets[0].Date != "2025-09-01" || got.Buckets[59].Date != "2025-10-30" {
		t.Fatalf("window %s..%s", got.Buckets[0].Date, got.Buckets[59].Date)
	}
	d2 := got.Buckets[1]
	if d2.Actual["small_business"] != 2 || d2.Actual["general_public"] != 1 {
		t.Fatalf("2025-09-02 actuals: %v", d2.Actual)
	}
}

func TestDailyZeroWindow(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	got := Daily(nil, start, start, 1500, []string{"small_business"})
	if got.Days != 0 || len(got.Buckets) != 0 || got.DailyTarget != 0 {
		t.Fatalf("unexpected series: %+v", got)
	}
}

func TestDaysBetweenRoundsUp(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(start, start.Add(25*time.Hour)); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := DaysBetween(start, start.Add(-time.Hour)); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
