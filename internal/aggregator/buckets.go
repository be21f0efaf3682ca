package aggregator

import (
	"fmt"
	"math"
	"time"

	"survey-insights-go/internal/types"
)

const (
	day        = 24 * time.Hour
	dateLayout = "2006-01-02"
)

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func localHour(ts string, loc *time.Location) (int, bool) {
	t, ok := types.ParseTimestamp(ts)
	if !ok {
		return 0, false
	}
	return t.In(loc).Hour(), true
}

// Hourly buckets responses by local hour of day. It always returns 24 entries,
// "00:00" through "23:00". Unparseable timestamps are skipped.
func Hourly(records []types.CompleteResponse, loc *time.Location) []types.HourBucket {
	if loc == nil {
		loc = time.Local
	}
	var counts [24]int
	for _, r := range records {
		if h, ok := localHour(r.Timestamp, loc); ok {
			counts[h]++
		}
	}
	out := make([]types.HourBucket, 24)
	for h := range out {
		out[h] = types.HourBucket{Hour: hourLabel(h), Count: counts[h]}
	}
	return out
}

// ProgressiveHourly is Hourly over progressive events, with a second counter
// for completing events.
func ProgressiveHourly(events []types.ProgressiveEvent, loc *time.Location) []types.ProgressiveHourBucket {
	if loc == nil {
		loc = time.Local
	}
	out := make([]types.ProgressiveHourBucket, 24)
	for h := range out {
		out[h].Hour = hourLabel(h)
	}
	for _, e := range events {
		h, ok := localHour(e.Timestamp, loc)
		if !ok {
			continue
		}
		out[h].Progressive++
		if e.IsComplete {
			out[h].Complete++
		}
	}
	return out
}

// DaysBetween is ceil((end-start)/1 day), never negative.
func DaysBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// Daily produces one bucket per calendar day in [start, end) with per-segment
// actual counts and a flat per-day target of targetPerSegment / days.
// Records match a day when their timestamp string starts with the day's
// YYYY-MM-DD form.
func Daily(records []types.CompleteResponse, start, end time.Time, targetPerSegment float64, segments []string) types.DailySeries {
	days := DaysBetween(start, end)
	daily := 0.0
	if days > 0 {
		daily = targetPerSegment / float64(days)
	}
	series := types.DailySeries{
		Days:             days,
		TargetPerSegment: targetPerSegment,
		DailyTarget:      daily,
		Buckets:          make([]types.DayBucket, 0, days),
	}
	byDay := map[string]map[string]int{}
	for _, r := range records {
		if len(r.Timestamp) < len(dateLayout) {
			continue
		}
		key := r.Timestamp[:len(dateLayout)]
		if byDay[key] == nil {
			byDay[key] = map[string]int{}
		}
		byDay[key][r.AudienceType]++
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		actual := make(map[string]int, len(segments))
		for _, s := range segments {
			actual[s] = byDay[key][s]
		}
		series.Buckets = append(series.Buckets, types.DayBucket{Date: key, Actual: actual, Target: daily})
	}
	return series
}
