package actionable

import (
	"fmt"
	"sort"
	"time"

	"survey-insights-go/internal/types"
)

const (
	// pacingThreshold is the share of the expected-to-date target below which a segment is behind.
	pacingThreshold = 0.8
	// abandonmentThreshold is the per-question abandonment percentage worth flagging.
	abandonmentThreshold = 35.0
	// lowScore is the theme score under which a segment gets a card.
	lowScore = 5.0
)

// Generate derives action cards from a computed result. now decides how far
// into the campaign window the pacing check looks.
func Generate(res types.AggregateResult, now time.Time) []types.ActionCard {
	var cards []types.ActionCard
	cards = append(cards, pacing(res.Daily, now)...)
	if c, ok := abandonment(res.Sessions); ok {
		cards = append(cards, c)
	}
	cards = append(cards, lowThemes(res.Segments)...)

	if len(cards) == 0 {
		return []types.ActionCard{{
			Insight: "No strong pattern detected",
			Action:  "Monitor and collect more data",
			Impact:  "Low immediate intervention",
		}}
	}
	return cards
}

func pacing(d types.DailySeries, now time.Time) []types.ActionCard {
	if d.DailyTarget <= 0 || len(d.Buckets) == 0 {
		return nil
	}
	today := now.UTC().Format("2006-01-02")
	elapsed := 0
	actual := map[string]int{}
	for _, b := range d.Buckets {
		if b.Date > today {
			break
		}
		elapsed++
		for s, n := range b.Actual {
			actual[s] += n
		}
	}
	if elapsed == 0 {
		return nil
	}
	expected := d.DailyTarget * float64(elapsed)

	segments := make([]string, 0, len(d.Buckets[0].Actual))
	for s := range d.Buckets[0].Actual {
		segments = append(segments, s)
	}
	sort.Strings(segments)

	var out []types.ActionCard
	for _, s := range segments {
		got := float64(actual[s])
		if got >= expected*pacingThreshold {
			continue
		}
		out = append(out, types.ActionCard{
			Insight: fmt.Sprintf("%s is behind pace: %d of %.0f expected responses (%.0f%%)", s, actual[s], expected, got/expected*100),
			Action:  fmt.Sprintf("Boost outreach to %s for the remaining campaign days", s),
			Impact:  fmt.Sprintf("Needs %.1f responses/day to reach %.0f", remainingRate(d, actual[s], elapsed), d.TargetPerSegment),
		})
	}
	return out
}

func remainingRate(d types.DailySeries, got, elapsed int) float64 {
	left := d.Days - elapsed
	missing := d.TargetPerSegment - float64(got)
	if left <= 0 || missing <= 0 {
		return 0
	}
	return missing / float64(left)
}

func abandonment(s types.SessionStats) (types.ActionCard, bool) {
	worst, highest := 0, 0.0
	for q := 1; q <= len(types.QuestionKeys); q++ {
		if v := s.QuestionAbandonment[q]; v > highest {
			worst, highest = q, v
		}
	}
	if worst == 0 || highest < abandonmentThreshold {
		return types.ActionCard{}, false
	}
	label := types.QuestionLabels[fmt.Sprintf("q%d", worst)]
	return types.ActionCard{
		Insight: fmt.Sprintf("High abandonment at question %d, %s (%.0f%%)", worst, label, highest),
		Action:  "Simplify the wording or answer options of this question",
		Impact:  "Raise session completion rate",
	}, true
}

func lowThemes(segments map[string]types.SegmentSummary) []types.ActionCard {
	names := make([]string, 0, len(segments))
	for s := range segments {
		names = append(names, s)
	}
	sort.Strings(names)

	var out []types.ActionCard
	for _, s := range names {
		seg := segments[s]
		if seg.Responses == 0 {
			continue
		}
		worst, score := "", 0.0
		for _, q := range types.QuestionKeys {
			v, ok := seg.Scores[q]
			if !ok {
				continue
			}
			if worst == "" || v < score {
				worst, score = q, v
			}
		}
		if worst == "" || score >= lowScore {
			continue
		}
		out = append(out, types.ActionCard{
			Insight: fmt.Sprintf("%s rates %s lowest (%.1f/10)", s, types.QuestionLabels[worst], score),
			Action:  fmt.Sprintf("Plan a targeted initiative on %s for %s", types.QuestionLabels[worst], s),
			Impact:  "Improve perception on the weakest theme",
		})
	}
	return out
}
