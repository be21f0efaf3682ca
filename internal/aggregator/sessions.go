package aggregator

import (
	"sort"
	"time"

	"survey-insights-go/internal/device"
	"survey-insights-go/internal/types"
)

// QuestionCount is the number of survey steps a progressive session can reach.
const QuestionCount = 6

const unknownCampaign = "unknown"

type session struct {
	reached  map[int]bool
	complete bool
	times    []time.Time
}

func groupSessions(events []types.ProgressiveEvent) map[string]*session {
	out := map[string]*session{}
	for _, e := range events {
		if e.SessionID == "" {
			continue
		}
		s, ok := out[e.SessionID]
		if !ok {
			s = &session{reached: map[int]bool{}}
			out[e.SessionID] = s
		}
		if e.QuestionNumber >= 1 && e.QuestionNumber <= QuestionCount {
			s.reached[e.QuestionNumber] = true
		}
		if e.IsComplete {
			s.complete = true
		}
		if t, ok := types.ParseTimestamp(e.Timestamp); ok {
			s.times = append(s.times, t)
		}
	}
	return out
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func completion(sessions map[string]*session) types.CompletionStats {
	st := types.CompletionStats{Total: len(sessions)}
	for _, s := range sessions {
		if s.complete {
			st.Completed++
		}
	}
	st.Abandoned = st.Total - st.Completed
	st.CompletionRate = rate(st.Completed, st.Total)
	return st
}

// Sessions reconstructs session state from progressive events. A session is
// complete when any of its events is complete; otherwise it counts as
// abandoned as of this snapshot. Events without a session id are only counted
// in the device and answer breakdowns.
func Sessions(events []types.ProgressiveEvent) types.SessionStats {
	sessions := groupSessions(events)
	st := types.SessionStats{
		CompletionStats:     completion(sessions),
		QuestionAbandonment: make(map[int]float64, QuestionCount),
		QuestionReach:       make(map[int]int, QuestionCount),
		QuestionDropOff:     make(map[int]float64, QuestionCount),
		Campaigns:           map[string]types.CompletionStats{},
		Devices:             map[string]int{},
		Answers:             make(map[int]map[string]int, QuestionCount),
	}

	// Of the sessions that got to q, how many never finished.
	for q := 1; q <= QuestionCount; q++ {
		reached, unfinished := 0, 0
		for _, s := range sessions {
			if !s.reached[q] {
				continue
			}
			reached++
			if !s.complete {
				unfinished++
			}
		}
		st.QuestionReach[q] = reached
		st.QuestionAbandonment[q] = rate(unfinished, reached)
		st.QuestionDropOff[q] = rate(st.Total-reached, st.Total)
		st.Answers[q] = map[string]int{}
	}

	byCampaign := map[string][]types.ProgressiveEvent{}
	for _, e := range events {
		c := e.CampaignID
		if c == "" {
			c = unknownCampaign
		}
		byCampaign[c] = append(byCampaign[c], e)

		st.Devices[device.Classify(e.UserAgent)]++
		if e.QuestionNumber >= 1 && e.QuestionNumber <= QuestionCount && e.Answer != "" {
			st.Answers[e.QuestionNumber][e.Answer]++
		}
	}
	for c, evs := range byCampaign {
		st.Campaigns[c] = completion(groupSessions(evs))
	}

	st.AvgSecondsPerQuestion = avgStepSeconds(sessions)
	return st
}

// avgStepSeconds is the mean gap between consecutive events of a session.
func avgStepSeconds(sessions map[string]*session) float64 {
	var total time.Duration
	gaps := 0
	for _, s := range sessions {
		if len(s.times) < 2 {
			continue
		}
		ts := append([]time.Time(nil), s.times...)
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
		for i := 1; i < len(ts); i++ {
			total += ts[i].Sub(ts[i-1])
			gaps++
		}
	}
	if gaps == 0 {
		return 0
	}
	return total.Seconds() / float64(gaps)
}
