package aggregator

import (
	"sort"

	"survey-insights-go/internal/types"
)

// AnswerTally counts answer codes for one question and remembers the order in
// which codes were first seen, so rankings are deterministic.
type AnswerTally struct {
	Counts map[string]int
	order  []string
}

func newAnswerTally() *AnswerTally {
	return &AnswerTally{Counts: map[string]int{}}
}

func (t *AnswerTally) add(answer string) {
	if _, ok := t.Counts[answer]; !ok {
		t.order = append(t.order, answer)
	}
	t.Counts[answer]++
}

// Top returns the n most frequent answers; equal counts keep first-seen order.
// n <= 0 returns all answers.
func (t *AnswerTally) Top(n int) []types.AnswerCount {
	out := make([]types.AnswerCount, 0, len(t.order))
	for _, a := range t.order {
		out = append(out, types.AnswerCount{Answer: a, Count: t.Counts[a]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Tally counts observed answers per question. Missing or empty answers are
// skipped; unobserved codes never appear.
func Tally(records []types.CompleteResponse, questions []string) map[string]*AnswerTally {
	out := make(map[string]*AnswerTally, len(questions))
	for _, q := range questions {
		out[q] = newAnswerTally()
	}
	for _, r := range records {
		for _, q := range questions {
			a := r.Answers[q]
			if a == "" {
				continue
			}
			out[q].add(a)
		}
	}
	return out
}

// TallyBySegment runs Tally over each audience segment's subset.
func TallyBySegment(records []types.CompleteResponse, segments, questions []string) map[string]map[string]*AnswerTally {
	bySeg := map[string][]types.CompleteResponse{}
	for _, r := range records {
		bySeg[r.AudienceType] = append(bySeg[r.AudienceType], r)
	}
	out := make(map[string]map[string]*AnswerTally, len(segments))
	for _, s := range segments {
		out[s] = Tally(bySeg[s], questions)
	}
	return out
}

// Counts flattens tallies into plain question -> answer -> count maps.
func Counts(tallies map[string]*AnswerTally) map[string]map[string]int {
	out := make(map[string]map[string]int, len(tallies))
	for q, t := range tallies {
		m := make(map[string]int, len(t.Counts))
		for a, c := range t.Counts {
			m[a] = c
		}
		out[q] = m
	}
	return out
}
