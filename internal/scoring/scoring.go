package scoring

// Tier values assigned to answer codes.
const (
	TierTop    = 10
	TierHigh   = 7
	TierLow    = 4
	TierUnsure = 0
)

var table = map[string]int{
	"sempre":           TierTop,
	"engajado":         TierTop,
	"muito_engajado":   TierTop,
	"muito_agil":       TierTop,
	"muitas_parcerias": TierTop,
	"muito_util":       TierTop,

	"maioria":           TierHigh,
	"alguma":            TierHigh,
	"as_vezes":          TierHigh,
	"algumas":           TierHigh,
	"algumas_parcerias": TierHigh,
	"agil":              TierHigh,
	"util":              TierHigh,

	"raro":             TierLow,
	"raramente":        TierLow,
	"pouco":            TierLow,
	"demora":           TierLow,
	"poucas_parcerias": TierLow,
	"pouco_engajado":   TierLow,
	"lento":            TierLow,
	"pouco_util":       TierLow,
	"neutro":           TierLow,

	"nao_sei": TierUnsure,
}

// AnswerScore returns the tier for an answer code; unmapped codes score 0.
func AnswerScore(answer string) int {
	return table[answer]
}

// Score is the count-weighted mean tier of an answer histogram, 0 when empty.
func Score(counts map[string]int) float64 {
	sum, n := 0, 0
	for answer, c := range counts {
		if c <= 0 {
			continue
		}
		sum += AnswerScore(answer) * c
		n += c
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// ScoreQuestions scores every question of a question -> answer histogram.
func ScoreQuestions(tally map[string]map[string]int, questions []string) map[string]float64 {
	out := make(map[string]float64, len(questions))
	for _, q := range questions {
		out[q] = Score(tally[q])
	}
	return out
}
