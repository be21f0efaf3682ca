package scoring

import (
	"math"
	"testing"
)

func TestScoreEmpty(t *testing.T) {
	if got := Score(nil); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := Score(map[string]int{}); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestScoreSingleTop(t *testing.T) {
	if got := Score(map[string]int{"sempre": 1}); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestScoreWeighted(t *testing.T) {
	// (10*2 + 4*1 + 0*1) / 4 = 6
	got := Score(map[string]int{"sempre": 2, "raro": 1, "nao_sei": 1})
	if math.Abs(got-6) > 1e-9 {
		t.Fatalf("got %v, want 6", got)
	}
}

func TestScoreUnmappedIsZero(t *testing.T) {
	if got := Score(map[string]int{"nunca": 3}); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	known := []string{}
	for code := range table {
		known = append(known, code)
	}
	for i := range known {
		counts := map[string]int{}
		for j := 0; j <= i; j++ {
			counts[known[j]] = j + 1
		}
		got := Score(counts)
		if got < 0 || got > 10 {
			t.Fatalf("score %v out of [0,10] for %v", got, counts)
		}
	}
}

func TestScoreQuestions(t *testing.T) {
	tally := map[string]map[string]int{
		"q1": {"sempre": 1},
		"q2": {"alguma": 1, "pouco": 1},
	}
	got := ScoreQuestions(tally, []string{"q1", "q2", "q3"})
	if got["q1"] != 10 || math.Abs(got["q2"]-5.5) > 1e-9 || got["q3"] != 0 {
		t.Fatalf("unexpected scores: %v", got)
	}
}
