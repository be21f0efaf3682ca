package ingest

import (
	"testing"

	"survey-insights-go/internal/types"
)

func TestNormalizeConcatenatesAndDefaults(t *testing.T) {
	sources := []types.CompleteSource{
		{Name: "v1", Responses: []types.CompleteResponse{{ID: "a"}, {ID: "b", AudienceType: "small_business"}}},
		{Name: "empty"},
		{Name: "v2", Responses: []types.CompleteResponse{{ID: "a"}}},
	}
	got := Normalize(sources, Fallback("all"))
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	wantIDs := []string{"a", "b", "a"}
	wantAud := []string{"all", "small_business", "all"}
	for i := range got {
		if got[i].ID != wantIDs[i] || got[i].AudienceType != wantAud[i] {
			t.Errorf("record %d = (%s,%s), want (%s,%s)", i, got[i].ID, got[i].AudienceType, wantIDs[i], wantAud[i])
		}
	}
	if sources[0].Responses[0].AudienceType != "" {
		t.Fatal("input was mutated")
	}
}

func TestNormalizeNilAssignerDefaultsToAll(t *testing.T) {
	got := Normalize([]types.CompleteSource{{Responses: []types.CompleteResponse{{ID: "x"}}}}, nil)
	if got[0].AudienceType != types.AudienceAll {
		t.Fatalf("got %q, want %q", got[0].AudienceType, types.AudienceAll)
	}
}

func TestParityUsesMergedIndex(t *testing.T) {
	sources := []types.CompleteSource{
		{Responses: []types.CompleteResponse{{ID: "0"}, {ID: "1", AudienceType: "general_public"}}},
		{Responses: []types.CompleteResponse{{ID: "2"}, {ID: "3"}}},
	}
	got := Normalize(sources, Parity())
	want := []string{"small_business", "general_public", "small_business", "general_public"}
	for i := range got {
		if got[i].AudienceType != want[i] {
			t.Errorf("record %d: got %q, want %q", i, got[i].AudienceType, want[i])
		}
	}
}

func TestSegments(t *testing.T) {
	recs := []types.CompleteResponse{
		{ID: "1", AudienceType: "a"}, {ID: "2", AudienceType: "b"}, {ID: "3", AudienceType: "a"},
	}
	seg := Segments(recs)
	if len(seg["a"]) != 2 || seg["a"][1].ID != "3" || len(seg["b"]) != 1 {
		t.Fatalf("unexpected segments: %+v", seg)
	}
}
