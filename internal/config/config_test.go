package config

import (
	"testing"
	"time"

	"survey-insights-go/internal/types"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("COMPLETE_RESPONSES_URL", "http://example.test/responses")
	for _, k := range []string{"CAMPAIGN_START", "CAMPAIGN_END", "TARGET_PER_SEGMENT", "REFRESH_INTERVAL", "SEGMENT_STRATEGY", "SEGMENTS", "DASHBOARD_TZ", "RECENT_RESPONSES", "RECENT_EVENTS"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.CampaignStart != time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("campaign start = %v", cfg.CampaignStart)
	}
	if cfg.TargetPerSegment != 1500 || cfg.RefreshInterval != 30*time.Second {
		t.Errorf("target %v interval %v", cfg.TargetPerSegment, cfg.RefreshInterval)
	}
	if len(cfg.Segments) != 2 || cfg.Segments[0] != types.AudienceSmallBusiness {
		t.Errorf("segments = %v", cfg.Segments)
	}
	if cfg.SegmentStrategy != StrategyField || cfg.Location != time.Local {
		t.Errorf("strategy %q location %v", cfg.SegmentStrategy, cfg.Location)
	}
	if cfg.RecentResponses != 10 || cfg.RecentEvents != 50 {
		t.Errorf("recent %d/%d", cfg.RecentResponses, cfg.RecentEvents)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CAMPAIGN_START", "09/01/2025"},
		{"CAMPAIGN_END", "2025-08-01"},
		{"TARGET_PER_SEGMENT", "-3"},
		{"REFRESH_INTERVAL", "soon"},
		{"RECENT_EVENTS", "x"},
		{"SEGMENT_STRATEGY", "random"},
		{"DASHBOARD_TZ", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("COMPLETE_RESPONSES_URL", "http://example.test/responses")
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestFromEnvRequiresASource(t *testing.T) {
	t.Setenv("COMPLETE_RESPONSES_URL", "")
	t.Setenv("SNAPSHOT_XLSX_PATH", "")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error without any complete-responses source")
	}
}

func TestSegmentAssigner(t *testing.T) {
	untagged := types.CompleteResponse{}
	field := Config{SegmentStrategy: StrategyField, FallbackAudience: types.AudienceAll}
	if got := field.SegmentAssigner()(untagged, 1); got != types.AudienceAll {
		t.Errorf("field fallback = %q", got)
	}
	parity := Config{SegmentStrategy: StrategyParity}
	if got := parity.SegmentAssigner()(untagged, 0); got != types.AudienceSmallBusiness {
		t.Errorf("parity even = %q", got)
	}
	if got := parity.SegmentAssigner()(untagged, 1); got != types.AudienceGeneralPublic {
		t.Errorf("parity odd = %q", got)
	}
}
