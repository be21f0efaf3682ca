package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"survey-insights-go/internal/ingest"
	"survey-insights-go/internal/types"
)

const dateLayout = "2006-01-02"

type SegmentStrategy string

const (
	StrategyField  SegmentStrategy = "field"
	StrategyParity SegmentStrategy = "parity"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	CompleteResponsesURL    string
	CompleteResponsesV2URL  string
	ProgressiveResponsesURL string
	SnapshotPath            string

	CampaignStart    time.Time
	CampaignEnd      time.Time
	TargetPerSegment float64
	Segments         []string
	FallbackAudience string
	SegmentStrategy  SegmentStrategy
	Location         *time.Location

	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	FetchMaxRetry   time.Duration

	RecentResponses int
	RecentEvents    int
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		Environment: getenv("ENVIRONMENT", "local"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		CompleteResponsesURL:    os.Getenv("COMPLETE_RESPONSES_URL"),
		CompleteResponsesV2URL:  os.Getenv("COMPLETE_RESPONSES_V2_URL"),
		ProgressiveResponsesURL: os.Getenv("PROGRESSIVE_RESPONSES_URL"),
		SnapshotPath:            os.Getenv("SNAPSHOT_XLSX_PATH"),

		FallbackAudience: getenv("FALLBACK_AUDIENCE", types.AudienceAll),
		SegmentStrategy:  SegmentStrategy(strings.ToLower(getenv("SEGMENT_STRATEGY", string(StrategyField)))),
		Segments:         splitList(getenv("SEGMENTS", types.AudienceSmallBusiness+","+types.AudienceGeneralPublic)),
	}

	var err error
	if cfg.CampaignStart, err = date("CAMPAIGN_START", "2025-09-01"); err != nil {
		return cfg, err
	}
	if cfg.CampaignEnd, err = date("CAMPAIGN_END", "2025-10-31"); err != nil {
		return cfg, err
	}
	if cfg.CampaignEnd.Before(cfg.CampaignStart) {
		return cfg, fmt.Errorf("CAMPAIGN_END %s is before CAMPAIGN_START %s",
			cfg.CampaignEnd.Format(dateLayout), cfg.CampaignStart.Format(dateLayout))
	}
	if cfg.TargetPerSegment, err = float("TARGET_PER_SEGMENT", 1500); err != nil {
		return cfg, err
	}
	if cfg.RefreshInterval, err = duration("REFRESH_INTERVAL", 30*time.Second); err != nil {
		return cfg, err
	}
	if cfg.FetchTimeout, err = duration("FETCH_TIMEOUT", 25*time.Second); err != nil {
		return cfg, err
	}
	if cfg.FetchMaxRetry, err = duration("FETCH_MAX_RETRY", 20*time.Second); err != nil {
		return cfg, err
	}
	if cfg.RecentResponses, err = integer("RECENT_RESPONSES", 10); err != nil {
		return cfg, err
	}
	if cfg.RecentEvents, err = integer("RECENT_EVENTS", 50); err != nil {
		return cfg, err
	}
	if cfg.Location, err = location(getenv("DASHBOARD_TZ", "Local")); err != nil {
		return cfg, err
	}

	switch cfg.SegmentStrategy {
	case StrategyField, StrategyParity:
	default:
		return cfg, fmt.Errorf("SEGMENT_STRATEGY %q: want field or parity", cfg.SegmentStrategy)
	}
	if cfg.CompleteResponsesURL == "" && cfg.SnapshotPath == "" {
		return cfg, fmt.Errorf("COMPLETE_RESPONSES_URL or SNAPSHOT_XLSX_PATH must be set")
	}
	return cfg, nil
}

// SegmentAssigner returns the configured audience-segment rule.
func (c Config) SegmentAssigner() ingest.SegmentAssigner {
	if c.SegmentStrategy == StrategyParity {
		return ingest.Parity()
	}
	return ingest.Fallback(c.FallbackAudience)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func date(key, def string) (time.Time, error) {
	t, err := time.Parse(dateLayout, getenv(key, def))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

func float(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative number %q", key, v)
	}
	return f, nil
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative integer %q", key, v)
	}
	return n, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid positive duration %q", key, v)
	}
	return d, nil
}

func location(name string) (*time.Location, error) {
	if strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_TZ: %w", err)
	}
	return loc, nil
}
