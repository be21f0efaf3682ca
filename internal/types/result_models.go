// internal/types/result_models.go
package types

import "time"

// --------------------------------------------
// Final output handed to the rendering layer
// --------------------------------------------
type AggregateResult struct {
	GeneratedAt time.Time `json:"generated_at"`

	Totals    Totals                     `json:"totals"`
	Questions map[string]QuestionSummary `json:"questions"`
	Segments  map[string]SegmentSummary  `json:"segments"`
	Devices   map[string]int             `json:"devices"`

	Hourly            []HourBucket            `json:"hourly"`
	Daily             DailySeries             `json:"daily"`
	ProgressiveHourly []ProgressiveHourBucket `json:"progressive_hourly"`

	Sessions         SessionStats                `json:"sessions"`
	CampaignActivity map[string]CampaignActivity `json:"campaign_activity"`

	RecentResponses []CompleteResponse `json:"recent_responses"`
	RecentEvents    []ProgressiveEvent `json:"recent_events"`

	Insights []ActionCard `json:"insights"`
}

type Totals struct {
	Responses           int `json:"responses"`
	ProductionResponses int `json:"production_responses"`
	TestResponses       int `json:"test_responses"`
	Events              int `json:"events"`
	ProductionEvents    int `json:"production_events"`
	TestEvents          int `json:"test_events"`
}

// --------------------------------------------
// Per-question tally and scores
// --------------------------------------------
type AnswerCount struct {
	Answer string `json:"answer"`
	Count  int    `json:"count"`
}

type QuestionSummary struct {
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
	Top    []AnswerCount  `json:"top"`
	Score  float64        `json:"score"`
}

type SegmentSummary struct {
	Responses int                       `json:"responses"`
	Counts    map[string]map[string]int `json:"counts"`
	Scores    map[string]float64        `json:"scores"`
}

// --------------------------------------------
// Temporal buckets
// --------------------------------------------
type HourBucket struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

type ProgressiveHourBucket struct {
	Hour        string `json:"hour"`
	Progressive int    `json:"progressive"`
	Complete    int    `json:"complete"`
}

type DayBucket struct {
	Date   string         `json:"date"`
	Actual map[string]int `json:"actual"`
	Target float64        `json:"target"`
}

type DailySeries struct {
	Days             int         `json:"days"`
	TargetPerSegment float64     `json:"target_per_segment"`
	DailyTarget      float64     `json:"daily_target"`
	Buckets          []DayBucket `json:"buckets"`
}

// --------------------------------------------
// Progressive sessions
// --------------------------------------------
type CompletionStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Abandoned      int     `json:"abandoned"`
	CompletionRate float64 `json:"completion_rate"`
}

type SessionStats struct {
	CompletionStats
	QuestionAbandonment   map[int]float64            `json:"question_abandonment"`
	QuestionReach         map[int]int                `json:"question_reach"`
	QuestionDropOff       map[int]float64            `json:"question_drop_off"`
	Campaigns             map[string]CompletionStats `json:"campaigns"`
	Devices               map[string]int             `json:"devices"`
	Answers               map[int]map[string]int     `json:"answers"`
	AvgSecondsPerQuestion float64                    `json:"avg_seconds_per_question"`
}

type CampaignActivity struct {
	Responses   int `json:"responses"`
	Progressive int `json:"progressive"`
	Completed   int `json:"completed"`
}

// --------------------------------------------
// Action cards
// --------------------------------------------
type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}
