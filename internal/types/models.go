package types

import (
	"strings"
	"time"
)

// QuestionKeys are the six fixed survey themes, in display order.
var QuestionKeys = []string{"q1", "q2", "q3", "q4", "q5", "q6"}

// QuestionLabels maps question keys to their dashboard titles.
var QuestionLabels = map[string]string{
	"q1": "Tecnologia e Inovação",
	"q2": "Diversidade e Inclusão",
	"q3": "Sustentabilidade Ambiental",
	"q4": "Reconhecimento Público",
	"q5": "Agilidade de Resposta",
	"q6": "Parcerias e Colaboração",
}

const (
	AudienceSmallBusiness = "small_business"
	AudienceGeneralPublic = "general_public"
	AudienceAll           = "all"
)

type Metadata struct {
	UserAgent  string `json:"user_agent,omitempty"`
	Referer    string `json:"referer,omitempty"`
	Origin     string `json:"origin,omitempty"`
	PageURL    string `json:"page_url,omitempty"`
	IsComplete *bool  `json:"is_complete,omitempty"`
}

// CompleteResponse is a finished survey submission.
type CompleteResponse struct {
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	SessionID    string            `json:"session_id"`
	CampaignID   string            `json:"campaign_id,omitempty"`
	AudienceType string            `json:"audience_type,omitempty"`
	Answers      map[string]string `json:"answers"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
}

// UserAgent returns the submitting browser's user agent, or "" when metadata is absent.
func (r CompleteResponse) UserAgent() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.UserAgent
}

// ProgressiveEvent is one answered question within a multi-step submission.
type ProgressiveEvent struct {
	ID                  string            `json:"id"`
	SessionID           string            `json:"session_id"`
	Timestamp           string            `json:"timestamp"`
	CampaignID          string            `json:"campaign_id,omitempty"`
	AudienceType        string            `json:"audience_type,omitempty"`
	UserAgent           string            `json:"user_agent,omitempty"`
	Referer             string            `json:"referer,omitempty"`
	Origin              string            `json:"origin,omitempty"`
	PageURL             string            `json:"page_url,omitempty"`
	QuestionNumber      int               `json:"question_number"`
	Answer              string            `json:"answer"`
	IsComplete          bool              `json:"is_complete"`
	AllAnswers          map[string]string `json:"all_answers,omitempty"`
	CompletionTimestamp string            `json:"completion_timestamp,omitempty"`
}

// CompleteEnvelope is the body of a complete-responses endpoint.
type CompleteEnvelope struct {
	OK        bool               `json:"ok"`
	Count     int                `json:"count,omitempty"`
	Responses []CompleteResponse `json:"responses"`
	Error     string             `json:"error,omitempty"`
	Details   string             `json:"details,omitempty"`
}

// ProgressiveEnvelope is the body of the progressive-responses endpoint.
// OK is optional on this endpoint and only honoured when present.
type ProgressiveEnvelope struct {
	OK        *bool              `json:"ok,omitempty"`
	Responses []ProgressiveEvent `json:"responses"`
	Error     string             `json:"error,omitempty"`
}

// CompleteSource is one fetched batch of complete responses, labelled by origin.
type CompleteSource struct {
	Name      string
	Responses []CompleteResponse
}

// Payloads is everything fetched in one refresh cycle.
type Payloads struct {
	Complete    []CompleteSource
	Progressive []ProgressiveEvent
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp accepts the ISO-8601 shapes written by the collection backends.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
