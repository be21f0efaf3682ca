package filter

import (
	"strings"

	"survey-insights-go/internal/types"
)

// IsSynthetic reports whether a record looks like test or scripted traffic:
// "test" in the campaign or session id (any case), or a curl user agent.
// Empty fields never match.
func IsSynthetic(campaignID, sessionID, userAgent string) bool {
	if strings.Contains(strings.ToLower(campaignID), "test") {
		return true
	}
	if strings.Contains(strings.ToLower(sessionID), "test") {
		return true
	}
	return strings.Contains(userAgent, "curl")
}

// Responses splits complete responses into production and test sets.
// The two sets partition the input and keep its order.
func Responses(in []types.CompleteResponse) (production, test []types.CompleteResponse) {
	production = make([]types.CompleteResponse, 0, len(in))
	for _, r := range in {
		if IsSynthetic(r.CampaignID, r.SessionID, r.UserAgent()) {
			test = append(test, r)
			continue
		}
		production = append(production, r)
	}
	return production, test
}

// Events applies the same heuristic to progressive events.
func Events(in []types.ProgressiveEvent) (production, test []types.ProgressiveEvent) {
	production = make([]types.ProgressiveEvent, 0, len(in))
	for _, e := range in {
		if IsSynthetic(e.CampaignID, e.SessionID, e.UserAgent) {
			test = append(test, e)
			continue
		}
		production = append(production, e)
	}
	return production, test
}
