package device

import "strings"

const (
	Mobile  = "Mobile"
	Tablet  = "Tablet"
	Desktop = "Desktop"
)

// Classify maps a user agent to Mobile, Tablet or Desktop by case-sensitive
// substring match. Mobile wins over Tablet; anything else, including "", is Desktop.
// This is an approximation, not a user-agent parser.
func Classify(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Mobile"):
		return Mobile
	case strings.Contains(userAgent, "Tablet"):
		return Tablet
	default:
		return Desktop
	}
}

// Count tallies device categories over a list of user agents.
func Count(userAgents []string) map[string]int {
	out := map[string]int{}
	for _, ua := range userAgents {
		out[Classify(ua)]++
	}
	return out
}
