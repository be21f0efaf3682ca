package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"survey-insights-go/internal/types"
)

// columns maps header positions to record fields; -1 means absent.
type columns struct {
	id, timestamp, session, campaign, audience, userAgent int

	answers map[string]int
}

func detectColumns(header []string) columns {
	c := columns{id: -1, timestamp: -1, session: -1, campaign: -1, audience: -1, userAgent: -1, answers: map[string]int{}}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		l = strings.NewReplacer(" ", "_", "-", "_").Replace(l)
		switch {
		case isQuestion(l):
			if _, ok := c.answers[l]; !ok {
				c.answers[l] = i
			}
		case strings.Contains(l, "session"):
			if c.session == -1 {
				c.session = i
			}
		case strings.Contains(l, "campaign"):
			if c.campaign == -1 {
				c.campaign = i
			}
		case strings.Contains(l, "audience"):
			if c.audience == -1 {
				c.audience = i
			}
		case l == "ua" || strings.Contains(l, "user_agent") || strings.Contains(l, "useragent"):
			if c.userAgent == -1 {
				c.userAgent = i
			}
		case l == "ts" || strings.Contains(l, "timestamp") || strings.Contains(l, "date"):
			if c.timestamp == -1 {
				c.timestamp = i
			}
		case l == "id" || l == "response_id" || l == "doc_id":
			if c.id == -1 {
				c.id = i
			}
		}
	}
	return c
}

func isQuestion(h string) bool {
	for _, q := range types.QuestionKeys {
		if h == q {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Load reads a workbook export of complete responses from path.
func Load(path string) ([]types.CompleteResponse, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return read(f)
}

// LoadReader is Load over an in-memory workbook.
func LoadReader(r io.Reader) ([]types.CompleteResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open reader: %w", err)
	}
	defer f.Close()
	return read(f)
}

// read auto-detects columns from the first sheet's header row. Rows without
// any answer are skipped quietly.
func read(f *excelize.File) ([]types.CompleteResponse, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	c := detectColumns(rows[0])
	if len(c.answers) == 0 {
		return nil, fmt.Errorf("no question columns in header")
	}

	out := make([]types.CompleteResponse, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := types.CompleteResponse{
			ID:           cell(r, c.id),
			Timestamp:    cell(r, c.timestamp),
			SessionID:    cell(r, c.session),
			CampaignID:   cell(r, c.campaign),
			AudienceType: cell(r, c.audience),
			Answers:      map[string]string{},
		}
		for q, idx := range c.answers {
			if v := cell(r, idx); v != "" {
				rec.Answers[q] = v
			}
		}
		if len(rec.Answers) == 0 {
			continue
		}
		if ua := cell(r, c.userAgent); ua != "" {
			rec.Metadata = &types.Metadata{UserAgent: ua}
		}
		out = append(out, rec)
	}
	return out, nil
}
