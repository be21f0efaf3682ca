package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"
	"survey-insights-go/internal/types"
)

const (
	SheetSummary   = "Summary"
	SheetQuestions = "Questions"
	SheetSegments  = "Segments"
	SheetHourly    = "Hourly"
	SheetDaily     = "Daily"
	SheetSessions  = "Sessions"
	SheetCampaigns = "Campaigns"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) add(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	if len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

// Build renders an AggregateResult as a workbook, one sheet per view.
func Build(res types.AggregateResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetQuestions, SheetSegments, SheetHourly, SheetDaily, SheetSessions, SheetCampaigns} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	writers := []func(*excelize.File, types.AggregateResult) error{
		summarySheet, questionsSheet, segmentsSheet, hourlySheet, dailySheet, sessionsSheet, campaignsSheet,
	}
	for _, write := range writers {
		if err := write(f, res); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for res to w.
func Write(w io.Writer, res types.AggregateResult) error {
	f, err := Build(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summarySheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetSummary}
	w.add("Metric", "Value")
	w.add("Generated at", res.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	w.add("Responses", res.Totals.Responses)
	w.add("Production responses", res.Totals.ProductionResponses)
	w.add("Test responses", res.Totals.TestResponses)
	w.add("Progressive events", res.Totals.Events)
	w.add("Test events", res.Totals.TestEvents)
	w.add("Sessions", res.Sessions.Total)
	w.add("Completed sessions", res.Sessions.Completed)
	w.add("Abandoned sessions", res.Sessions.Abandoned)
	w.add("Completion rate (%)", res.Sessions.CompletionRate)
	w.add("Avg seconds per question", res.Sessions.AvgSecondsPerQuestion)
	for _, d := range sortedKeys(res.Devices) {
		w.add("Device: "+d, res.Devices[d])
	}
	if len(res.Insights) > 0 {
		w.add()
		w.add("Insight", "Action", "Impact")
		for _, c := range res.Insights {
			w.add(c.Insight, c.Action, c.Impact)
		}
	}
	return w.err
}

func questionsSheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetQuestions}
	w.add("Question", "Label", "Answer", "Count", "Score")
	for _, q := range types.QuestionKeys {
		qs := res.Questions[q]
		for _, a := range sortedKeys(qs.Counts) {
			w.add(q, qs.Label, a, qs.Counts[a], qs.Score)
		}
	}
	return w.err
}

func segmentsSheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetSegments}
	w.add("Segment", "Responses", "Question", "Score")
	for _, s := range sortedKeys(res.Segments) {
		seg := res.Segments[s]
		for _, q := range types.QuestionKeys {
			w.add(s, seg.Responses, q, seg.Scores[q])
		}
	}
	return w.err
}

func hourlySheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetHourly}
	w.add("Hour", "Responses", "Progressive", "Completed")
	for i, h := range res.Hourly {
		prog, done := 0, 0
		if i < len(res.ProgressiveHourly) {
			prog, done = res.ProgressiveHourly[i].Progressive, res.ProgressiveHourly[i].Complete
		}
		w.add(h.Hour, h.Count, prog, done)
	}
	return w.err
}

func dailySheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetDaily}
	segs := []string{}
	if len(res.Daily.Buckets) > 0 {
		segs = sortedKeys(res.Daily.Buckets[0].Actual)
	}
	header := []interface{}{"Date"}
	for _, s := range segs {
		header = append(header, s)
	}
	header = append(header, "Daily target")
	w.add(header...)
	for _, b := range res.Daily.Buckets {
		row := []interface{}{b.Date}
		for _, s := range segs {
			row = append(row, b.Actual[s])
		}
		row = append(row, b.Target)
		w.add(row...)
	}
	return w.err
}

func sessionsSheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetSessions}
	w.add("Question", "Sessions reached", "Abandonment (%)", "Drop-off (%)")
	for q := 1; q <= len(types.QuestionKeys); q++ {
		w.add("q"+strconv.Itoa(q), res.Sessions.QuestionReach[q], res.Sessions.QuestionAbandonment[q], res.Sessions.QuestionDropOff[q])
	}
	return w.err
}

func campaignsSheet(f *excelize.File, res types.AggregateResult) error {
	w := &sheetWriter{f: f, sheet: SheetCampaigns}
	w.add("Campaign", "Responses", "Progressive events", "Completing events", "Sessions", "Completed sessions", "Completion rate (%)")
	names := map[string]bool{}
	for c := range res.CampaignActivity {
		names[c] = true
	}
	for c := range res.Sessions.Campaigns {
		names[c] = true
	}
	for _, c := range sortedKeys(names) {
		a := res.CampaignActivity[c]
		s := res.Sessions.Campaigns[c]
		w.add(c, a.Responses, a.Progressive, a.Completed, s.Total, s.Completed, s.CompletionRate)
	}
	return w.err
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
