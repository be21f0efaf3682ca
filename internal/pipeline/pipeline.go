// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"survey-insights-go/internal/actionable"
	"survey-insights-go/internal/aggregator"
	"survey-insights-go/internal/dataset"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/types"
)

// Fetcher returns one cycle's raw payloads.
type Fetcher interface {
	Fetch(ctx context.Context) (types.Payloads, error)
}

type Pipeline struct {
	fetcher      Fetcher
	snapshotPath string
	opts         aggregator.Options
	log          *logger.Logger
}

// New builds a pipeline. snapshotPath is optional; when set, the workbook is
// merged as an extra complete-responses source on every cycle.
func New(fetcher Fetcher, snapshotPath string, opts aggregator.Options, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher:      fetcher,
		snapshotPath: snapshotPath,
		opts:         opts,
		log:          log.Component("pipeline"),
	}
}

// Run fetches every source and computes the aggregate. Any source failure
// fails the whole cycle.
func (p *Pipeline) Run(ctx context.Context) (types.AggregateResult, error) {
	start := time.Now()

	payloads, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return types.AggregateResult{}, fmt.Errorf("fetch: %w", err)
	}

	if p.snapshotPath != "" {
		records, err := dataset.Load(p.snapshotPath)
		if err != nil {
			return types.AggregateResult{}, fmt.Errorf("snapshot: %w", err)
		}
		payloads.Complete = append(payloads.Complete, types.CompleteSource{Name: "snapshot", Responses: records})
	}

	opts := p.opts
	opts.Now = time.Now()
	res := aggregator.Compute(payloads, opts)
	res.Insights = actionable.Generate(res, opts.Now)

	p.log.WithField("responses", res.Totals.ProductionResponses).
		WithField("test_responses", res.Totals.TestResponses).
		WithField("events", res.Totals.ProductionEvents).
		WithField("sessions", res.Sessions.Total).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("aggregate computed")
	return res, nil
}
