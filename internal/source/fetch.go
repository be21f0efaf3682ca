package source

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"survey-insights-go/internal/types"
)

type Endpoint struct {
	Name string
	URL  string
}

// Endpoints lists every upstream read in one cycle. Progressive is optional.
type Endpoints struct {
	Complete    []Endpoint
	Progressive *Endpoint
}

// Fetcher issues all upstream requests concurrently and waits for every one.
type Fetcher struct {
	client    *Client
	endpoints Endpoints
}

func NewFetcher(client *Client, endpoints Endpoints) *Fetcher {
	return &Fetcher{client: client, endpoints: endpoints}
}

// Fetch fans out to every endpoint. The first failure cancels the rest and is
// returned; no partial payload is ever handed back.
func (f *Fetcher) Fetch(ctx context.Context) (types.Payloads, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	complete := make([]types.CompleteSource, len(f.endpoints.Complete))
	for i, ep := range f.endpoints.Complete {
		i, ep := i, ep
		g.Go(func() error {
			rs, err := f.client.FetchComplete(gctx, ep.Name, ep.URL)
			if err != nil {
				return err
			}
			complete[i] = types.CompleteSource{Name: ep.Name, Responses: rs}
			return nil
		})
	}

	var progressive []types.ProgressiveEvent
	if ep := f.endpoints.Progressive; ep != nil {
		g.Go(func() error {
			evs, err := f.client.FetchProgressive(gctx, ep.Name, ep.URL)
			if err != nil {
				return err
			}
			progressive = evs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.client.log.WithError(err).Warn("fetch cycle failed")
		return types.Payloads{}, err
	}

	p := types.Payloads{Complete: complete, Progressive: progressive}
	fields := map[string]interface{}{
		"sources":     len(complete),
		"events":      len(progressive),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	f.client.log.WithFields(fields).Info("fetch cycle complete")
	return p, nil
}
