package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-insights-go/internal/aggregator"
	"survey-insights-go/internal/config"
	"survey-insights-go/internal/httpapi"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/pipeline"
	"survey-insights-go/internal/refresh"
	"survey-insights-go/internal/source"
)

func main() {
	cfg, err := config.Load()
	log := logger.NewWith(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("service", "survey-insights-go").Info("starting service")
	if cfg.SegmentStrategy == config.StrategyParity {
		log.Warn("SEGMENT_STRATEGY=parity assigns untagged responses by position; segment figures are simulated")
	}

	client := source.NewClient(source.Options{Timeout: cfg.FetchTimeout, MaxRetry: cfg.FetchMaxRetry}, log)
	fetcher := source.NewFetcher(client, endpoints(cfg))

	pipe := pipeline.New(fetcher, cfg.SnapshotPath, aggregator.Options{
		CampaignStart:    cfg.CampaignStart,
		CampaignEnd:      cfg.CampaignEnd,
		TargetPerSegment: cfg.TargetPerSegment,
		Segments:         cfg.Segments,
		Assign:           cfg.SegmentAssigner(),
		Location:         cfg.Location,
		RecentResponses:  cfg.RecentResponses,
		RecentEvents:     cfg.RecentEvents,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := refresh.New(pipe.Run, cfg.RefreshInterval, log)
	ctrl.Start(ctx)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.New(ctrl, log).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.WithField("addr", addr).Info("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server terminated")
		}
	}

	ctrl.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func endpoints(cfg config.Config) source.Endpoints {
	var eps source.Endpoints
	if cfg.CompleteResponsesURL != "" {
		eps.Complete = append(eps.Complete, source.Endpoint{Name: "complete", URL: cfg.CompleteResponsesURL})
	}
	if cfg.CompleteResponsesV2URL != "" {
		eps.Complete = append(eps.Complete, source.Endpoint{Name: "complete_v2", URL: cfg.CompleteResponsesV2URL})
	}
	if cfg.ProgressiveResponsesURL != "" {
		eps.Progressive = &source.Endpoint{Name: "progressive", URL: cfg.ProgressiveResponsesURL}
	}
	return eps
}
