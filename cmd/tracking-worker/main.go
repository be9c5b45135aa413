package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aukawellness/studio-api/cmd/mainconfig"
	appconfig "github.com/aukawellness/studio-api/internal/config"
	"github.com/aukawellness/studio-api/internal/observability/metrics"
	"github.com/aukawellness/studio-api/internal/tracking"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// The tracking worker drains the conversion event queue and delivers each
// event to the configured sinks. It runs separately from the API server so a
// slow ad platform never holds up a booking response.
func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting tracking worker", "env", cfg.Env, "workers", cfg.TrackingWorkerCount)

	if cfg.TrackingQueueURL == "" {
		logger.Error("TRACKING_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	queue := tracking.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TrackingQueueURL)

	trackingMetrics := metrics.NewTrackingMetrics(prometheus.NewRegistry())
	sinks := []tracking.Sink{
		tracking.NewPixelSink(cfg.PixelEndpoint, cfg.PixelID, nil, logger),
		tracking.NewConversionsAPISink(cfg.ConversionsAPIURL, cfg.ConversionsAPIToken, cfg.TrackingTestCode, nil, logger),
	}
	facade := tracking.NewFacade(sinks, logger, trackingMetrics, cfg.TrackingSendTimeout)

	workers := cfg.TrackingWorkerCount
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		dispatcher := tracking.NewDispatcher(queue, facade, logger.Named("dispatcher"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Run(ctx)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down tracking worker...")
	cancel()
	wg.Wait()
	logger.Info("tracking worker stopped")
}
