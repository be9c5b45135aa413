package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aukawellness/studio-api/cmd/mainconfig"
	"github.com/aukawellness/studio-api/internal/admin"
	"github.com/aukawellness/studio-api/internal/api/router"
	"github.com/aukawellness/studio-api/internal/bookings"
	"github.com/aukawellness/studio-api/internal/checkout"
	appconfig "github.com/aukawellness/studio-api/internal/config"
	"github.com/aukawellness/studio-api/internal/coupons"
	"github.com/aukawellness/studio-api/internal/funnel"
	"github.com/aukawellness/studio-api/internal/giftcards"
	"github.com/aukawellness/studio-api/internal/notify"
	"github.com/aukawellness/studio-api/internal/observability/metrics"
	"github.com/aukawellness/studio-api/internal/orders"
	"github.com/aukawellness/studio-api/internal/schedule"
	"github.com/aukawellness/studio-api/internal/tracking"
	"github.com/aukawellness/studio-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting studio API server", "env", cfg.Env, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, funnelMetrics, bookingMetrics, trackingMetrics := setupMetrics()

	rdb := newRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}

	// Repositories: postgres when a database is configured, memory otherwise.
	var offeringsRepo schedule.Repository
	var bookingsRepo bookings.Repository
	var couponsRepo coupons.Repository
	var ordersRepo orders.Repository
	var giftCardsRepo giftcards.Repository
	var linksRepo checkout.Repository
	if pool != nil {
		offeringsRepo = schedule.NewPostgresRepository(pool)
		bookingsRepo = bookings.NewPostgresRepository(pool)
		couponsRepo = coupons.NewPostgresRepository(pool)
		ordersRepo = orders.NewPostgresRepository(pool)
		giftCardsRepo = giftcards.NewPostgresRepository(pool)
		linksRepo = checkout.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		offeringsRepo = schedule.NewInMemoryRepository()
		bookingsRepo = bookings.NewInMemoryRepository()
		couponsRepo = coupons.NewInMemoryRepository()
		ordersRepo = orders.NewInMemoryRepository()
		giftCardsRepo = giftcards.NewInMemoryRepository()
		linksRepo = checkout.NewInMemoryRepository()
	}

	tracker, stopDispatcher := setupTracking(ctx, cfg, trackingMetrics, logger.Named("tracking"))
	eventIDs := tracking.NewEventIDStore(rdb, cfg.FunnelSessionTTL)

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), "Auka Wellness", cfg.PublicBaseURL, logger)

	var limiter *bookings.AttemptLimiter
	if rdb != nil {
		limiter = bookings.NewAttemptLimiter(rdb, cfg.MaxBookingsPerEmail, time.Duration(cfg.BookingWindowHours)*time.Hour, logger)
	}
	bookingService := bookings.NewService(bookingsRepo, limiter, tracker, eventIDs, notifier, bookingMetrics, cfg.DefaultCurrency, logger)

	dates := schedule.NewDateGenerator(cfg.StudioTimezone, cfg.TrialWindowDays, logger)

	var sessionStore funnel.SessionStore
	if rdb != nil {
		sessionStore = funnel.NewRedisSessionStore(rdb, cfg.FunnelSessionTTL)
	} else {
		sessionStore = funnel.NewMemorySessionStore()
	}
	funnelService := funnel.NewService(sessionStore, offeringsRepo, dates, bookingService, tracker, eventIDs, funnelMetrics, cfg.DefaultCurrency, logger)

	coordinator := checkout.NewCoordinator(cfg.CheckoutDelay, func(r checkout.Redirect) {
		logger.Info("checkout navigation fired", "url", r.URL, "plan", r.PlanLabel)
	}, logger)
	defer coordinator.Close()

	adminDB := openAdminDB(cfg.DatabaseURL, logger)
	if adminDB != nil {
		defer adminDB.Close()
	}

	routerCfg := &router.Config{
		Logger:             logger,
		ScheduleHandler:    schedule.NewHandler(offeringsRepo, dates, logger),
		FunnelHandler:      funnel.NewHandler(funnelService, logger),
		BookingsHandler:    bookings.NewHandler(bookingService, logger),
		CouponsHandler:     coupons.NewHandler(coupons.NewService(couponsRepo, logger), logger),
		OrdersHandler:      newOrdersHandler(cfg, ordersRepo, logger),
		GiftCardsHandler:   giftcards.NewHandler(giftCardsRepo, cfg.GiftCardRendererURL, logger),
		CheckoutHandler:    checkout.NewHandler(linksRepo, coordinator, cfg.CheckoutProviderBase, logger),
		AdminRoleHandler:   admin.NewRoleHandler(cfg.AdminJWTSecret, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PublicRateLimit:    5,
		PublicRateBurst:    20,
	}
	if adminDB != nil {
		routerCfg.AdminBookingsHandler = admin.NewBookingsHandler(adminDB, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	cancel()
	stopDispatcher()

	logger.Info("server stopped")
}

// setupMetrics builds the prometheus registry and the metric sets shared by
// the funnel, booking, and tracking pipelines.
func setupMetrics() (http.Handler, *metrics.FunnelMetrics, *metrics.BookingMetrics, *metrics.TrackingMetrics) {
	reg := prometheus.NewRegistry()
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewFunnelMetrics(reg), metrics.NewBookingMetrics(reg), metrics.NewTrackingMetrics(reg)
}

func newRedisClient(cfg *appconfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// openAdminDB opens a separate database/sql connection for the back-office
// report queries.
func openAdminDB(databaseURL string, logger *logging.Logger) *sql.DB {
	if databaseURL == "" {
		return nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open admin db", "error", err)
		return nil
	}
	db.SetMaxOpenConns(4)
	return db
}

// setupTracking builds the conversion pipeline: events are published to a
// queue and a dispatcher drains them into the configured sinks. With the
// memory queue the dispatcher runs in-process; with SQS it runs in
// cmd/tracking-worker. The returned stop function waits for the in-process
// dispatcher, when there is one.
func setupTracking(ctx context.Context, cfg *appconfig.Config, m *metrics.TrackingMetrics, logger *logging.Logger) (tracking.Tracker, func()) {
	facade := buildFacade(cfg, m, logger)

	if cfg.UseMemoryQueue || cfg.TrackingQueueURL == "" {
		queue := tracking.NewMemoryQueue(256)
		dispatcher := tracking.NewDispatcher(queue, facade, logger)
		done := make(chan struct{})
		go func() {
			defer close(done)
			dispatcher.Run(ctx)
		}()
		return tracking.NewPublisher(queue, logger), func() { <-done }
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config, tracking delivered in-process", "error", err)
		return facade, func() {}
	}
	queue := tracking.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TrackingQueueURL)
	return tracking.NewPublisher(queue, logger), func() {}
}

func buildFacade(cfg *appconfig.Config, m *metrics.TrackingMetrics, logger *logging.Logger) *tracking.Facade {
	sinks := []tracking.Sink{
		tracking.NewPixelSink(cfg.PixelEndpoint, cfg.PixelID, nil, logger),
		tracking.NewConversionsAPISink(cfg.ConversionsAPIURL, cfg.ConversionsAPIToken, cfg.TrackingTestCode, nil, logger),
	}
	return tracking.NewFacade(sinks, logger, m, cfg.TrackingSendTimeout)
}

func newOrdersHandler(cfg *appconfig.Config, repo orders.Repository, logger *logging.Logger) *orders.Handler {
	service := orders.NewService(repo, logger)
	poller := orders.NewStatusPoller(service, cfg.OrderPollInterval, cfg.OrderPollMax, logger)
	return orders.NewHandler(service, logger).WithPoller(poller)
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
