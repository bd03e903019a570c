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

	"github.com/hibiken/asynq"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"atlas/internal/app"
	"atlas/internal/booking"
	"atlas/internal/config"
	"atlas/internal/handler"
	"atlas/internal/middleware"
	internalRedis "atlas/internal/redis"
	"atlas/internal/repository"
	"atlas/internal/repository/catalog"
	"atlas/internal/repository/firestore"
	"atlas/internal/repository/mongo"
	"atlas/internal/repository/postgres"
	"atlas/internal/service"
	"atlas/internal/worker"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger := app.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before the stores so we can instrument them).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Initialize the booking store.
	bookingRepo, closeStore, err := openBookingStore(ctx, cfg, nrApp)
	if err != nil {
		logger.Fatal("failed to open booking store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()
	logger.Info("booking store ready", zap.String("backend", cfg.Store.Backend))

	// Load the activity catalog.
	activities, err := catalog.Load(cfg.Booking.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load activity catalog", zap.String("path", cfg.Booking.CatalogPath), zap.Error(err))
	}

	voucher := service.NewVoucherService(cfg.Booking.CompanyName)

	// Start the notification worker when delivery is asynchronous.
	notifier, notifyWorker, closeQueue := wireNotifier(cfg, logger, voucher)
	defer closeQueue()
	if notifyWorker != nil {
		if err := notifyWorker.Start(); err != nil {
			logger.Fatal("failed to start notification worker", zap.Error(err))
		}
		logger.Info("notification worker started")
	}

	// Wire dependencies.
	server, err := wireServer(cfg, logger, redisClient, nrApp, activities, bookingRepo, notifier, voucher)
	if err != nil {
		logger.Fatal("failed to wire server", zap.Error(err))
	}

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if notifyWorker != nil {
		notifyWorker.Shutdown()
	}

	logger.Info("server exited")
}

// openBookingStore connects the configured backend and returns its repository with a close func.
func openBookingStore(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application) (repository.BookingRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, nil, err
		}
		if err := app.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewBookingRepository(db), func() { db.Close() }, nil

	case config.StoreFirestore:
		client, err := app.NewFirestoreClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		return firestore.NewBookingRepository(client, cfg.Firestore.Collection), func() { client.Close() }, nil

	case config.StoreMongo:
		client, err := app.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewBookingRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// wireNotifier builds the delivery channels. With async delivery the returned notifier only enqueues
// and the worker does the sending.
func wireNotifier(cfg *config.Config, logger *zap.Logger, voucher *service.VoucherService) (service.Notifier, *worker.Server, func()) {

	var channels []service.Channel
	if cfg.Notification.WebhookURL != "" {
		channels = append(channels, service.NewWebhookChannel(cfg.Notification.WebhookURL, cfg.Notification.WebhookTimeout))
	}
	if cfg.SMTP.Host != "" {
		sender := service.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		channels = append(channels, service.NewEmailChannel(sender, cfg.SMTP.From, voucher))
	}
	notifications := service.NewNotificationService(logger, channels...)

	if !cfg.Notification.Async {
		return notifications, nil, func() {}
	}

	redisOpt := worker.RedisOpt(cfg.Redis)
	client := asynq.NewClient(redisOpt)
	srv := worker.NewServer(redisOpt, notifications, logger)
	return worker.NewAsyncNotifier(client, cfg.Notification.MaxRetry, logger), srv, func() { client.Close() }
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	cfg *config.Config,
	logger *zap.Logger,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	activityRepo repository.ActivityRepository,
	bookingRepo repository.BookingRepository,
	notifier service.Notifier,
	voucher *service.VoucherService,
) (*http.Server, error) {
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Booking.Timezone, err)
	}
	defaultPolicy, err := booking.ParseChildDiscountPolicy(cfg.Booking.ChildDiscountPolicy)
	if err != nil {
		return nil, err
	}

	calendar := booking.NewCalendar(loc)
	references := booking.NewReferenceGenerator(cfg.Booking.ReferencePrefix, cfg.Booking.ReferenceLength, booking.NewRandomSource())

	// Initialize Redis stores.
	wizardStore := internalRedis.NewWizardStore(redisClient, cfg.Booking.SessionTTL)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize services.
	gateway := service.NewSubmissionGateway(bookingRepo, notifier, logger)
	activityService := service.NewActivityService(activityRepo, defaultPolicy)
	wizardService := service.NewWizardService(service.WizardServiceDeps{
		ActivityRepo: activityRepo,
		Sessions:     wizardStore,
		Locks:        lockStore,
		Submitter:    gateway,
		Calendar:     calendar,
		References:   references,
		Options: booking.WizardOptions{
			DefaultPolicy:  defaultPolicy,
			MaxPerCategory: cfg.Booking.MaxGuestsPerCategory,
		},
		LockTTL: cfg.Booking.LockTTL,
		Logger:  logger,
	})

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ActivityHandler: handler.NewActivityHandler(activityService),
		CalendarHandler: handler.NewCalendarHandler(calendar),
		WizardHandler:   handler.NewWizardHandler(wizardService, calendar),
		BookingHandler:  handler.NewBookingHandler(wizardService, bookingRepo, voucher, calendar),
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, logger),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Logger:          logger,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
