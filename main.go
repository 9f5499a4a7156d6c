// File: studyspace/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyspace/config"
	"studyspace/cron"
	"studyspace/database"
	bookingRepo "studyspace/database/repository/booking"
	settingsRepo "studyspace/database/repository/settings"
	transactionRepo "studyspace/database/repository/transaction"
	"studyspace/handlers"
	"studyspace/middleware"
	"studyspace/routes"
	"studyspace/services/notification"
	"studyspace/services/payment"
	"studyspace/services/tasks"
	"studyspace/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	utils.InitMetrics()

	shutdownTracing, err := utils.InitTracing(rootCtx, config.AppConfig.ServiceName, config.AppConfig.OTLPEndpoint)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize tracing: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories.
	db := database.Database()
	txRepo := transactionRepo.NewMongoTransactionRepo(db.Collection(config.AppConfig.TransactionsCollection))
	bookings := bookingRepo.NewRegistry(
		bookingRepo.NewCabinBookingRepo(db.Collection(config.AppConfig.CabinBookingsCollection)),
		bookingRepo.NewHostelBookingRepo(db.Collection(config.AppConfig.HostelBookingsCollection)),
	)
	settings := settingsRepo.NewMongoSettingsRepo(db.Collection(config.AppConfig.SettingsCollection))

	indexCtx, cancelIndex := context.WithTimeout(rootCtx, 30*time.Second)
	if err := txRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("main: failed to ensure transaction indexes", zap.Error(err))
	}
	cancelIndex()

	// booking leases.
	var locker utils.Locker
	var redisClients []*redis.Client
	if config.AppConfig.RedisEnabled {
		lockClient := utils.GetLockClient()
		redisClients = append(redisClients, lockClient)
		locker = utils.NewRedisLocker(
			lockClient,
			time.Duration(config.AppConfig.BookingLockTTLSeconds)*time.Second,
			time.Duration(config.AppConfig.BookingLockWaitMillis)*time.Millisecond,
		)
	} else {
		logger.Warn("main: redis disabled, booking leases are process-local")
		locker = utils.NewLocalLocker()
	}

	// reconciliation notifications.
	var publisher payment.ReconciliationPublisher
	var taskClient *asynq.Client
	var worker *asynq.Server
	if config.AppConfig.ReconcileTasksEnabled {
		notifSvc, err := notification.NewLogNotificationService(logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
		}
		taskClient = asynq.NewClient(cron.RedisOpt())
		publisher = tasks.NewAsynqPublisher(taskClient)
		worker, err = cron.InitReconcileWorker(notifSvc, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
	}

	// services.
	verifier := payment.NewHMACVerifier(settings, "payment", config.AppConfig.PaymentProvider)
	updater := payment.NewTransactionUpdater(txRepo, logger)
	synchronizer := payment.NewBookingSynchronizer(bookings, locker, publisher, logger)
	webhookSvc := payment.NewWebhookService(verifier, updater, synchronizer, logger)

	webhookHandler := handlers.NewWebhookHandler(
		webhookSvc,
		txRepo,
		config.AppConfig.WebhookSignatureHeader,
		time.Duration(config.AppConfig.WebhookTimeoutSeconds)*time.Second,
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		RazorpayWebhookHandler: webhookHandler.HandleWebhook,
		WebhookLogsHandler:     webhookHandler.RecentTransactions,
		AdminJWTSecret:         []byte(config.AppConfig.JWTSecret),
		AdminRateLimit:         config.AppConfig.MaxRequestsPerMin,
		HealthHandler:          handlers.HealthHandler,
	}

	period := time.Duration(config.AppConfig.HealthCheckPeriod) * time.Second
	if period <= 0 {
		period = time.Minute
	}
	utils.StartHealthMonitor(rootCtx, period, redisClients, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if taskClient != nil {
		_ = taskClient.Close()
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("main: tracing shutdown failed", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
