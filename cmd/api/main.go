package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medichat/medichat-platform/internal/api/router"
	"github.com/medichat/medichat-platform/internal/appointments"
	"github.com/medichat/medichat-platform/internal/classifier"
	appconfig "github.com/medichat/medichat-platform/internal/config"
	"github.com/medichat/medichat-platform/internal/conversation"
	"github.com/medichat/medichat-platform/internal/notify"
	"github.com/medichat/medichat-platform/internal/observability/metrics"
	"github.com/medichat/medichat-platform/internal/validate"
	"github.com/medichat/medichat-platform/internal/webchat"
	"github.com/medichat/medichat-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medichat API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	bookingMetrics := metrics.NewBookingMetrics(reg)

	verifier := validate.NewEmailVerifier(net.DefaultResolver, cfg.MXLookupTimeout, cfg.MXRetryDelay, logger)
	verifier.Observe = bookingMetrics.ObserveMXLookup

	notifier := notify.NewService(buildEmailSender(cfg, logger), cfg.PublicBaseURL, logger)

	repo := appointments.NewRepository(db)
	hours := appointments.Hours{
		Opening:  cfg.ClinicOpeningTime,
		Closing:  cfg.ClinicClosingTime,
		Interval: cfg.SlotInterval,
	}
	apptService := appointments.NewService(repo, verifier, notifier, hours, logger, bookingMetrics)

	var clf classifier.Classifier
	if cfg.ClassifierURL != "" {
		client, err := classifier.NewClient(classifier.Config{
			BaseURL: cfg.ClassifierURL,
			Timeout: cfg.ClassifierTimeout,
		})
		if err != nil {
			logger.Error("failed to build classifier client", "error", err)
			os.Exit(1)
		}
		clf = client
	} else {
		logger.Warn("CLASSIFIER_URL not set, symptom diagnosis disabled")
	}

	sessions := conversation.NewSessionStore(redisClient, cfg.SessionTTL)
	stepper := conversation.NewStepper(repo, verifier, apptService, logger)
	convService := conversation.NewService(sessions, stepper, apptService, clf, cfg.ConfidenceThreshold, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		ChatHandler:         conversation.NewHandler(convService, logger),
		WebchatHandler:      webchat.NewHandler(convService, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			logger.Warn("SENDGRID_API_KEY not set, falling back to stub email sender")
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
