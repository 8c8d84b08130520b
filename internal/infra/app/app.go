package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/infra/config"
	"github.com/AnndyBrock/real-estate-app/internal/infra/database"
	kafkainfra "github.com/AnndyBrock/real-estate-app/internal/infra/kafka"
	"github.com/AnndyBrock/real-estate-app/internal/infra/logger"
	mailinfra "github.com/AnndyBrock/real-estate-app/internal/infra/mail"
	redisinfra "github.com/AnndyBrock/real-estate-app/internal/infra/redis"
	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
	"github.com/AnndyBrock/real-estate-app/internal/infra/storage"
	"github.com/AnndyBrock/real-estate-app/internal/infra/telemetry"
	postgresrepo "github.com/AnndyBrock/real-estate-app/internal/repository/postgres"
	redisrepo "github.com/AnndyBrock/real-estate-app/internal/repository/redis"
	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/transport/http/routes"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// Application wires configuration, infrastructure, services, and transport.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

// New constructs a fully wired application ready to run.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	codec, err := security.NewTokenCodec(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var mailSender port.MailSender
	if cfg.Mail.APIKey != "" {
		sender, err := mailinfra.NewResendSender(cfg.Mail.APIKey, cfg.Mail.Sender)
		if err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init mail sender: %w", err)
		}
		mailSender = sender
	} else {
		log.Info("mail api key not configured, logging outbound mail instead")
		mailSender = mailinfra.NewLoggingSender(log)
	}
	if cfg.App.Env != "production" {
		mailSender = mailinfra.NewDevRedirectSender(mailSender, cfg.Mail.DevRecipient)
	}

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	objectStore, err := storage.NewS3Store(ctx, cfg.S3, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init object store: %w", err)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "estate:ratelimit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(
		repos.Users,
		repos.Sessions,
		repos.VerificationCodes,
		mailSender,
		eventPublisher,
		codec,
		cfg.App.Origin,
		log,
	)
	sessionService := usecase.NewSessionService(repos.Sessions)
	userService := usecase.NewUserService(repos.Users)
	postService := usecase.NewPostService(repos.Posts, objectStore, eventPublisher, log)
	leadService := usecase.NewLeadService(repos.Leads, repos.Posts, eventPublisher, log)
	uploadService := usecase.NewUploadService(repos.Posts, objectStore, cfg.S3.PresignTTL)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		TokenCodec:  codec,
		Database:    pool,
		Cache:       redisClient,
		Metrics:     metrics,
		Services: routes.ServiceSet{
			Auth:     authService,
			Sessions: sessionService,
			Users:    userService,
			Posts:    postService,
			Leads:    leadService,
			Uploads:  uploadService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting real estate API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
