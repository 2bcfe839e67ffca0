package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/api"
	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/config"
	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
	"github.com/etuition/etuition-server/internal/payments"
	"github.com/etuition/etuition-server/internal/store"
	"github.com/etuition/etuition-server/pkg/cache"
	"github.com/etuition/etuition-server/pkg/mailer"
	"github.com/etuition/etuition-server/pkg/messagequeue"
)

func main() {
	// Load .env file. In production, environment variables should be
	// set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	var logger *zap.Logger
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := store.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("connecting to mongodb", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			logger.Warn("disconnecting from mongodb", zap.Error(err))
		}
	}()
	db := client.Database(cfg.MongoDB)
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDB))

	// The identity provider is optional: without service-account
	// material the server runs, it just cannot clean up provider-side
	// accounts on user deletion.
	var provider *auth.Provider
	if cfg.FirebaseServiceKey != "" {
		provider, err = auth.NewProvider(ctx, cfg.FirebaseServiceKey)
		if err != nil {
			logger.Warn("initializing identity provider, continuing without it", zap.Error(err))
			provider = nil
		} else {
			logger.Info("identity provider initialized")
		}
	}

	var roleCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		roleCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("connecting to redis, continuing without cache", zap.Error(err))
			roleCache = cache.Noop{}
		}
	}

	var queue messagequeue.MessageQueue = messagequeue.Noop{}
	if cfg.RabbitMQURL != "" {
		queue, err = messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Warn("connecting to rabbitmq, continuing without broker", zap.Error(err))
			queue = messagequeue.Noop{}
		} else {
			defer queue.Close()
		}
	}

	mail := &mailer.Mailer{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		Sender: cfg.SMTPSender,
	}

	userRepo := store.NewUserRepository(db)
	tuitionRepo := store.NewTuitionRepository(db)
	applicationRepo := store.NewApplicationRepository(db)
	paymentRepo := store.NewPaymentRepository(db)
	notificationRepo := store.NewNotificationRepository(db)

	tokens := auth.NewTokenService(cfg.AccessTokenSecret)
	charges := payments.NewStripeCreator(cfg.StripeSecretKey)

	userService := core.NewUserService(userRepo, roleCache, provider, cfg.AdminEmail, logger)
	tuitionService := core.NewTuitionService(tuitionRepo, userService, logger)
	applicationService := core.NewApplicationService(applicationRepo, notificationRepo, userService, queue, mail, logger)
	paymentService := core.NewPaymentService(paymentRepo, applicationRepo, charges, userService, logger)
	statsService := core.NewStatsService(userRepo, tuitionRepo, applicationRepo, paymentRepo, userService, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.ClientURL))

	api.RegisterRoutes(router, api.Deps{
		Tokens:       tokens,
		Users:        userService,
		Tuitions:     tuitionService,
		Applications: applicationService,
		Payments:     paymentService,
		Stats:        statsService,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.GinMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
