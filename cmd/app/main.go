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

	apiHttp "github.com/yemektaxi/backend/internal/api/http"
	"github.com/yemektaxi/backend/internal/cache"
	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/db"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/integrity"
	"github.com/yemektaxi/backend/internal/queue/asynqserver"
	queueClient "github.com/yemektaxi/backend/internal/queue/client"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/internal/server"
	"github.com/yemektaxi/backend/internal/service"
	"github.com/yemektaxi/backend/internal/worker"
	"github.com/yemektaxi/backend/pkg/auth"
	"github.com/yemektaxi/backend/pkg/hash"
	"github.com/yemektaxi/backend/pkg/logger"
	"github.com/yemektaxi/backend/pkg/otp"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger, err := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger setup failed: %s", err)
	}
	logger.SetLogger(appLogger)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting backend api", zap.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		logger.Fatal("mysql connect problem", zap.Error(err))
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			logger.Error("error when closing", zap.Error(err))
		}
	}()
	logger.Info("mysql connection done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		logger.Fatal("redis connect problem", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("error when closing redis", zap.Error(err))
		}
	}()
	logger.Info("redis connection done")

	emailSender, err := newEmailSender(cfg.Email, cfg.SMTP)
	if err != nil {
		logger.Fatal("email sender creation failed", zap.String("provider", cfg.Email.Provider), zap.Error(err))
	}

	smsSender, err := newSMSSender(cfg.SMS)
	if err != nil {
		logger.Fatal("sms sender creation failed", zap.String("provider", cfg.SMS.Provider), zap.Error(err))
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		logger.Fatal("auth manager creation err", zap.Error(err))
	}

	asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("error when closing asynq client", zap.Error(err))
		}
	}()

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Config:           cfg,
		Clock:            service.SystemClock{},
		Hasher:           hash.NewBcryptHasher(cfg.Auth.BcryptCost),
		TokenManager:     tokenManager,
		CodeGenerator:    otp.NewGOTPGenerator(),
		OtpGenerator:     otp.NewNumericGenerator(),
		Repos:            repos,
		IdentityVerifier: identity.NewClient(cfg.Identity),
		EmailSender:      emailSender,
		SMSSender:        smsSender,
		Notifier:         queueClient.NewNotifier(asynqClient),
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, integrity.NewChecker(nil), cfg, dbMySQL, redisClient)

	// Queue workers
	workers := worker.NewWorkers(worker.Deps{
		EmailProvider: emailSender,
		Config:        cfg,
	})
	asynqSrv, asynqMux := asynqserver.New(cfg.Cache, workers)
	if err := asynqSrv.Start(asynqMux); err != nil {
		logger.Fatal("asynq server start failed", zap.Error(err))
	}
	logger.Info("queue workers started")

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}

	asynqSrv.Shutdown()

	logger.Info("app stopped")
}
