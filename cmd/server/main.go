package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/application/account"
	"github.com/yoklama/backend/internal/application/monitor"
	"github.com/yoklama/backend/internal/infrastructure/config"
	"github.com/yoklama/backend/internal/infrastructure/crypto"
	"github.com/yoklama/backend/internal/infrastructure/logger"
	"github.com/yoklama/backend/internal/infrastructure/notify"
	"github.com/yoklama/backend/internal/infrastructure/persistence"
	"github.com/yoklama/backend/internal/infrastructure/portal"
	"github.com/yoklama/backend/internal/infrastructure/scheduler"
	"github.com/yoklama/backend/internal/interfaces/http/handler"
	"github.com/yoklama/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting yoklama backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	userRepo := persistence.NewGormUserRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	gradeRepo := persistence.NewGormGradeRepository(db.DB)

	cryptor, err := crypto.NewCryptor(cfg.Crypto.Secret)
	if err != nil {
		log.Fatal("failed to initialize cryptor", zap.Error(err))
	}

	portalClient, err := portal.NewClient(portal.Config{
		BaseURL:   cfg.Obis.BaseURL,
		UserAgent: cfg.Obis.UserAgent,
		Timeout:   cfg.Obis.Timeout,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize portal client", zap.Error(err))
	}

	channel, err := notify.NewTelegramChannel(notify.TelegramConfig{
		Token:   cfg.Telegram.Token,
		BaseURL: cfg.Telegram.BaseURL,
		Timeout: cfg.Telegram.Timeout,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize telegram channel", zap.Error(err))
	}

	accountService := account.NewService(userRepo, cryptor, log)
	monitorService := monitor.NewService(
		userRepo, attendanceRepo, gradeRepo,
		portalClient, channel, cryptor,
		log, cfg.Monitor.SendDelay,
	)

	attendanceTrigger, err := scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
		Name:       "attendance",
		Interval:   cfg.Monitor.AttendanceInterval,
		RunOnStart: cfg.Monitor.RunOnStart,
	}, monitorService.RunAttendanceCycle, log)
	if err != nil {
		log.Fatal("failed to create attendance trigger", zap.Error(err))
	}
	gradeTrigger, err := scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
		Name:       "grades",
		Interval:   cfg.Monitor.GradeInterval,
		RunOnStart: cfg.Monitor.RunOnStart,
	}, monitorService.RunGradeCycle, log)
	if err != nil {
		log.Fatal("failed to create grade trigger", zap.Error(err))
	}

	ctx := context.Background()
	if err := attendanceTrigger.Start(ctx); err != nil {
		log.Fatal("failed to start attendance trigger", zap.Error(err))
	}
	if err := gradeTrigger.Start(ctx); err != nil {
		log.Fatal("failed to start grade trigger", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	systemHandler := handler.NewSystemHandler(db, version)
	router.NewRouter(engine).
		Register(systemHandler).
		Register(handler.NewAccountHandler(accountService, log)).
		Register(handler.NewReportHandler(monitorService, log)).
		Setup()

	// Root-level alias for load balancer probes.
	engine.GET("/health", systemHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := attendanceTrigger.Stop(shutdownCtx); err != nil {
		log.Error("attendance trigger did not stop cleanly", zap.Error(err))
	}
	if err := gradeTrigger.Stop(shutdownCtx); err != nil {
		log.Error("grade trigger did not stop cleanly", zap.Error(err))
	}

	log.Info("server exited")
}
