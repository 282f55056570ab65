package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"incubator/docs" // swagger docs
	"incubator/internal/auth"
	"incubator/internal/cache"
	"incubator/internal/config"
	"incubator/internal/db"
	"incubator/internal/handler"
	"incubator/internal/logging"
	"incubator/internal/mail"
	guard "incubator/internal/middleware"
	"incubator/internal/repository"
	"incubator/internal/router"
	"incubator/internal/service"
)

// @title Junior Incubator API
// @version 1.0
// @description Account registration, mail activation, session tokens and events.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("database init", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "addr", cfg.RedisAddr, "err", err)
	}

	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		logger.Error("mailer init", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.SecretKey, cfg.ActivationTTL(), cfg.SessionTTL())

	// Services
	authService := service.NewAuthService(userRepo, jwtService, mailer, cacheClient, service.AuthOptions{
		RequireActiveLogin: cfg.LoginRequireActive,
		Tokens:             auth.NewTokenStore(cacheClient),
		Logger:             logger,
	})
	userService := service.NewUserService(userRepo, cacheClient)
	eventService := service.NewEventService(eventRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		logger,
		guard.NewGuard(jwtService, userService),
		handler.NewAuthHandler(authService),
		handler.NewEventHandler(eventService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("api listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
