package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"incubator/internal/config"
	"incubator/internal/logging"
	"incubator/internal/router"
	"incubator/internal/web"
)

func main() {
	cfg := config.LoadWeb()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("parse templates", "err", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = router.NewValidator()
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	controller := web.NewController(
		web.NewClient(cfg.APIURL, nil),
		&web.CookieManager{Secure: cfg.CookieSecure},
		logger,
	)
	controller.Register(e)

	go func() {
		addr := ":" + cfg.Port
		logger.Info("web listening", "addr", addr, "api", cfg.APIURL)
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
