package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"crm/internal/config"
	"crm/internal/infra"
)

const redisConnectTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, relying on environment")
	}

	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %s", err)
	}

	db, err := infra.Sqlite(cfg.SqliteCfg.DSN)
	if err != nil {
		logrus.Fatalf("failed to open entity store - %s", err)
	}

	if cfg.APICfg.SeedDemoData {
		if err := infra.Seed(db); err != nil {
			logrus.Fatalf("failed to seed demo data - %s", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisCfg.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		redisClient, err = infra.Redis(ctx, cfg.RedisCfg)
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to redis - %s", err)
		}
		defer redisClient.Close()
	}

	app, err := infra.Router(db, redisClient, cfg.APICfg)
	if err != nil {
		logrus.Fatalf("failed to build application - %s", err)
	}

	start(app, cfg.APICfg.Port, cfg.APICfg.ShutdownTimeout)
}

func start(app *echo.Echo, port int, shutdownTimeout time.Duration) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		logrus.Infof("starting crm api on port %d", port)
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logrus.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logrus.Fatalf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
