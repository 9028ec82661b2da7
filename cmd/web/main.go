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
	"github.com/sirupsen/logrus"

	"crm/internal/config"
	"crm/internal/webapp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, relying on environment")
	}

	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %s", err)
	}

	app, err := webapp.Router(cfg.WebCfg)
	if err != nil {
		logrus.Fatalf("failed to build application - %s", err)
	}

	start(app, cfg.WebCfg.Port, cfg.WebCfg.ShutdownTimeout)
}

func start(app *echo.Echo, port int, shutdownTimeout time.Duration) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		logrus.Infof("starting crm web on port %d", port)
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
