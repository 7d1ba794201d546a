package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"horas-backend/internal/app"
	"horas-backend/internal/config"
	"horas-backend/internal/utils"
)

func main() {
	logger, err := utils.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	utils.LoadEnv(logger)
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Bootstrap(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	go application.Hub.Run(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: application.Router.Engine(),
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
