package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/journeygenie/internal/observability"
	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
	"github.com/FACorreiaa/journeygenie/internal/server"
	"github.com/FACorreiaa/journeygenie/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(zapcore.InfoLevel, zap.String("service", "journeygenie")); err != nil {
		return err
	}
	defer logger.Log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := observability.Init("journeygenie", ":9092", logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, logger.Log)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, err := server.SetupRouter(cfg, srv.DBPool(), logger.Log)
	if err != nil {
		return err
	}
	srv.SetRouter(router)

	server.StartPprofServer(":6060", logger.Log)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger.Log, done)

	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Log.Error("Server error", zap.Error(err))
	}

	<-done
	logger.Log.Info("Graceful shutdown complete")

	return nil
}
