package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/container"
	"github.com/serroba/linkshare/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var cfg container.ConsumerOptions
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	injector := do.New()
	do.ProvideValue(injector, &cfg)
	do.ProvideValue(injector, &container.Options{
		RedisAddr: cfg.RedisAddr,
		LogFormat: cfg.LogFormat,
		LogLevel:  cfg.LogLevel,
	})
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	logger.Info("consuming analytics events",
		zap.String("redis", cfg.RedisAddr),
		zap.String("group", cfg.ConsumerGroup),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
