package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/thegoodstr/storefront/pkg/catalog/api"
	"github.com/thegoodstr/storefront/pkg/catalog/config"
)

type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType  string `env:"DATABASE_TYPE" env-default:"memory"`
	MongoURL      string `env:"MONGO_URL"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"thegoodstr"`
	DatabaseURL   string `env:"DATABASE_URL"`

	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	LinkTTLSeconds int `env:"LINK_TTL_SECONDS" env-default:"3600"`
}

func (c envConfig) toServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Port:           c.Port,
		Environment:    c.Environment,
		DatabaseType:   c.DatabaseType,
		MongoURL:       c.MongoURL,
		MongoDatabase:  c.MongoDatabase,
		DatabaseURL:    c.DatabaseURL,
		StorageBackend: c.StorageBackend,
		S3: config.S3Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
			PresignDuration: c.LinkTTLSeconds,
		},
		LinkTTL: time.Duration(c.LinkTTLSeconds) * time.Second,
	}
}

func main() {
	_ = godotenv.Load()

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig := env.toServerConfig()
	if err := serverConfig.Validate(); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	logger := httplog.NewLogger("storefront", httplog.Options{
		JSON:     serverConfig.Environment == "production",
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: api.NewRouter(svc, api.RouterOptions{Logger: logger}),
	}

	go func() {
		slog.Info("Storefront catalog server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
