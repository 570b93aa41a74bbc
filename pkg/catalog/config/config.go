// Package config wires a catalog.Service from deployment configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/thegoodstr/storefront/pkg/catalog"
	memoryrepo "github.com/thegoodstr/storefront/pkg/catalog/repo/memory"
	mongorepo "github.com/thegoodstr/storefront/pkg/catalog/repo/mongo"
	postgresrepo "github.com/thegoodstr/storefront/pkg/catalog/repo/postgres"
	memorystorage "github.com/thegoodstr/storefront/pkg/catalog/storage/memory"
	s3storage "github.com/thegoodstr/storefront/pkg/catalog/storage/s3"
)

// ServerConfig represents server configuration for the storefront
// catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Catalog store configuration
	DatabaseType  string // "memory", "mongo", "postgres"
	MongoURL      string
	MongoDatabase string
	DatabaseURL   string // Postgres connection string

	// Object store configuration
	StorageBackend string // "memory", "s3"
	S3             S3Config

	// Expiry window for pre-authorized links
	LinkTTL time.Duration
}

// S3Config represents configuration for the S3 object store
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	PresignDuration int
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "mongo":
		if c.MongoURL == "" {
			return errors.New("mongo_url is required when using mongo")
		}
		if c.MongoDatabase == "" {
			return errors.New("mongo_database is required when using mongo")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return errors.New("database_type must be 'memory', 'mongo' or 'postgres'")
	}

	switch c.StorageBackend {
	case "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3")
		}
	default:
		return errors.New("storage_backend must be 'memory' or 's3'")
	}

	return nil
}

// BuildService creates a catalog.Service from the configuration
func (c *ServerConfig) BuildService(ctx context.Context) (catalog.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	opts := []catalog.Option{
		catalog.WithRepository(repo),
		catalog.WithBlobStore(store),
		catalog.WithEventSink(catalog.NewLogEventSink(slog.Default())),
	}
	if c.LinkTTL > 0 {
		opts = append(opts, catalog.WithLinkTTL(c.LinkTTL))
	}

	return catalog.New(opts...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (catalog.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memoryrepo.New(), nil
	case "mongo":
		client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(c.MongoURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		return mongorepo.New(client.Database(c.MongoDatabase)), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildBlobStore() (catalog.BlobStore, error) {
	switch c.StorageBackend {
	case "memory":
		return memorystorage.New(), nil
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			PresignDuration: c.S3.PresignDuration,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
}
