package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	dbName        = "eldenbuilds"
	dbUser        = "user"
	dbPassword    = "password"
)

// Container is a throwaway postgres instance for integration tests.
type Container struct {
	container *postgres.PostgresContainer
	host      string
	port      string
}

// StartPostgres starts a postgres container and waits until it accepts
// connections.
func StartPostgres(ctx context.Context) (*Container, error) {
	postgresC, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	c := &Container{container: postgresC}
	if c.host, err = postgresC.Host(ctx); err != nil {
		c.Terminate()
		return nil, fmt.Errorf("resolving container host: %w", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		c.Terminate()
		return nil, fmt.Errorf("resolving container port: %w", err)
	}
	c.port = port.Port()
	return c, nil
}

// Config returns connection settings for the container using driver
// ("pgx" or "postgres").
func (c *Container) Config(driver string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          driver,
		Host:            c.host,
		Port:            c.port,
		User:            dbUser,
		Password:        dbPassword,
		Name:            dbName,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MinConns:        1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
		SlowThreshold:   time.Second,
	}
}

// Connect opens a migrated database on the container.
func (c *Container) Connect(ctx context.Context, driver string) (database.Service, error) {
	db, err := database.New(ctx, c.Config(driver))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db.GetDB()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (c *Container) Terminate() {
	if err := c.container.Terminate(context.Background()); err != nil {
		slog.Error("failed to terminate container", "error", err)
	}
}

// Reset empties every table and restarts id sequences.
func Reset(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE notifications, comment_votes, comments, build_likes, builds, user_profiles, users RESTART IDENTITY CASCADE`).Error
}
