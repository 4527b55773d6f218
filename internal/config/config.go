package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver is "pgx" (default) or "postgres" for lib/pq.
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SlowThreshold   time.Duration
}

// DSN returns a URL-style connection string understood by both pgx and lib/pq.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&TimeZone=UTC",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type CORSConfig struct {
	AllowOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment, falling back to local
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "pgx"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            os.Getenv("DB_NAME"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    25,
			MinConns:        5,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 15 * time.Minute,
			SlowThreshold:   time.Second,
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Expiry: 72 * time.Hour,
			Issuer: "elden-builds",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.Database.MaxOpenConns, err = getEnvInt32("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.Database.MinConns, err = getEnvInt32("DB_MIN_CONNS", cfg.Database.MinConns); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxIdleTime, err = getEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime); err != nil {
		return nil, err
	}
	if cfg.JWT.Expiry, err = getEnvDuration("JWT_EXPIRY", cfg.JWT.Expiry); err != nil {
		return nil, err
	}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		cfg.CORS.AllowOrigins = splitList(origins)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("missing environment variable [JWT_SECRET]")
	}
	switch cfg.Database.Driver {
	case "pgx", "postgres":
	default:
		return nil, fmt.Errorf("unknown database driver [%s]", cfg.Database.Driver)
	}

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt32(name string, fallback int32) (int32, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("unable to parse environment variable as non-negative integer [%s]: %s", name, s)
	}
	return int32(v), nil
}

func getEnvDuration(name string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse environment variable as duration [%s]: %s", name, s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
