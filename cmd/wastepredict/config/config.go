// Package config provides configuration parsing for the wastepredict service.
//
// It handles both command-line flags and environment variables, with flags
// taking precedence over environment variables. The Config struct covers:
//   - Listeners (HTTP, optional gRPC health)
//   - Logging (level, format)
//   - Preference storage (memory or redis)
//   - TLS (cert, key, CA files)
//   - Dataset generation (start year, months, seed, profile, view)
//   - Training illusion timing (delay, stagger)
//
// Supported configuration sources (in order of precedence):
//  1. Command-line flags
//  2. Environment variables
//  3. Default values
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HatiCode/wastepredict/pkg/dataset"
	"github.com/HatiCode/wastepredict/pkg/models"
	"github.com/HatiCode/wastepredict/pkg/tls"
)

// Config holds all wastepredict configuration.
type Config struct {
	Listen     string
	GRPCListen string
	LogFormat  string
	LogLevel   string

	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	TLS           tls.Config

	StartYear int
	Months    int
	Seed      uint64
	Profile   string
	View      int

	TrainDelay   time.Duration
	TrainStagger time.Duration
}

// ParseFlags parses command-line flags and environment variables into a Config.
// It exits the process when the resulting configuration is invalid.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8080"), "HTTP listen address")
	flag.StringVar(&cfg.GRPCListen, "grpc-listen", getEnv("GRPC_LISTEN", ""), "gRPC health listen address (empty disables)")

	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Preference storage backend: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis server address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")
	flag.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvDuration("REDIS_TTL", 0), "Redis preference TTL (0 keeps preferences forever)")

	flag.BoolVar(&cfg.TLS.Enabled, "tls-enabled", getEnvBool("TLS_ENABLED", false), "Enable mTLS for the HTTP and gRPC servers")
	flag.StringVar(&cfg.TLS.CertFile, "tls-cert-file", getEnv("TLS_CERT_FILE", ""), "TLS certificate file")
	flag.StringVar(&cfg.TLS.KeyFile, "tls-key-file", getEnv("TLS_KEY_FILE", ""), "TLS private key file")
	flag.StringVar(&cfg.TLS.CAFile, "tls-ca-file", getEnv("TLS_CA_FILE", ""), "TLS CA certificate file for client verification")

	flag.IntVar(&cfg.StartYear, "start-year", getEnvInt("START_YEAR", dataset.DefaultStartYear), "First year of the generated history")
	flag.IntVar(&cfg.Months, "months", getEnvInt("MONTHS", dataset.DefaultMonths), "Number of generated monthly records")
	flag.Uint64Var(&cfg.Seed, "seed", getEnvUint64("SEED", 0), "Random seed (0 draws a fresh seed per run)")
	flag.StringVar(&cfg.Profile, "profile", getEnv("PROFILE", ""), "YAML generator profile overriding the default parameters")
	flag.IntVar(&cfg.View, "view", getEnvInt("VIEW", 12), "Default number of records returned by a dataset load")

	flag.DurationVar(&cfg.TrainDelay, "train-delay", getEnvDuration("TRAIN_DELAY", models.DefaultTrainDelay), "Simulated training duration")
	flag.DurationVar(&cfg.TrainStagger, "train-stagger", getEnvDuration("TRAIN_STAGGER", models.DefaultTrainStagger), "Delay between model starts when training all")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address cannot be empty")
	}
	if c.Storage != "memory" && c.Storage != "redis" {
		return fmt.Errorf("invalid storage %q (must be memory or redis)", c.Storage)
	}
	if c.Storage == "redis" && c.RedisAddr == "" {
		return errors.New("redis-addr is required when storage=redis")
	}
	if c.RedisDB < 0 {
		return errors.New("redis-db cannot be negative")
	}
	if c.StartYear <= 0 {
		return fmt.Errorf("start-year must be > 0, got %d", c.StartYear)
	}
	if c.Months <= 0 {
		return fmt.Errorf("months must be > 0, got %d", c.Months)
	}
	if c.View <= 0 {
		return fmt.Errorf("view must be > 0, got %d", c.View)
	}
	if c.TrainDelay <= 0 {
		return errors.New("train-delay must be > 0")
	}
	if c.TrainStagger < 0 {
		return errors.New("train-stagger cannot be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		var u uint64
		if _, err := fmt.Sscanf(value, "%d", &u); err == nil {
			return u
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
