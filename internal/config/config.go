// Package config provides configuration loading for the valtrack binaries.
//
// Configuration comes from an optional YAML file, with VALTRACK_* environment
// variables overriding individual database settings (Docker friendly).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valtrack/valtrack-backend/internal/adapter/repository/postgres"
)

// Config is the top-level configuration for the valtrack binaries
type Config struct {
	// Database holds the Postgres connection settings.
	Database DatabaseConfig `yaml:"database"`
	// Recalc holds the recomputation daemon settings.
	Recalc RecalcConfig `yaml:"recalc"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`

	// MaxOpenConns and MaxIdleConns bound the connection pool; the recompute
	// fan-out runs one account per goroutine against the shared pool.
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	// ConnMaxLifetimeMinutes recycles pooled connections, zero keeps them forever.
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// RecalcConfig holds the recomputation daemon settings
type RecalcConfig struct {
	// IntervalMinutes is how often the daemon recomputes all investment
	// snapshots (after each global price refresh cycle).
	IntervalMinutes int `yaml:"interval_minutes"`
	// QueueSize is the capacity of the background recalculation queue.
	QueueSize int `yaml:"queue_size"`
}

// Default returns the configuration used when no file or overrides are present
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host:                   "localhost",
			Port:                   "5432",
			User:                   "postgres",
			Password:               "postgres",
			Name:                   "valtrack",
			SSLMode:                "disable",
			MaxOpenConns:           25,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		Recalc: RecalcConfig{
			IntervalMinutes: 60,
			QueueSize:       256,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration file at path, applies environment overrides,
// and validates the result. A missing file is not an error: defaults plus
// environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Recalc.IntervalMinutes <= 0 {
		return Config{}, fmt.Errorf("recalc interval must be positive, got %d", cfg.Recalc.IntervalMinutes)
	}
	if cfg.Recalc.QueueSize <= 0 {
		return Config{}, fmt.Errorf("recalc queue size must be positive, got %d", cfg.Recalc.QueueSize)
	}
	if cfg.Database.MaxOpenConns <= 0 {
		return Config{}, fmt.Errorf("database max open conns must be positive, got %d", cfg.Database.MaxOpenConns)
	}
	return cfg, nil
}

// applyEnv overrides database settings from VALTRACK_* environment variables
func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"VALTRACK_DB_HOST":     &cfg.Database.Host,
		"VALTRACK_DB_PORT":     &cfg.Database.Port,
		"VALTRACK_DB_USER":     &cfg.Database.User,
		"VALTRACK_DB_PASSWORD": &cfg.Database.Password,
		"VALTRACK_DB_NAME":     &cfg.Database.Name,
		"VALTRACK_DB_SSLMODE":  &cfg.Database.SSLMode,
		"VALTRACK_LOG_LEVEL":   &cfg.LogLevel,
	}
	for name, target := range overrides {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}
}

// DSN assembles the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Pool returns the connection pool bounds as a postgres.PoolConfig
func (c DatabaseConfig) Pool() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute,
	}
}
