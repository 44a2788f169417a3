package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Log      LogConfig
	Tracing  TracingConfig
	Backup   BackupConfig
	Export   ExportConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type DatabaseConfig struct {
	// Path of the SQLite database file. Everything the clinic owns lives
	// in this one file; backups are byte copies of it.
	Path               string
	BusyTimeout        time.Duration
	SlowQueryThreshold time.Duration
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

type BackupConfig struct {
	Dir       string
	OnStartup bool
}

type ExportConfig struct {
	Dir string
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "clinicdesk"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "hospital.db"),
			BusyTimeout:        getEnvDuration("DB_BUSY_TIMEOUT", 5*time.Second),
			SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			TTL:    getEnvDuration("SESSION_TTL", 12*time.Hour),
			Issuer: getEnv("SESSION_ISSUER", "clinicdesk"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "clinicdesk"),
			Endpoint:    getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Backup: BackupConfig{
			Dir:       getEnv("BACKUP_DIR", "."),
			OnStartup: getEnvBool("BACKUP_ON_STARTUP", true),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "."),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Session.Secret == "" {
		errs = append(errs, "SESSION_SECRET is required")
	} else if len(cfg.Session.Secret) < 32 && cfg.App.Environment == "production" {
		errs = append(errs, "SESSION_SECRET must be at least 32 characters in production")
	}

	if strings.TrimSpace(cfg.Database.Path) == "" {
		errs = append(errs, "DB_PATH must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
