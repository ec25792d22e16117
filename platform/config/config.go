// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the Redis connection shared by the
// snapshot cache and the alert ledger.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	IsRedisEnabled() bool
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAlertScanInterval() time.Duration
	GetAlertDedupTTL() time.Duration
}

// DashboardConfig provides settings for follow-up and alert queries.
type DashboardConfig interface {
	GetLocation() *time.Location
	GetSnapshotCacheTTL() time.Duration
}

// AIConfig provides settings for the follow-up task drafter.
type AIConfig interface {
	GetAIProvider() string
	GetAIAPIKey() string
	GetAIModel() string
	GetAIBaseURL() string
	IsAIEnabled() bool
}

// SMTPConfig provides settings for the alert digest email.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetAlertDigestTo() string
	GetDashboardURL() string
	IsSMTPEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	CORSAllowAll      bool
	CORSOrigins       []string
	CORSAllowCreds    bool
	Timezone          string
	location          *time.Location
	SnapshotCacheTTL  time.Duration
	RedisURL          string
	RedisTLSInsecure  bool
	AsynqQueueName    string
	AsynqConcurrency  int
	AlertScanInterval time.Duration
	AlertDedupTTL     time.Duration
	AIProvider        string
	AIAPIKey          string
	AIModel           string
	AIBaseURL         string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	EmailFromName     string
	EmailFromAddress  string
	AlertDigestTo     string
	DashboardURL      string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) IsRedisEnabled() bool      { return c.RedisURL != "" }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int            { return c.AsynqConcurrency }
func (c *Config) GetAlertScanInterval() time.Duration { return c.AlertScanInterval }
func (c *Config) GetAlertDedupTTL() time.Duration     { return c.AlertDedupTTL }

// DashboardConfig implementation
func (c *Config) GetSnapshotCacheTTL() time.Duration { return c.SnapshotCacheTTL }
func (c *Config) GetLocation() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// AIConfig implementation
func (c *Config) GetAIProvider() string { return c.AIProvider }
func (c *Config) GetAIAPIKey() string   { return c.AIAPIKey }
func (c *Config) GetAIModel() string    { return c.AIModel }
func (c *Config) GetAIBaseURL() string  { return c.AIBaseURL }
func (c *Config) IsAIEnabled() bool     { return c.AIAPIKey != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetAlertDigestTo() string    { return c.AlertDigestTo }
func (c *Config) GetDashboardURL() string     { return c.DashboardURL }
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.AlertDigestTo != "" && c.EmailFromAddress != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		Timezone:          getEnv("APP_TIMEZONE", "UTC"),
		SnapshotCacheTTL:  mustDuration(getEnv("SNAPSHOT_CACHE_TTL", "30s")),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisTLSInsecure:  strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:    getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:  mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
		AlertScanInterval: mustDuration(getEnv("ALERT_SCAN_INTERVAL", "15m")),
		AlertDedupTTL:     mustDuration(getEnv("ALERT_DEDUP_TTL", "24h")),
		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		AIAPIKey:          getEnv("AI_API_KEY", ""),
		AIModel:           getEnv("AI_MODEL", ""),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Roofing CRM"),
		EmailFromAddress:  getEnv("EMAIL_FROM_ADDRESS", ""),
		AlertDigestTo:     getEnv("ALERT_DIGEST_TO", ""),
		DashboardURL:      getEnv("DASHBOARD_URL", "http://localhost:3000/today"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.AIProvider {
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", cfg.AIProvider)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
