package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPAddr    string
	DatabaseURL string
	AutoMigrate bool
	// SeedAdminEmail provisions an admin account when running on in-memory stores.
	SeedAdminEmail string

	JWTMode         string
	JWTSecret       string
	JWTPublicKey    string
	JWTIssuerPrefix string
	JWTRequireExp   bool

	RedisAddr           string
	IdempotencyCacheTTL time.Duration

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	OTelEnabled  bool
	OTelEndpoint string
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: envString("SERVICE_NAME", "carparts"),
		HTTPAddr:    envString("HTTP_ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: envBool("AUTO_MIGRATE", false),

		SeedAdminEmail: strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),

		JWTMode:         strings.ToLower(envString("JWT_MODE", "self_issued")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTPublicKey:    os.Getenv("JWT_PUBLIC_KEY"),
		JWTIssuerPrefix: strings.TrimSpace(os.Getenv("JWT_ISSUER_PREFIX")),
		JWTRequireExp:   envBool("JWT_REQUIRE_EXP", true),

		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:     envList("KAFKA_BROKERS"),
		KafkaTopicPrefix: envString("KAFKA_TOPIC_PREFIX", "carparts."),

		OTelEnabled:  envBool("OTEL_ENABLED", false),
		OTelEndpoint: envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.IdempotencyCacheTTL, err = envDuration("IDEMPOTENCY_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", 20); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST", 40); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the runtime cannot start with.
func (c Config) Validate() error {
	switch c.JWTMode {
	case "self_issued":
		if strings.TrimSpace(c.JWTSecret) == "" {
			return errors.New("JWT_SECRET is required in self_issued mode")
		}
	case "external":
		if strings.TrimSpace(c.JWTSecret) == "" && strings.TrimSpace(c.JWTPublicKey) == "" {
			return errors.New("JWT_SECRET or JWT_PUBLIC_KEY is required in external mode")
		}
	default:
		return fmt.Errorf("unsupported JWT_MODE %q", c.JWTMode)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envList(name string) []string {
	var items []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envFloat(name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
