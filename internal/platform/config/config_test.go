package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{
		"SERVICE_NAME", "HTTP_ADDR", "DATABASE_URL", "JWT_MODE", "JWT_REQUIRE_EXP",
		"IDEMPOTENCY_CACHE_TTL", "OUTBOX_POLL_INTERVAL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX",
	} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.JWTMode != "self_issued" || !cfg.JWTRequireExp {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IdempotencyCacheTTL != 24*time.Hour {
		t.Fatalf("expected 24h cache ttl, got %s", cfg.IdempotencyCacheTTL)
	}
	if cfg.KafkaTopicPrefix != "carparts." || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("unexpected kafka defaults: %+v", cfg)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_REQUIRE_EXP", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("IDEMPOTENCY_CACHE_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.JWTRequireExp {
		t.Fatalf("expected JWT_REQUIRE_EXP=false to disable expiry requirement")
	}
	if cfg.RateLimitRPS != 2.5 || cfg.IdempotencyCacheTTL != 90*time.Minute {
		t.Fatalf("unexpected parsed values: %+v", cfg)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "self issued without secret", cfg: Config{JWTMode: "self_issued"}, wantErr: true},
		{name: "self issued with secret", cfg: Config{JWTMode: "self_issued", JWTSecret: "s"}},
		{name: "external with public key", cfg: Config{JWTMode: "external", JWTPublicKey: "pem"}},
		{name: "external without keys", cfg: Config{JWTMode: "external"}, wantErr: true},
		{name: "unknown mode", cfg: Config{JWTMode: "oidc", JWTSecret: "s"}, wantErr: true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: expected error=%v, got %v", tc.name, tc.wantErr, err)
		}
	}
}
