package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.Mongo.Database != "salestrack" || cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 0 || cfg.Redis.TokenCacheTTL != 24*time.Hour {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development mode")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"PORT":            "9090",
		"ENV":             "production",
		"TOKEN_TTL":       "30m",
		"MONGO_DB":        "sales_test",
		"REDIS_DB":        "2",
		"TOKEN_CACHE_TTL": "1h",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "9090" || cfg.IsDevelopment() || cfg.TokenTTL != 30*time.Minute {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.Mongo.Database != "sales_test" || cfg.Redis.DB != 2 || cfg.Redis.TokenCacheTTL != time.Hour {
		t.Errorf("unexpected store overrides: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error for missing JWT_SECRET")
	}
}
