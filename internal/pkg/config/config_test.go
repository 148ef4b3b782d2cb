package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StorageDriver != DriverMongo {
		t.Errorf("expected mongo driver, got %s", cfg.StorageDriver)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %s", cfg.JWTTTL)
	}
	if cfg.Mongo.Database != "campus" {
		t.Errorf("expected campus db, got %s", cfg.Mongo.Database)
	}
	if !cfg.Development() {
		t.Errorf("expected development by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"STORAGE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoad_Postgres(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"STORAGE_DRIVER": "postgres",
		"DATABASE_URL":   "postgres://u:p@db:5432/campus",
		"JWT_TTL":        "2h",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Postgres.URL != "postgres://u:p@db:5432/campus" {
		t.Errorf("unexpected url %s", cfg.Postgres.URL)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("expected 2h, got %s", cfg.JWTTTL)
	}
}
