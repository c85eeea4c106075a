package config

import (
	"testing"
	"time"
)

func TestEngineConfigValidate(t *testing.T) {
	valid := EngineConfig{QueryTimeout: 10 * time.Second, HandlerTimeout: 5 * time.Second}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid engine config, got %v", err)
	}

	inverted := EngineConfig{QueryTimeout: 2 * time.Second, HandlerTimeout: 5 * time.Second}
	if err := inverted.validate(); err == nil {
		t.Fatalf("expected handler-above-query timeout to be rejected")
	}

	zero := EngineConfig{}
	if err := zero.validate(); err == nil {
		t.Fatalf("expected zero timeouts to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "Dev"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("expected dev env detection to be case-insensitive")
	}

	app = AppConfig{Env: "prod"}
	if !app.IsProd() || app.IsDev() {
		t.Fatalf("expected prod env detection")
	}
}

func TestApplyFeatureFlagsSQLiteOverridesDriver(t *testing.T) {
	cfg := Config{DB: DBConfig{Driver: "postgres"}}
	cfg.FeatureFlags.UseSQLite = true
	cfg.applyFeatureFlags()
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("expected sqlite override, got %s", cfg.DB.Driver)
	}

	cfg = Config{DB: DBConfig{Driver: "postgres"}}
	cfg.applyFeatureFlags()
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("flag off must leave the driver alone, got %s", cfg.DB.Driver)
	}
}

func TestRedisConfigEnabled(t *testing.T) {
	if (RedisConfig{}).Enabled() {
		t.Fatalf("empty redis config should be disabled")
	}
	if !(RedisConfig{Address: "localhost:6379"}).Enabled() {
		t.Fatalf("address-only redis config should be enabled")
	}
	if !(RedisConfig{URL: "redis://localhost:6379/0"}).Enabled() {
		t.Fatalf("url-only redis config should be enabled")
	}
}
