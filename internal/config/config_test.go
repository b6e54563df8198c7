package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	// clear env vars
	_ = os.Unsetenv("CAMPUSBEAT_HTTP_PORT")
	_ = os.Unsetenv("CAMPUSBEAT_FEED_LIMIT")
	_ = os.Unsetenv("CAMPUSBEAT_UPDATES_LIMIT")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.FeedLimit != 50 || cfg.UpdatesLimit != 20 || cfg.PastLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("CAMPUSBEAT_HTTP_PORT", "9191")
	defer func() { _ = os.Unsetenv("CAMPUSBEAT_HTTP_PORT") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Fatalf("http port env override failed, got %d", cfg.HTTPPort)
	}
}

func TestConfigValidate_RejectsDevTokensInProduction(t *testing.T) {
	cfg := NewForTesting()
	cfg.Environment = EnvProduction
	cfg.DevTokens = []string{"tok=u1"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for dev tokens in production")
	}
}

func TestConfigValidate_RejectsBadPort(t *testing.T) {
	cfg := NewForTesting()
	cfg.HTTPPort = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative port")
	}
}
