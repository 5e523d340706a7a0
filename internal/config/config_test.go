package config

import (
	"reflect"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "SESSION_SECRET", "SESSION_BACKEND", "SESSION_MAX_AGE",
		"COOKIE_DOMAIN", "CORS_ALLOWED_ORIGINS", "DEMO_USER_ID", "DEMO_USER_NAME", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	// .env.local を拾わないように空のディレクトリで実行する
	t.Chdir(t.TempDir())
}

// TestLoadDefaults は環境変数未設定時のデフォルト値を検証する。
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "debug" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.SessionBackend != BackendCookie || cfg.SessionMaxAge != 86400 {
		t.Fatalf("unexpected session defaults: %+v", cfg)
	}
	if cfg.DemoUserID != 2 || cfg.DemoUserName != "Ethan" {
		t.Fatalf("unexpected demo user: %d %q", cfg.DemoUserID, cfg.DemoUserName)
	}
	if !cfg.EphemeralSecret || len(cfg.SessionSecret) < MinSecretLength {
		t.Fatalf("expected generated secret, got %q (ephemeral=%v)", cfg.SessionSecret, cfg.EphemeralSecret)
	}
	if cfg.CookieSecure() {
		t.Fatal("debug mode must not force Secure cookies")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", "configured-secret")
	t.Setenv("SESSION_BACKEND", "SESSION")
	t.Setenv("DEMO_USER_ID", "42")
	t.Setenv("DEMO_USER_NAME", "Ada")
	t.Setenv("SESSION_MAX_AGE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9000" || cfg.SessionSecret != "configured-secret" || cfg.EphemeralSecret {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.SessionBackend != BackendSession {
		t.Fatalf("SessionBackend = %q, want %q", cfg.SessionBackend, BackendSession)
	}
	if cfg.DemoUserID != 42 || cfg.DemoUserName != "Ada" {
		t.Fatalf("unexpected demo user: %d %q", cfg.DemoUserID, cfg.DemoUserName)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Fatalf("invalid SESSION_MAX_AGE should fall back to default, got %d", cfg.SessionMaxAge)
	}
}

func TestLoadReleaseRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "release")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected SESSION_SECRET error, got %v", err)
	}

	t.Setenv("SESSION_SECRET", "too-short")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for short secret in release mode")
	}

	t.Setenv("SESSION_SECRET", strings.Repeat("s", MinSecretLength))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.CookieSecure() {
		t.Fatal("release mode must use Secure cookies")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		GinMode:        "debug",
		SessionBackend: BackendCookie,
		DemoUserName:   "Ethan",
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gin mode", func(c *Config) { c.GinMode = "production" }},
		{"backend", func(c *Config) { c.SessionBackend = "redis" }},
		{"max age", func(c *Config) { c.SessionMaxAge = -1 }},
		{"demo user", func(c *Config) { c.DemoUserName = "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: " http://a.example , ,https://b.example,"}
	want := []string{"http://a.example", "https://b.example"}
	if got := cfg.AllowedOrigins(); !reflect.DeepEqual(got, want) {
		t.Fatalf("AllowedOrigins = %#v, want %#v", got, want)
	}

	cfg.CORSAllowedOrigins = ""
	if got := cfg.AllowedOrigins(); len(got) != 0 {
		t.Fatalf("expected no origins, got %#v", got)
	}
}
