package config_test

import (
	"testing"

	"github.com/kajbd/kajbd-backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := config.Load()
	if cfg.AppPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.AppPort)
	}
	if cfg.JWTExpiresMin != 10080 {
		t.Fatalf("expected default expiry 10080, got %d", cfg.JWTExpiresMin)
	}
	if cfg.DBDSN != "" {
		t.Fatalf("expected empty DSN by default, got %q", cfg.DBDSN)
	}
	if cfg.FrontendBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected frontend base url %q", cfg.FrontendBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_MIN", "60")
	t.Setenv("DB_DSN", "host=localhost user=kajbd dbname=kajbd")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := config.Load()
	if cfg.AppPort != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.AppPort)
	}
	if cfg.JWTExpiresMin != 60 {
		t.Fatalf("expected expiry 60, got %d", cfg.JWTExpiresMin)
	}
	if cfg.DBDSN == "" {
		t.Fatalf("expected DSN override")
	}
	if !cfg.CookieSecure {
		t.Fatalf("expected secure cookie flag")
	}
}

func TestLoadPanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing JWT_SECRET")
		}
	}()
	config.Load()
}
