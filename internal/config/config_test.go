package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.MaxDBConns != 16 {
		t.Errorf("MaxDBConns = %d, want 16", cfg.MaxDBConns)
	}
	if cfg.BackupInterval != 24*time.Hour {
		t.Errorf("BackupInterval = %v, want 24h", cfg.BackupInterval)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil (allow all)", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("MAX_DB_CONNS", "4")
	t.Setenv("BACKUP_INTERVAL_MINUTES", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	if cfg.ServerPort != "9999" {
		t.Errorf("ServerPort = %q, want 9999", cfg.ServerPort)
	}
	if cfg.MaxDBConns != 4 {
		t.Errorf("MaxDBConns = %d, want 4", cfg.MaxDBConns)
	}
	if cfg.BackupInterval != 30*time.Minute {
		t.Errorf("BackupInterval = %v, want 30m", cfg.BackupInterval)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	if cfg := Load(); cfg.MaxDBConns != 16 {
		t.Errorf("MaxDBConns = %d, want fallback 16", cfg.MaxDBConns)
	}
}
