package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "putzplan.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "putzplan.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.BackupCapacity != 100 {
		t.Errorf("BackupCapacity = %d, want 100", cfg.BackupCapacity)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PUTZPLAN_LOG_LEVEL", "debug")
	t.Setenv("PUTZPLAN_DB_PATH", "/tmp/test.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
}

func TestFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: warn\nlog_format: json\nbackup_capacity: 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PUTZPLAN_CONFIG", path)
	t.Setenv("PUTZPLAN_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env to win over file, got %q", "error", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q from file", cfg.LogFormat, "json")
	}
	if cfg.BackupCapacity != 50 {
		t.Errorf("BackupCapacity = %d, want 50 from file", cfg.BackupCapacity)
	}
}

func TestInvalidBackupCapacity(t *testing.T) {
	t.Setenv("PUTZPLAN_BACKUP_CAPACITY", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero backup_capacity")
	}
}
