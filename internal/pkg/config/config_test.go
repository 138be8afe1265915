package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DownloadDir != "downloads" || cfg.DefaultDailyLimit != 5 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
download_dir: dl
default_daily_limit: 10
admin_ids: [42]
blocked_words: [" XXX ", "xxx", ""]
idle_poll_seconds: 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DownloadDir != "dl" {
		t.Fatalf("download_dir not applied: %q", cfg.DownloadDir)
	}
	if cfg.DefaultDailyLimit != 10 {
		t.Fatalf("default_daily_limit not applied: %d", cfg.DefaultDailyLimit)
	}
	if len(cfg.AdminIDs) != 1 || cfg.AdminIDs[0] != 42 {
		t.Fatalf("admin_ids not applied: %v", cfg.AdminIDs)
	}
	if len(cfg.BlockedWords) != 1 || cfg.BlockedWords[0] != "xxx" {
		t.Fatalf("blocked_words not normalized: %v", cfg.BlockedWords)
	}
	if cfg.IdlePoll() != time.Second {
		t.Fatalf("idle_poll not applied: %v", cfg.IdlePoll())
	}
	if cfg.TaskPause() != 2*time.Second {
		t.Fatalf("task_pause default lost: %v", cfg.TaskPause())
	}
}

func TestLoadRejectsBadLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("default_daily_limit: 0"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero limit")
	}
}
