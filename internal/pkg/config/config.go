package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDownloadDir  = "downloads"
	defaultMetadataDir  = "metadata"
	defaultDailyLimit   = 5
	defaultIdleSeconds  = 5
	defaultPauseSeconds = 2
	defaultFaultSeconds = 10
	defaultPremiumDays  = 30
)

// Config describes runtime configuration for the bot. Secrets
// (bot token, database DSN) come from the environment, not from here.
type Config struct {
	DownloadDir       string   `yaml:"download_dir"`
	MetadataDir       string   `yaml:"metadata_dir"`
	DefaultDailyLimit int      `yaml:"default_daily_limit"`
	AdminIDs          []int64  `yaml:"admin_ids"`
	BlockedWords      []string `yaml:"blocked_words"`
	IdlePollSeconds   int      `yaml:"idle_poll_seconds"`
	TaskPauseSeconds  int      `yaml:"task_pause_seconds"`
	FaultBackoffSecs  int      `yaml:"fault_backoff_seconds"`
	PremiumDays       int      `yaml:"premium_days"`
}

// Default returns defaults matching the observed production settings.
func Default() Config {
	return Config{
		DownloadDir:       defaultDownloadDir,
		MetadataDir:       defaultMetadataDir,
		DefaultDailyLimit: defaultDailyLimit,
		IdlePollSeconds:   defaultIdleSeconds,
		TaskPauseSeconds:  defaultPauseSeconds,
		FaultBackoffSecs:  defaultFaultSeconds,
		PremiumDays:       defaultPremiumDays,
	}
}

// Load reads YAML config from the provided path. A missing or empty
// file yields the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("empty config path")
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if len(fileData) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(fileData, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaultDownloadDir
	}
	if cfg.MetadataDir == "" {
		cfg.MetadataDir = defaultMetadataDir
	}
	if cfg.DefaultDailyLimit < 1 {
		return cfg, fmt.Errorf("invalid default_daily_limit: %d (must be >= 1)", cfg.DefaultDailyLimit)
	}
	if cfg.IdlePollSeconds <= 0 {
		cfg.IdlePollSeconds = defaultIdleSeconds
	}
	if cfg.TaskPauseSeconds <= 0 {
		cfg.TaskPauseSeconds = defaultPauseSeconds
	}
	if cfg.FaultBackoffSecs <= 0 {
		cfg.FaultBackoffSecs = defaultFaultSeconds
	}
	if cfg.PremiumDays <= 0 {
		cfg.PremiumDays = defaultPremiumDays
	}
	cfg.BlockedWords = normalizeWords(cfg.BlockedWords)
	return cfg, nil
}

// IdlePoll is the wait between queue polls when the queue is empty.
func (c Config) IdlePoll() time.Duration {
	return time.Duration(c.IdlePollSeconds) * time.Second
}

// TaskPause is the pause between finished tasks, bounding outbound
// message rate.
func (c Config) TaskPause() time.Duration {
	return time.Duration(c.TaskPauseSeconds) * time.Second
}

// FaultBackoff is the wait after an unhandled worker loop fault.
func (c Config) FaultBackoff() time.Duration {
	return time.Duration(c.FaultBackoffSecs) * time.Second
}

// PremiumPeriod is the default premium grant duration.
func (c Config) PremiumPeriod() time.Duration {
	return time.Duration(c.PremiumDays) * 24 * time.Hour
}

func normalizeWords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	normalized := make([]string, 0, len(in))
	for _, word := range in {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		normalized = append(normalized, w)
	}
	return normalized
}
