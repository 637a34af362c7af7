package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API        APIConfig        `yaml:"api"`
	Cache      CacheConfig      `yaml:"cache"`
	Builder    BuilderConfig    `yaml:"builder"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Key         string        `yaml:"key"`          // usually injected via API_FOOTBALL_KEY
	Timezone    string        `yaml:"timezone"`     // e.g. "Europe/Belgrade"
	MinInterval time.Duration `yaml:"min_interval"` // pacing between upstream requests
	MaxRetries  int           `yaml:"max_retries"`
	BackoffBase time.Duration `yaml:"backoff_base"` // doubled after each transient failure
	Timeout     time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Dir          string `yaml:"dir"`           // root of per-day JSON snapshots
	FallbackDays int    `yaml:"fallback_days"` // how many previous days a read may fall back to
}

type BuilderConfig struct {
	AttemptsPerLeg int   `yaml:"attempts_per_leg"` // greedy attempts multiplier per pool leg
	MixerSeed           int64 `yaml:"mixer_seed"`             // 0 derives the seed from the batch date
}

type ScoringConfig struct {
	SafeOddsMin    float64 `yaml:"safe_odds_min"`    // conservative per-leg zone, e.g. 1.10
	SafeOddsMax    float64 `yaml:"safe_odds_max"`    // e.g. 1.40
	IdealLegOdds   float64 `yaml:"ideal_leg_odds"`   // sweet-spot peak for average leg odds
	IdealTotalOdds float64 `yaml:"ideal_total_odds"` // peak of the total-odds window score
}

type EnrichmentConfig struct {
	Enabled   bool          `yaml:"enabled"`
	APIKey    string        `yaml:"api_key"` // usually injected via OPENAI_API_KEY
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	MaxLegs   int           `yaml:"max_legs"` // budget cap on enriched legs per run
	Timeout   time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"` // usually injected via TELEGRAM_BOT_TOKEN
	ChatID   int64  `yaml:"chat_id"`   // usually injected via TELEGRAM_MORNING_CHAT_ID
}

type ExportConfig struct {
	PublicDir   string  `yaml:"public_dir"`    // where tickets.json / btts_feed.json / evaluation.json land
	BTTSOddsMin float64 `yaml:"btts_odds_min"` // BTTS feed odds window, e.g. 1.20
	BTTSOddsMax float64 `yaml:"btts_odds_max"` // e.g. 1.60
}

type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// applyEnv overrides file values with environment variables where set.
// Secrets are expected to arrive this way in production.
func (c *Config) applyEnv() {
	if v := os.Getenv("API_FOOTBALL_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("API_FOOTBALL_TIMEZONE"); v != "" {
		c.API.Timezone = v
	}
	if v := os.Getenv("API_FOOTBALL_MIN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.MinInterval = d
		}
	}
	if v := os.Getenv("API_FOOTBALL_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.MaxRetries = n
		}
	}
	if v := os.Getenv("API_FOOTBALL_BACKOFF_BASE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.BackoffBase = d
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_MORNING_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Enrichment.APIKey = v
	}
}
