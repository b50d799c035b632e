// Package config handles application configuration from environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	SpreadsheetID string
	APIKey        string
	SheetsBaseURL string

	ListenAddr      string
	DatabasePath    string
	LogLevel        string
	RefreshSchedule string
	FetchTimeout    time.Duration
	Location        *time.Location
	// MockSeed seeds the mock generator. Zero picks a seed at startup.
	MockSeed uint64

	TelegramBotToken string
	TelegramChatID   int64

	Sheets  SheetNames
	Columns ColumnAliases
}

// SheetNames overrides the spreadsheet tab names.
type SheetNames struct {
	Blogs    string `yaml:"blogs"`
	GmbPosts string `yaml:"gmbPosts"`
	Replies  string `yaml:"replies"`
}

// ColumnAliases lists extra header texts per canonical field, per sheet.
type ColumnAliases struct {
	Blogs    map[string][]string `yaml:"blogs"`
	GmbPosts map[string][]string `yaml:"gmbPosts"`
	Replies  map[string][]string `yaml:"replies"`
}

// File is the shape of the PORTAL_CONFIG YAML file. Environment variables
// take precedence over the schedule and timezone set here.
type File struct {
	RefreshSchedule string        `yaml:"refreshSchedule"`
	Timezone        string        `yaml:"timezone"`
	Sheets          SheetNames    `yaml:"sheets"`
	Columns         ColumnAliases `yaml:"columns"`
}

// Load reads configuration from the environment, layered over the YAML
// file named by PORTAL_CONFIG when it is set.
func Load() (*Config, error) {
	var file File
	if path := os.Getenv("PORTAL_CONFIG"); path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		SpreadsheetID:    os.Getenv("GOOGLE_SHEETS_ID"),
		APIKey:           os.Getenv("GOOGLE_API_KEY"),
		SheetsBaseURL:    os.Getenv("SHEETS_BASE_URL"),
		ListenAddr:       envOr("LISTEN_ADDR", ":3000"),
		DatabasePath:     envOr("DATABASE_PATH", "./data/portal.db"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		RefreshSchedule:  envOr("REFRESH_SCHEDULE", orDefault(file.RefreshSchedule, "@every 1h")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		Sheets:           file.Sheets,
		Columns:          file.Columns,
	}

	timeout, err := time.ParseDuration(envOr("FETCH_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.FetchTimeout = timeout

	tz := envOr("TIMEZONE", orDefault(file.Timezone, "Local"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if raw := os.Getenv("MOCK_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MOCK_SEED %q: %w", raw, err)
		}
		cfg.MockSeed = seed
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = chatID
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return cfg, nil
}

// SheetsConfigured reports whether live spreadsheet reads are possible.
func (c *Config) SheetsConfigured() bool {
	return c.SpreadsheetID != "" && c.APIKey != ""
}

// AlertsEnabled reports whether Telegram alerts are configured.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramBotToken != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
