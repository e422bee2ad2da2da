package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "SEO_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	mozTokenEnv       = "MOZ_TOKEN"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Moz           MozConfig          `yaml:"moz"`
	LLM           LLMConfig          `yaml:"llm"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Cache         CacheConfig        `yaml:"cache"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Sites         []string           `yaml:"sites"`
}

// LoggingConfig sets the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details for the
// similarity index.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// MozConfig wires the backlink-metrics API client.
type MozConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	Token             string  `yaml:"token"`
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
}

// LLMConfig defines how to contact the completion API.
type LLMConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"apiKey"`
	SystemPrompt      string  `yaml:"systemPrompt"`
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
}

// ScraperConfig controls the on-page collector.
type ScraperConfig struct {
	UserAgent      string        `yaml:"userAgent"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// CacheConfig bounds how long collected analysis data stays fresh.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines the optional recurring-analysis interval; zero
// means one-shot runs only.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(mozTokenEnv); v != "" {
		c.Moz.Token = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Moz.Endpoint != "" {
		base.Moz.Endpoint = override.Moz.Endpoint
	}
	if override.Moz.Token != "" {
		base.Moz.Token = override.Moz.Token
	}
	if override.Moz.RequestsPerMinute > 0 {
		base.Moz.RequestsPerMinute = override.Moz.RequestsPerMinute
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}
	if override.LLM.RequestsPerMinute > 0 {
		base.LLM.RequestsPerMinute = override.LLM.RequestsPerMinute
	}

	if override.Scraper.UserAgent != "" {
		base.Scraper.UserAgent = override.Scraper.UserAgent
	}
	if override.Scraper.RequestTimeout > 0 {
		base.Scraper.RequestTimeout = override.Scraper.RequestTimeout
	}

	if override.Cache.TTL > 0 {
		base.Cache = override.Cache
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler = override.Scheduler
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Moz: MozConfig{
			Endpoint:          "https://api.moz.com/jsonrpc",
			RequestsPerMinute: 2, // free tier allows ~25 calls/day
		},
		LLM: LLMConfig{
			Endpoint:          "https://api.openai.com/v1/chat/completions",
			Model:             "gpt-4o-mini",
			SystemPrompt:      "You are an expert SEO analyst. Respond with JSON only.",
			RequestsPerMinute: 20,
		},
		Scraper: ScraperConfig{
			UserAgent:      "Mozilla/5.0 (compatible; SEOScanner/1.0)",
			RequestTimeout: 20 * time.Second,
		},
		Cache: CacheConfig{TTL: 24 * time.Hour},
	}
}
