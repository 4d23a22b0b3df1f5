package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/V4T54L/journalview/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9091"`

	JournalDirectory   string `env:"JOURNAL_DIRECTORY"`
	JournalLocalOnly   bool   `env:"JOURNAL_LOCAL_ONLY" envDefault:"true"`
	JournalRuntimeOnly bool   `env:"JOURNAL_RUNTIME_ONLY" envDefault:"false"`
	JournalSystem      bool   `env:"JOURNAL_SYSTEM" envDefault:"true"`
	JournalCurrentUser bool   `env:"JOURNAL_CURRENT_USER" envDefault:"true"`

	MaxQueryLimit   uint64        `env:"MAX_QUERY_LIMIT" envDefault:"10000"`
	SummaryWindow   time.Duration `env:"SUMMARY_WINDOW" envDefault:"120h"`
	SummaryLimit    uint64        `env:"SUMMARY_LIMIT" envDefault:"10000"`
	UpperBoundSlack time.Duration `env:"UPPER_BOUND_SLACK" envDefault:"24h"`

	RedisAddr     string        `env:"REDIS_ADDR"` // empty disables the entry cache
	EntryCacheTTL time.Duration `env:"ENTRY_CACHE_TTL" envDefault:"10m"`

	PostgresURL    string        `env:"POSTGRES_URL"` // empty disables api keys and auditing
	APIKeyCacheTTL time.Duration `env:"API_KEY_CACHE_TTL" envDefault:"5m"`

	RedactFields []string `env:"REDACT_FIELDS" envSeparator:","`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// OpenOptions returns the journal open flags selected by the configuration.
func (c *Config) OpenOptions() domain.OpenOptions {
	return domain.OpenOptions{
		LocalOnly:   c.JournalLocalOnly,
		RuntimeOnly: c.JournalRuntimeOnly,
		System:      c.JournalSystem,
		CurrentUser: c.JournalCurrentUser,
		Directory:   c.JournalDirectory,
	}
}
