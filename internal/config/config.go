// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ClientURL      string        `yaml:"client_url"` // CORS origin of the web client
	BodyLimit      int64         `yaml:"body_limit"` // bytes
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Locale         string        `yaml:"locale"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey       string        `yaml:"openai_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	GeminiKey       string        `yaml:"gemini_key"`
	DefaultModel    string        `yaml:"default_model"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent AI calls
	Timeout         time.Duration `yaml:"timeout"`
	HistoryTurns    int           `yaml:"history_turns"` // turns sent as context
	PromptBudget    int           `yaml:"prompt_token_budget"`
}

// NotifyConfig configures counselor alerts for new session bookings.
type NotifyConfig struct {
	TelegramToken string  `yaml:"telegram_token"`
	CounselorIDs  []int64 `yaml:"counselor_ids"`
	Workers       int     `yaml:"workers"`
	QueueSize     int     `yaml:"queue_size"`
}

type CommunityConfig struct {
	Retention     time.Duration `yaml:"retention"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Notify    NotifyConfig    `yaml:"notify"`
	Community CommunityConfig `yaml:"community"`
	Security  SecurityConfig  `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, then a .env file if present, then
// environment overrides. The file may be missing when everything comes from
// the environment.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(&cfg)

	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if n := len(cfg.Security.EncryptionKey); n != 0 && n != 32 {
		return nil, errors.New("security.encryption_key must be 32 bytes")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("DATABASE_URL", &cfg.Database.URL)
	str("REDIS_URL", &cfg.Redis.URL)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("GEMINI_API_KEY", &cfg.AI.GeminiKey)
	str("OPENAI_API_KEY", &cfg.AI.OpenAIKey)
	str("CLIENT_URL", &cfg.Server.ClientURL)
	str("ENCRYPTION_KEY", &cfg.Security.EncryptionKey)
	str("TELEGRAM_TOKEN", &cfg.Notify.TelegramToken)
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Server.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ClientURL == "" {
		cfg.Server.ClientURL = "http://localhost:5173"
	}
	if cfg.Server.BodyLimit <= 0 {
		cfg.Server.BodyLimit = 10 << 10
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.Locale == "" {
		cfg.Server.Locale = "en"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 100
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60 * time.Second
	}
	if cfg.AI.HistoryTurns <= 0 {
		cfg.AI.HistoryTurns = 10
	}
	if cfg.AI.PromptBudget <= 0 {
		cfg.AI.PromptBudget = 3000
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.5-flash"
	}
	if cfg.Notify.Workers <= 0 {
		cfg.Notify.Workers = 2
	}
	if cfg.Notify.QueueSize <= 0 {
		cfg.Notify.QueueSize = 64
	}
	if cfg.Community.Retention <= 0 {
		cfg.Community.Retention = 7 * 24 * time.Hour
	}
	if cfg.Community.PurgeInterval <= 0 {
		cfg.Community.PurgeInterval = time.Hour
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
