package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"xeyronox-link-bot/internal/domain"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string `yaml:"token" env:"BOT_TOKEN"`
	WebhookURL    string `yaml:"webhook_url" env:"WEBHOOK_URL"`       // public base URL, path is appended
	WebhookSecret string `yaml:"webhook_secret" env:"WEBHOOK_SECRET"` // optional extra path segment
	APIEndpoint   string `yaml:"api_endpoint" env:"BOT_API_ENDPOINT"` // tgbotapi format string; empty = api.telegram.org
	Timeout       int    `yaml:"timeout" env:"TIMEOUT"`               // Bot API HTTP timeout, seconds
	DryRun        bool   `yaml:"dry_run" env:"DRY_RUN"`

	AllowedUpdates     []string `yaml:"allowed_updates"`
	AllowedUpdatesEnv  string   `yaml:"-" env:"ALLOWED_UPDATES"`
	DropPendingUpdates *bool    `yaml:"drop_pending_updates" env:"DROP_PENDING_UPDATES"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port" env:"PORT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" env:"SHUTDOWN_GRACE"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"`       // trace|debug|info|warn|error
	Format   string `yaml:"format" env:"LOG_FORMAT"`     // json|console
	Sampling bool   `yaml:"sampling" env:"LOG_SAMPLING"` // enable sampling in prod
}

type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries" env:"MAX_RETRIES"`
	MinInterval time.Duration `yaml:"min_interval" env:"RETRY_MIN_INTERVAL"`
	MaxInterval time.Duration `yaml:"max_interval" env:"RETRY_MAX_INTERVAL"`
}

type WorkerConfig struct {
	Workers   int `yaml:"workers" env:"WORKERS"`
	QueueSize int `yaml:"queue_size" env:"QUEUE_SIZE"`
}

type RedisConfig struct {
	URL      string `yaml:"url" env:"REDIS_URL"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type DedupConfig struct {
	TTL time.Duration `yaml:"ttl" env:"DEDUP_TTL"`
}

type WisdomConfig struct {
	ChatID int64  `yaml:"chat_id" env:"DAILY_WISDOM_CHAT_ID"` // 0 disables the broadcast
	Cron   string `yaml:"cron" env:"DAILY_WISDOM_CRON"`
}

type Config struct {
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
	Debug       bool   `yaml:"debug" env:"DEBUG"`

	Bot    BotConfig    `yaml:"bot"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
	Retry  RetryConfig  `yaml:"retry"`
	Worker WorkerConfig `yaml:"worker"`
	Redis  RedisConfig  `yaml:"redis"`
	Dedup  DedupConfig  `yaml:"dedup"`
	Wisdom WisdomConfig `yaml:"wisdom"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	DefaultPort       = 10000
	DefaultWebhookDir = "/webhook"
	DefaultWisdomCron = "0 9 * * *"
)

// Update kinds accepted by setWebhook's allowed_updates.
var knownUpdateTypes = map[string]struct{}{
	"message":              {},
	"edited_message":       {},
	"channel_post":         {},
	"edited_channel_post":  {},
	"inline_query":         {},
	"chosen_inline_result": {},
	"callback_query":       {},
	"shipping_query":       {},
	"pre_checkout_query":   {},
	"poll":                 {},
	"poll_answer":          {},
	"my_chat_member":       {},
	"chat_member":          {},
	"chat_join_request":    {},
}

var secretRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

// LoadConfig reads the optional YAML file at path, overlays environment
// variables and applies defaults. Every failure wraps domain.ErrConfiguration.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read config: %v", domain.ErrConfiguration, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config: %v", domain.ErrConfiguration, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", domain.ErrConfiguration, err)
	}
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Bot.AllowedUpdatesEnv != "" {
		list, err := ParseAllowedUpdates(cfg.Bot.AllowedUpdatesEnv)
		if err != nil {
			return nil, err
		}
		cfg.Bot.AllowedUpdates = list
	}

	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev || cfg.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 5 * time.Second
	}
	if cfg.HTTP.ShutdownGrace <= 0 {
		cfg.HTTP.ShutdownGrace = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Bot.Timeout <= 0 {
		cfg.Bot.Timeout = 30
	}
	if len(cfg.Bot.AllowedUpdates) == 0 {
		cfg.Bot.AllowedUpdates = []string{"message", "callback_query"}
	}
	if cfg.Bot.DropPendingUpdates == nil {
		drop := true
		cfg.Bot.DropPendingUpdates = &drop
	}
	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.MinInterval <= 0 {
		cfg.Retry.MinInterval = 4 * time.Second
	}
	if cfg.Retry.MaxInterval <= 0 {
		cfg.Retry.MaxInterval = 10 * time.Second
	}
	if cfg.Retry.MaxInterval < cfg.Retry.MinInterval {
		cfg.Retry.MaxInterval = cfg.Retry.MinInterval
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 8
	}
	if cfg.Worker.QueueSize <= 0 {
		cfg.Worker.QueueSize = 256
	}
	if cfg.Dedup.TTL <= 0 {
		cfg.Dedup.TTL = time.Hour
	}
	if cfg.Wisdom.Cron == "" {
		cfg.Wisdom.Cron = DefaultWisdomCron
	}
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return fmt.Errorf("%w: BOT_TOKEN is required", domain.ErrConfiguration)
	}
	if !c.Bot.DryRun {
		if c.Bot.WebhookURL == "" {
			return fmt.Errorf("%w: WEBHOOK_URL is required", domain.ErrConfiguration)
		}
		u, err := url.Parse(c.Bot.WebhookURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("%w: WEBHOOK_URL %q must be an absolute http(s) URL", domain.ErrConfiguration, c.Bot.WebhookURL)
		}
	}
	if c.Bot.WebhookSecret != "" && !secretRe.MatchString(c.Bot.WebhookSecret) {
		return fmt.Errorf("%w: WEBHOOK_SECRET may only contain A-Z, a-z, 0-9, _ and -", domain.ErrConfiguration)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", domain.ErrConfiguration, c.HTTP.Port)
	}
	if err := validateUpdateTypes(c.Bot.AllowedUpdates); err != nil {
		return err
	}
	return nil
}

// ParseAllowedUpdates accepts either a YAML/JSON list (`["message", "callback_query"]`)
// or a comma separated list. Every entry must be a known update type; the value is
// only ever parsed as data.
func ParseAllowedUpdates(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := yaml.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("%w: ALLOWED_UPDATES is not a list: %v", domain.ErrConfiguration, err)
		}
	} else {
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it == "" {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	if err := validateUpdateTypes(out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: ALLOWED_UPDATES is empty", domain.ErrConfiguration)
	}
	return out, nil
}

func validateUpdateTypes(list []string) error {
	var bad []string
	for _, it := range list {
		if _, ok := knownUpdateTypes[it]; !ok {
			bad = append(bad, it)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: unknown update types %q", domain.ErrConfiguration, bad)
	}
	return nil
}

// WebhookPath is the ingress route Telegram posts to.
func (b BotConfig) WebhookPath() string {
	if b.WebhookSecret == "" {
		return DefaultWebhookDir
	}
	return DefaultWebhookDir + "/" + b.WebhookSecret
}

// WebhookEndpoint is the full URL registered with setWebhook.
func (b BotConfig) WebhookEndpoint() string {
	return strings.TrimRight(b.WebhookURL, "/") + b.WebhookPath()
}

func (b BotConfig) DropPending() bool {
	return b.DropPendingUpdates == nil || *b.DropPendingUpdates
}

func (b BotConfig) RequestTimeout() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}
