package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix             = "PHARMACY"
	defaultWebhookTimeout = 5 * time.Second
	defaultNotifyDelay    = 2 * time.Second
	defaultPublishTimeout = 15 * time.Second
	defaultMsgMaxRetry    = 3
)

type Config struct {
	HttpPort           int    `json:"http_port" envconfig:"HTTP_PORT"`
	DbConnString       string `json:"db_conn_string" envconfig:"DB_CONN_STRING"`
	RedisAddr          string `json:"redis_addr" envconfig:"REDIS_ADDR"`
	LogLevel           string `json:"log_level" envconfig:"LOG_LEVEL"`
	PharmacyNumber     string `json:"pharmacy_number" envconfig:"PHARMACY_NUMBER"`
	WhatsAppApiUrl     string `json:"whatsapp_api_url" envconfig:"WHATSAPP_API_URL"`
	WhatsAppWebhookUrl string `json:"whatsapp_webhook_url" envconfig:"WHATSAPP_WEBHOOK_URL"`
	WorkflowWebhookUrl string `json:"workflow_webhook_url" envconfig:"WORKFLOW_WEBHOOK_URL"`
	WebhookTimeoutStr  string `json:"webhook_timeout" envconfig:"WEBHOOK_TIMEOUT"`
	NotifyDelayStr     string `json:"notify_delay" envconfig:"NOTIFY_DELAY"`
	PublishTimeoutStr  string `json:"publish_timeout" envconfig:"PUBLISH_TIMEOUT"`
	MsgMaxRetry        int    `json:"msg_max_retry" envconfig:"MSG_MAX_RETRY"`
	RabbitUrl          string `json:"rabbit_url" envconfig:"RABBIT_URL"`
	RabbitExchange     string `json:"rabbit_exchange" envconfig:"RABBIT_EXCHANGE"`
	SeedDemoData       bool   `json:"seed_demo_data" envconfig:"SEED_DEMO_DATA"`

	WebhookTimeout time.Duration `json:"-" ignored:"true"`
	NotifyDelay    time.Duration `json:"-" ignored:"true"`
	PublishTimeout time.Duration `json:"-" ignored:"true"`
}

// ReadConfigJson reads json formatted configuration from the given file.
// Variables from an optional .env file and the environment (PHARMACY_ prefix)
// override the file.
func ReadConfigJson(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := new(Config)

	if err = json.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err = envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	cfg.WebhookTimeout, err = parseDuration(cfg.WebhookTimeoutStr, defaultWebhookTimeout)
	if err != nil {
		return nil, err
	}
	cfg.NotifyDelay, err = parseDuration(cfg.NotifyDelayStr, defaultNotifyDelay)
	if err != nil {
		return nil, err
	}
	cfg.PublishTimeout, err = parseDuration(cfg.PublishTimeoutStr, defaultPublishTimeout)
	if err != nil {
		return nil, err
	}
	for name, d := range map[string]time.Duration{
		"webhook_timeout": cfg.WebhookTimeout,
		"notify_delay":    cfg.NotifyDelay,
		"publish_timeout": cfg.PublishTimeout,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	// an absent msg_max_retry means the default, never unlimited retries
	switch {
	case cfg.MsgMaxRetry == 0:
		cfg.MsgMaxRetry = defaultMsgMaxRetry
	case cfg.MsgMaxRetry < 0:
		return nil, fmt.Errorf("msg_max_retry must be positive, got %d", cfg.MsgMaxRetry)
	}

	if cfg.RabbitExchange == "" {
		cfg.RabbitExchange = "pharmacy.events"
	}

	return cfg, nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
