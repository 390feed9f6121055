package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfigJson(t *testing.T) {
	path := writeConfig(t, `{
		"http_port": 6060,
		"db_conn_string": "host=localhost user=pharmacy dbname=pharmacy",
		"redis_addr": "localhost:6379",
		"workflow_webhook_url": "https://automation.example.com/hook",
		"webhook_timeout": "3s",
		"msg_max_retry": 4,
		"seed_demo_data": true
	}`)

	cfg, err := ReadConfigJson(path)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.HttpPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "https://automation.example.com/hook", cfg.WorkflowWebhookUrl)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, defaultNotifyDelay, cfg.NotifyDelay)
	assert.Equal(t, 4, cfg.MsgMaxRetry)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "pharmacy.events", cfg.RabbitExchange)
	assert.Equal(t, defaultPublishTimeout, cfg.PublishTimeout)
}

func TestReadConfigJsonBoundsRetries(t *testing.T) {
	cfg, err := ReadConfigJson(writeConfig(t, `{"http_port": 6060}`))
	require.NoError(t, err)
	assert.Equal(t, defaultMsgMaxRetry, cfg.MsgMaxRetry)

	_, err = ReadConfigJson(writeConfig(t, `{"msg_max_retry": -1}`))
	assert.Error(t, err)

	_, err = ReadConfigJson(writeConfig(t, `{"publish_timeout": "0s"}`))
	assert.Error(t, err)
}

func TestReadConfigJsonEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `{"http_port": 6060, "redis_addr": "localhost:6379", "notify_delay": "2s"}`)
	t.Setenv("PHARMACY_REDIS_ADDR", "redis:6379")
	t.Setenv("PHARMACY_NOTIFY_DELAY", "500ms")

	cfg, err := ReadConfigJson(path)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.HttpPort)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.NotifyDelay)
}

func TestReadConfigJsonErrors(t *testing.T) {
	_, err := ReadConfigJson(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ReadConfigJson(writeConfig(t, `{"webhook_timeout": "soon"}`))
	assert.Error(t, err)

	_, err = ReadConfigJson(writeConfig(t, `{`))
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
}
