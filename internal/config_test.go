package internal

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.RulesetPath)
	assert.True(t, cfg.RulesetWatch)
	assert.Equal(t, "mock", cfg.AIProvider)
	assert.Equal(t, "none", cfg.PhotoProvider)
	assert.Equal(t, 20, cfg.RateLimitGenerate)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RULESET_PATH", "/etc/kyrisk/ruleset.yaml")
	t.Setenv("RULESET_WATCH", "false")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("AI_RETRY_BASE_DELAY", "250ms")
	t.Setenv("PHOTO_PROVIDER", "local")
	t.Setenv("RATE_LIMIT_GENERATE", "not-a-number")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/etc/kyrisk/ruleset.yaml", cfg.RulesetPath)
	assert.False(t, cfg.RulesetWatch)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.AIRetryBaseDelay)
	assert.Equal(t, "local", cfg.PhotoProvider)
	assert.Equal(t, 20, cfg.RateLimitGenerate, "unparseable values fall back")
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown ai provider", map[string]string{"AI_PROVIDER": "openai"}, "AI_PROVIDER"},
		{"anthropic without key", map[string]string{"AI_PROVIDER": "anthropic"}, "ANTHROPIC_API_KEY"},
		{"unknown photo provider", map[string]string{"PHOTO_PROVIDER": "s3"}, "PHOTO_PROVIDER"},
		{"r2 without bucket", map[string]string{
			"PHOTO_PROVIDER":       "r2",
			"R2_ACCOUNT_ID":        "acct",
			"R2_ACCESS_KEY_ID":     "key",
			"R2_SECRET_ACCESS_KEY": "secret",
		}, "R2_BUCKET_NAME"},
		{"zero rate limit", map[string]string{"RATE_LIMIT_GENERATE": "0"}, "RATE_LIMIT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "production", "warn").Info("hidden")
	NewLogger(&buf, "production", "warn").Warn("shown", "trade", "slope-work")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "JSON outside development")
	assert.Contains(t, out, `"trade":"slope-work"`)

	buf.Reset()
	NewLogger(&buf, "development", "nonsense").Info("text line")
	assert.Contains(t, buf.String(), "msg=\"text line\"")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
