package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Slack.APIURL != "https://slack.com/api" {
		t.Errorf("api url = %q", cfg.Slack.APIURL)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-from-env")
	t.Setenv("SLACK_MCP_PORT", "9000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SLACK_MCP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := config.Load()
	if cfg.Slack.BotToken != "xoxb-from-env" {
		t.Errorf("token = %q", cfg.Slack.BotToken)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("format = %q", cfg.Log.Format)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("slack:\n  bot_token: xoxb-from-file\nserver:\n  port: 7777\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SLACK_MCP_CONFIG", path)
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-env-wins")

	cfg := config.Load()
	// Env overrides file; file overrides defaults.
	if cfg.Slack.BotToken != "xoxb-env-wins" {
		t.Errorf("token = %q", cfg.Slack.BotToken)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Name != "slack-mcp-server" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
}

func TestOAuthRedirectURI(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8000
	if got := cfg.OAuthRedirectURI(); got != "http://localhost:8000/auth/slack/callback" {
		t.Errorf("redirect uri = %q", got)
	}
}

func TestValidateOAuth(t *testing.T) {
	sc := config.SlackConfig{}
	if err := sc.ValidateOAuth(); err == nil {
		t.Error("expected error with no client id")
	}
	sc.ClientID = "id"
	if err := sc.ValidateOAuth(); err == nil {
		t.Error("expected error with no client secret")
	}
	sc.ClientSecret = "secret"
	if err := sc.ValidateOAuth(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
