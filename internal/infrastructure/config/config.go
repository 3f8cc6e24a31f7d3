// Package config loads the process configuration once at startup: compiled
// defaults, then an optional YAML file, then environment overrides. The
// resulting value is passed into constructors explicitly — nothing reads
// configuration through ambient global lookup after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Slack  SlackConfig  `yaml:"slack"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type SlackConfig struct {
	// APIURL is overridable for tests; production leaves the default.
	APIURL       string `yaml:"api_url"`
	BotToken     string `yaml:"bot_token"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

func Default() Config {
	return Config{
		Slack: SlackConfig{
			APIURL: "https://slack.com/api",
		},
		Server: ServerConfig{
			Name:    "slack-mcp-server",
			Version: "0.1.0",
			Host:    "0.0.0.0",
			Port:    8000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. File resolution order: $SLACK_MCP_CONFIG,
// ./slack-mcp.yaml, ~/.slack-mcp/config.yaml; the first that exists wins.
// A missing file is not an error — defaults plus env are a complete config.
func Load() Config {
	cfg := Default()

	if path := configPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// Malformed files are ignored rather than fatal; env vars can
			// still produce a working config.
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	applyEnv(&cfg)
	return cfg
}

func configPath() string {
	if path := os.Getenv("SLACK_MCP_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("slack-mcp.yaml"); err == nil {
		return "slack-mcp.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".slack-mcp", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	setString(&cfg.Slack.APIURL, "SLACK_API_URL")
	setString(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.Slack.ClientID, "SLACK_CLIENT_ID")
	setString(&cfg.Slack.ClientSecret, "SLACK_CLIENT_SECRET")
	setString(&cfg.Server.Host, "SLACK_MCP_HOST")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("SLACK_MCP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// OAuthRedirectURI is where the authorization-code callback lands.
func (c Config) OAuthRedirectURI() string {
	return fmt.Sprintf("http://%s:%d/auth/slack/callback", c.Server.Host, c.Server.Port)
}

// ValidateOAuth reports whether the OAuth client settings are complete
// enough to run the authorization-code flow.
func (c SlackConfig) ValidateOAuth() error {
	if c.ClientID == "" {
		return fmt.Errorf("SLACK_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("SLACK_CLIENT_SECRET is required")
	}
	return nil
}
