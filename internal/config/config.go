package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. INCUBATOR_SERVER_PORT.
const EnvPrefix = "INCUBATOR"

// Config represents the full application configuration surface.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// RealtimeConfig drives the sensor WebSocket client.
type RealtimeConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	URL                  string        `mapstructure:"url"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts"`
	ReconnectDelay       time.Duration `mapstructure:"reconnect_delay"`
	PongWait             time.Duration `mapstructure:"pong_wait"`
}

type SimulatorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// AlertsConfig seeds the settings document on first run.
type AlertsConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Tolerance float64 `mapstructure:"tolerance"`
}

type RemindersConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// WebhookConfig is optional; an empty URL disables the sink.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.path", "incubation.db")
	v.SetDefault("realtime.enabled", true)
	// the sensor endpoint must not share server.port on this host
	v.SetDefault("realtime.url", "ws://localhost:8081")
	v.SetDefault("realtime.max_reconnect_attempts", 5)
	v.SetDefault("realtime.reconnect_delay", "3s")
	v.SetDefault("realtime.pong_wait", "60s")
	v.SetDefault("simulator.interval", "5s")
	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.tolerance", 0.5)
	v.SetDefault("reminders.schedule", "@every 1m")
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", "5s")
}

// Load reads .env (if present), then configDir/config.yml (if present), then
// INCUBATOR_* environment variables, over built-in defaults.
func Load(configDir string) (*Config, error) {
	// missing .env files are fine; the environment may be set directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch {
	case c.Server.Port == "":
		return errors.New("server.port must be provided")
	case c.DB.Path == "":
		return errors.New("db.path must be provided")
	case c.Simulator.Interval <= 0:
		return errors.New("simulator.interval must be positive")
	case c.Alerts.Tolerance < 0:
		return errors.New("alerts.tolerance must not be negative")
	case c.Realtime.MaxReconnectAttempts < 0:
		return errors.New("realtime.max_reconnect_attempts must not be negative")
	case c.Realtime.ReconnectDelay < 0:
		return errors.New("realtime.reconnect_delay must not be negative")
	case c.Realtime.PongWait < 0:
		return errors.New("realtime.pong_wait must not be negative")
	case c.Reminders.Schedule == "":
		return errors.New("reminders.schedule must be provided")
	case c.Realtime.Enabled && dialsOwnPort(c.Realtime.URL, c.Server.Port):
		return fmt.Errorf("realtime.url %q points at this server (server.port %q)", c.Realtime.URL, c.Server.Port)
	}
	return nil
}

// dialsOwnPort reports whether rawURL targets a loopback host on the HTTP
// server's own port. port is "8080", ":8080" or "host:8080".
func dialsOwnPort(rawURL, port string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
	default:
		return false
	}

	if _, p, err := net.SplitHostPort(port); err == nil {
		port = p
	}
	target := u.Port()
	if target == "" {
		target = "80"
		if u.Scheme == "wss" {
			target = "443"
		}
	}
	return target == port
}
