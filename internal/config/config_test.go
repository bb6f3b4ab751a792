package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.DB.Path != "incubation.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Realtime.URL != "ws://localhost:8081" || cfg.Realtime.PongWait != time.Minute {
		t.Fatalf("unexpected realtime url defaults: %+v", cfg.Realtime)
	}
	if cfg.Realtime.MaxReconnectAttempts != 5 || cfg.Realtime.ReconnectDelay != 3*time.Second {
		t.Fatalf("unexpected realtime defaults: %+v", cfg.Realtime)
	}
	if cfg.Simulator.Interval != 5*time.Second || cfg.Reminders.Schedule != "@every 1m" {
		t.Fatalf("unexpected schedule defaults: %+v %+v", cfg.Simulator, cfg.Reminders)
	}
	if !cfg.Alerts.Enabled || cfg.Alerts.Tolerance != 0.5 {
		t.Fatalf("unexpected alert defaults: %+v", cfg.Alerts)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
realtime:
  url: ws://sensor:81
  reconnect_delay: 250ms
alerts:
  tolerance: 1.5
`)
	t.Setenv("INCUBATOR_SERVER_PORT", "7070")
	t.Setenv("INCUBATOR_ALERTS_ENABLED", "false")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("env should win: port = %q", cfg.Server.Port)
	}
	if cfg.Realtime.URL != "ws://sensor:81" || cfg.Realtime.ReconnectDelay != 250*time.Millisecond {
		t.Fatalf("file values not applied: %+v", cfg.Realtime)
	}
	if cfg.Alerts.Enabled || cfg.Alerts.Tolerance != 1.5 {
		t.Fatalf("alerts = %+v", cfg.Alerts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"negative_tolerance": "alerts:\n  tolerance: -1\n",
		"zero_interval":      "simulator:\n  interval: 0s\n",
		"empty_schedule":     "reminders:\n  schedule: \"\"\n",
		"broken_yaml":        "server: [\n",
		"negative_pong_wait": "realtime:\n  pong_wait: -1s\n",
		"dials_own_port":     "server:\n  port: \"8080\"\nrealtime:\n  url: ws://localhost:8080\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDialsOwnPort(t *testing.T) {
	cases := []struct {
		url, port string
		want      bool
	}{
		{"ws://localhost:8080", "8080", true},
		{"ws://127.0.0.1:8080/feed", ":8080", true},
		{"ws://localhost:8080", "0.0.0.0:8080", true},
		{"ws://localhost", "80", true},
		{"ws://localhost:8081", "8080", false},
		{"ws://sensor:8080", "8080", false},
		{"wss://localhost", "80", false},
	}
	for _, tc := range cases {
		if got := dialsOwnPort(tc.url, tc.port); got != tc.want {
			t.Errorf("dialsOwnPort(%q, %q) = %v, want %v", tc.url, tc.port, got, tc.want)
		}
	}
}

func TestLoad_OwnPortAllowedWhenRealtimeDisabled(t *testing.T) {
	dir := writeConfig(t, "realtime:\n  enabled: false\n  url: ws://localhost:8080\n")
	if _, err := Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
