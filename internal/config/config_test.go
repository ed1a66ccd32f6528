package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultsMatchEngine(t *testing.T) {
	cfg, err := parse(defaultSnakeYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultSnakeConfig() {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, DefaultSnakeConfig())
	}

	ec, err := cfg.Engine()
	if err != nil {
		t.Fatalf("Engine() failed: %v", err)
	}
	if ec != snake.DefaultConfig() {
		t.Errorf("Engine() = %+v, want %+v", ec, snake.DefaultConfig())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "snake.yaml", "grid_size: 12\nmin_speed_ms: 80\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GridSize != 12 || cfg.MinSpeedMs != 80 {
		t.Errorf("explicit fields not applied: %+v", cfg)
	}
	// Missing fields keep their defaults.
	if cfg.InitialSpeedMs != 150 || cfg.SpeedIncrementMs != 3 || cfg.InitialLength != 3 {
		t.Errorf("missing fields lost their defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file should fail")
	}

	path := writeFile(t, t.TempDir(), "bad.yaml", "grid_size: [oops\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, ".snake/configs/snake.yaml", "grid_size: 30\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GridSize != 30 {
		t.Errorf("GridSize = %d, want 30 from user config", cfg.GridSize)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	// A broken user file is skipped.
	writeFile(t, home, ".snake/configs/snake.yaml", "::not yaml::\n\t- [")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != DefaultSnakeConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestEngineRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SnakeConfig)
	}{
		{"zero grid", func(c *SnakeConfig) { c.GridSize = 0 }},
		{"zero speed", func(c *SnakeConfig) { c.InitialSpeedMs = 0 }},
		{"min above initial", func(c *SnakeConfig) { c.MinSpeedMs = c.InitialSpeedMs + 1 }},
		{"negative increment", func(c *SnakeConfig) { c.SpeedIncrementMs = -1 }},
		{"snake too long", func(c *SnakeConfig) { c.InitialLength = c.GridSize }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSnakeConfig()
			tc.modify(&cfg)
			_, err := cfg.Engine()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Engine() error = %v, want ErrInvalid", err)
			}
			if !errors.Is(err, snake.ErrInvalidConfig) {
				t.Errorf("Engine() error = %v, want it to wrap snake.ErrInvalidConfig", err)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.GridSize = 25

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	got, err := parse(data)
	if err != nil {
		t.Fatalf("parse() failed: %v\n%s", err, data)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadEnvMissingFileIsFine(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadEnv() of a missing file = %v", err)
	}
}

func TestHostFromEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "SNAKE_WEB_ADDR=:9090\nSNAKE_DB=/tmp/from-file.db\n")

	t.Setenv(EnvSSHAddr, "")
	t.Setenv(EnvWebAddr, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvIdleTimeout, "")
	// Process environment wins over the file.
	t.Setenv(EnvDBPath, "/tmp/from-env.db")
	os.Unsetenv(EnvWebAddr)

	if err := LoadEnv(envFile); err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	h, err := HostFromEnv()
	if err != nil {
		t.Fatalf("HostFromEnv() failed: %v", err)
	}

	want := DefaultHostSettings()
	want.WebAddr = ":9090"
	want.DBPath = "/tmp/from-env.db"
	if h != want {
		t.Errorf("HostFromEnv() = %+v, want %+v", h, want)
	}
}

func TestHostFromEnvIdleTimeout(t *testing.T) {
	t.Setenv(EnvIdleTimeout, "5m")
	h, err := HostFromEnv()
	if err != nil {
		t.Fatalf("HostFromEnv() failed: %v", err)
	}
	if h.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %s, want 5m", h.IdleTimeout)
	}

	t.Setenv(EnvIdleTimeout, "soon")
	if _, err := HostFromEnv(); !errors.Is(err, ErrInvalid) {
		t.Errorf("HostFromEnv() error = %v, want ErrInvalid", err)
	}
}
