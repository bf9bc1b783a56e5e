package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.NarrowOnJump {
		t.Error("narrow_on_jump should default to true")
	}
	if cfg.Debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", cfg.Debounce)
	}
	if cfg.Panel.Width != 32 {
		t.Errorf("panel.width = %d, want 32", cfg.Panel.Width)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
narrow_on_jump: false
debounce: 120ms
panel:
  width: 40
log:
  level: DEBUG
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NarrowOnJump {
		t.Error("expected narrow_on_jump false")
	}
	if cfg.Debounce != 120*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Debounce)
	}
	if cfg.Panel.Width != 40 {
		t.Errorf("panel.width = %d", cfg.Panel.Width)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want normalized debug", cfg.Log.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "debounce: 120ms\n")
	t.Setenv("MDTREE_DEBOUNCE", "30ms")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Debounce != 30*time.Millisecond {
		t.Errorf("debounce = %v, want env override 30ms", cfg.Debounce)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, "debounce"},
		{"huge debounce", func(c *Config) { c.Debounce = time.Minute }, "debounce"},
		{"narrow panel", func(c *Config) { c.Panel.Width = 2 }, "panel.width"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error mentioning %q, got %v", tt.errMsg, err)
			}
		})
	}
}
