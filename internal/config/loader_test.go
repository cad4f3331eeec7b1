package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettingsEmptyPath(t *testing.T) {
	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(settings) != 0 {
		t.Fatalf("expected empty settings, got %v", settings)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings("/nonexistent/stress.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadSettingsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.yaml")
	content := "size: 512\nthreads: 8\nduration: 30s\nmode: client\nport: 19999\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ram := DefaultRAM()
	if err := ram.ApplySettings(settings); err != nil {
		t.Fatalf("apply ram settings: %v", err)
	}
	if ram.SizeMB != 512 || ram.Threads != 8 || ram.Duration != 30*time.Second {
		t.Fatalf("ram config = %+v", ram)
	}

	network := DefaultNetwork()
	if err := network.ApplySettings(settings); err != nil {
		t.Fatalf("apply network settings: %v", err)
	}
	if network.Mode != ModeClient || network.Port != 19999 {
		t.Fatalf("network config = %+v", network)
	}
}

func TestApplySettingsDurationForms(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"bare int is seconds", 45, 45 * time.Second},
		{"numeric string is seconds", "30", 30 * time.Second},
		{"duration string", "1500ms", 1500 * time.Millisecond},
		{"minutes", "2m", 2 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultCPU()
			if err := cfg.ApplySettings(map[string]any{"duration": tc.value}); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if cfg.Duration != tc.want {
				t.Fatalf("duration = %s, want %s", cfg.Duration, tc.want)
			}
		})
	}
}

func TestApplySettingsBadValues(t *testing.T) {
	cfg := DefaultCPU()
	if err := cfg.ApplySettings(map[string]any{"cores": "not-a-number"}); err == nil {
		t.Fatalf("expected error for non-numeric cores")
	}
	if err := cfg.ApplySettings(map[string]any{"duration": "soon"}); err == nil {
		t.Fatalf("expected error for unparseable duration")
	}
}

func TestApplySettingsIgnoresUnknownKeys(t *testing.T) {
	cfg := DefaultCPU()
	if err := cfg.ApplySettings(map[string]any{"flux": 42}); err != nil {
		t.Fatalf("unknown keys should be ignored: %v", err)
	}
	if cfg.Cores != 0 || cfg.Duration != DefaultDuration {
		t.Fatalf("config unexpectedly modified: %+v", cfg)
	}
}
