package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbegin/manifold-go/internal/profile"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Condition() != profile.Healthy {
		t.Fatalf("condition = %s", cfg.Condition())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if cfg == nil || cfg.Audio.SampleRate != 44100 {
		t.Fatalf("defaults not returned: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifold.yaml")
	data := `
audio:
  sample_rate: 48000
  backend: beep
session:
  condition: mania
  variant: torus
palette:
  mania: "#ff0000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Audio.SampleRate != 48000 || cfg.Audio.Backend != "beep" {
		t.Fatalf("audio = %+v", cfg.Audio)
	}
	if cfg.Audio.MasterVolume != 1 || cfg.Render.Width != 960 {
		t.Fatalf("unset fields lost their defaults: %+v %+v", cfg.Audio, cfg.Render)
	}
	if cfg.Condition() != profile.Mania || cfg.Palette["mania"] != "#ff0000" {
		t.Fatalf("session = %+v palette = %v", cfg.Session, cfg.Palette)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"unknown field", "audio:\n  volume: 2\n", "parse config"},
		{"bad condition", "session:\n  condition: bliss\n", "session.condition"},
		{"bad backend", "audio:\n  backend: alsa\n", "audio.backend"},
		{"bad palette", "palette:\n  mania: red\n", "palette"},
		{"bad level", "log:\n  level: loud\n", "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if cfg.Session.Condition != string(profile.Healthy) {
				t.Fatalf("bad file leaked into config: %+v", cfg.Session)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.SampleRate = 10
	cfg.Render.Width = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "sample_rate") || !strings.Contains(msg, "render size") {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Session.Condition = string(profile.Paranoid)
	cfg.Audio.Seed = 42
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Condition() != profile.Paranoid || got.Audio.Seed != 42 {
		t.Fatalf("got %+v", got)
	}
}
