package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cascadecam.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}

	q, p, n := Default().KeyRunes()
	if q != 'q' || p != 'd' || n != 'f' {
		t.Errorf("default keys %q %q %q, want q d f", q, p, n)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
window: ePSXe - Enhanced PSX emulator
insets:
  border: 0
  titlebar: 0
detector:
  model: gem.png
  scales: [1]
keys:
  quit: x
display:
  poll_timeout: 15ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Window != "ePSXe - Enhanced PSX emulator" {
		t.Errorf("window: got %q", cfg.Window)
	}
	if cfg.Insets.Border != 0 || cfg.Insets.Titlebar != 0 {
		t.Errorf("insets: got %+v, want zero", cfg.Insets)
	}
	if cfg.Detector.Model != "gem.png" || len(cfg.Detector.Scales) != 1 {
		t.Errorf("detector: got %+v", cfg.Detector)
	}
	if cfg.Detector.ScaleFactor != 1.1 {
		t.Errorf("unset scale_factor should keep the default, got %v", cfg.Detector.ScaleFactor)
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Positive != "d" {
		t.Errorf("keys: got %+v", cfg.Keys)
	}
	if cfg.Display.PollTimeout != 15*time.Millisecond {
		t.Errorf("poll_timeout: got %v", cfg.Display.PollTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config is invalid: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Detector.Model != Default().Detector.Model {
		t.Errorf("empty file should give the defaults, got %+v", cfg.Detector)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "windw: typo\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name   string
		modify func(*Config)
	}{
		{"negative border", func(c *Config) { c.Insets.Border = -1 }},
		{"no model", func(c *Config) { c.Detector.Model = "" }},
		{"unknown kind", func(c *Config) { c.Detector.Kind = "yolo" }},
		{"scale factor 1", func(c *Config) { c.Detector.ScaleFactor = 1 }},
		{"zero threshold", func(c *Config) { c.Detector.Threshold = 0 }},
		{"no scales", func(c *Config) { c.Detector.Scales = nil }},
		{"bad colour", func(c *Config) { c.Annotate.Color = "green" }},
		{"zero thickness", func(c *Config) { c.Annotate.Thickness = 0 }},
		{"long key", func(c *Config) { c.Keys.Quit = "quit" }},
		{"duplicate key", func(c *Config) { c.Keys.Negative = "d" }},
		{"same output dirs", func(c *Config) { c.Output.Negative = c.Output.Positive }},
		{"zero poll", func(c *Config) { c.Display.PollTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	RegisterFlags(fs)

	err := fs.Parse([]string{"-w", "Notepad", "--border", "0", "--threshold", "0.9", "--headless", "--poll", "10ms"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg := Default()
	cfg.Insets.Titlebar = 12 // as if set by a config file
	if err := ApplyFlags(fs, &cfg); err != nil {
		t.Fatalf("ApplyFlags failed: %v", err)
	}

	if cfg.Window != "Notepad" || cfg.Insets.Border != 0 || cfg.Detector.Threshold != 0.9 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !cfg.Display.Headless || cfg.Display.PollTimeout != 10*time.Millisecond {
		t.Errorf("display flags not applied: %+v", cfg.Display)
	}
	if cfg.Insets.Titlebar != 12 {
		t.Errorf("unset flag overwrote the file value: titlebar %d", cfg.Insets.Titlebar)
	}
}

func TestParseColor(t *testing.T) {
	var tests = []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#00ff00", color.RGBA{0, 255, 0, 255}, true},
		{"FF8000", color.RGBA{255, 128, 0, 255}, true},
		{"#fff", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("error %v, want ok=%v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
