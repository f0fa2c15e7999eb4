// Package config assembles the run configuration from built-in defaults, an
// optional YAML file and command line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DaniruKun/cascadecam/wincap"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Window   string         `yaml:"window"` // exact window title, empty for the desktop
	Replay   string         `yaml:"replay"` // still image served in place of the live window
	Insets   wincap.Insets  `yaml:"insets"`
	Detector DetectorConfig `yaml:"detector"`
	Annotate AnnotateConfig `yaml:"annotate"`
	Keys     KeysConfig     `yaml:"keys"`
	Output   OutputConfig   `yaml:"output"`
	Display  DisplayConfig  `yaml:"display"`
}

type DetectorConfig struct {
	Kind  string `yaml:"kind"` // cascade or template, guessed from Model when empty
	Model string `yaml:"model"`

	ScaleFactor  float64 `yaml:"scale_factor"`
	MinNeighbors int     `yaml:"min_neighbors"`
	MinSize      int     `yaml:"min_size"`
	MaxSize      int     `yaml:"max_size"`

	Scales        []float64 `yaml:"scales"`
	Threshold     float64   `yaml:"threshold"`
	Overlap       float64   `yaml:"overlap"`
	MaxDetections int       `yaml:"max_detections"`
}

type AnnotateConfig struct {
	Color     string `yaml:"color"` // #rrggbb
	Thickness int    `yaml:"thickness"`
	CycleHue  bool   `yaml:"cycle_hue"`
}

type KeysConfig struct {
	Quit     string `yaml:"quit"`
	Positive string `yaml:"positive"`
	Negative string `yaml:"negative"`
}

type OutputConfig struct {
	Positive string `yaml:"positive"`
	Negative string `yaml:"negative"`
	Format   string `yaml:"format"`
}

type DisplayConfig struct {
	Title       string        `yaml:"title"`
	Headless    bool          `yaml:"headless"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
	MaxFrames   int           `yaml:"max_frames"`
	PrintFPS    bool          `yaml:"print_fps"`
}

func Default() Config {
	return Config{
		Insets: wincap.DefaultInsets(),
		Detector: DetectorConfig{
			Model:        "assets/cascade_training/cascade.xml",
			ScaleFactor:  1.1,
			MinNeighbors: 3,
			Scales:       []float64{0.8, 0.9, 1, 1.1, 1.25},
			Threshold:    0.8,
			Overlap:      0.3,
		},
		Annotate: AnnotateConfig{Color: "#00ff00", Thickness: 2},
		Keys:     KeysConfig{Quit: "q", Positive: "d", Negative: "f"},
		Output: OutputConfig{
			Positive: "assets/positive",
			Negative: "assets/negative",
			Format:   "jpg",
		},
		Display: DisplayConfig{
			Title:       "Computer Vision",
			PollTimeout: time.Millisecond,
			PrintFPS:    true,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. Unknown
// keys are rejected. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Insets.Border >= 0 && c.Insets.Titlebar >= 0, "insets must not be negative")

	d := c.Detector
	check(d.Model != "", "detector.model is required")
	check(d.Kind == "" || d.Kind == "cascade" || d.Kind == "template", "detector.kind %q is not cascade or template", d.Kind)
	check(d.ScaleFactor > 1, "detector.scale_factor must be greater than 1")
	check(d.MinNeighbors >= 0, "detector.min_neighbors must not be negative")
	check(d.MinSize >= 0 && d.MaxSize >= 0, "detector.min_size and max_size must not be negative")
	check(d.MaxSize == 0 || d.MaxSize >= d.MinSize, "detector.max_size is below min_size")
	check(len(d.Scales) > 0, "detector.scales must not be empty")
	for _, s := range d.Scales {
		check(s > 0, "detector.scales contains non-positive %v", s)
	}
	check(d.Threshold > 0 && d.Threshold <= 1, "detector.threshold must be in (0, 1]")
	check(d.Overlap >= 0 && d.Overlap <= 1, "detector.overlap must be in [0, 1]")
	check(d.MaxDetections >= 0, "detector.max_detections must not be negative")

	_, err := ParseColor(c.Annotate.Color)
	check(err == nil, "annotate.color: %v", err)
	check(c.Annotate.Thickness > 0, "annotate.thickness must be positive")

	keys := map[string]string{"quit": c.Keys.Quit, "positive": c.Keys.Positive, "negative": c.Keys.Negative}
	seen := map[string]string{}
	for _, name := range []string{"quit", "positive", "negative"} {
		k := keys[name]
		if utf8.RuneCountInString(k) != 1 {
			check(false, "keys.%s must be a single character, got %q", name, k)
			continue
		}
		if other, dup := seen[k]; dup {
			check(false, "keys.%s and keys.%s are both %q", other, name, k)
		}
		seen[k] = name
	}

	check(c.Output.Positive != "" && c.Output.Negative != "", "output directories are required")
	check(c.Output.Positive != c.Output.Negative, "output.positive and output.negative must differ")
	check(c.Output.Format != "", "output.format is required")

	check(c.Display.PollTimeout > 0, "display.poll_timeout must be positive")
	check(c.Display.MaxFrames >= 0, "display.max_frames must not be negative")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// KeyRunes returns the quit, positive and negative keys. Call Validate first.
func (c Config) KeyRunes() (quit, positive, negative rune) {
	first := func(s string) rune {
		r, _ := utf8.DecodeRuneInString(s)
		return r
	}
	return first(c.Keys.Quit), first(c.Keys.Positive), first(c.Keys.Negative)
}

// ParseColor reads a #rrggbb colour.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q is not #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
