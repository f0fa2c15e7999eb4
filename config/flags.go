package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// RegisterFlags adds the run flags to fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.StringP("config", "c", "", "YAML config file")
	fs.StringP("window", "w", d.Window, "Exact title of the window to capture (empty for the whole desktop)")
	fs.String("replay", d.Replay, "Image file to capture from instead of a live window")
	fs.Int("border", d.Insets.Border, "Window border width stripped from the left, right and bottom edges")
	fs.Int("titlebar", d.Insets.Titlebar, "Titlebar height stripped from the top edge")

	fs.StringP("model", "m", d.Detector.Model, "Trained cascade XML, or a template image")
	fs.String("detector", d.Detector.Kind, "Detector kind: cascade or template (default: from the model extension)")
	fs.Float64("scale-factor", d.Detector.ScaleFactor, "Cascade pyramid scale step")
	fs.Int("min-neighbors", d.Detector.MinNeighbors, "Cascade neighbours needed to accept a detection")
	fs.Float64("threshold", d.Detector.Threshold, "Template match acceptance threshold")

	fs.String("color", d.Annotate.Color, "Detection box colour")
	fs.Int("thickness", d.Annotate.Thickness, "Detection box line thickness")
	fs.Bool("cycle-hue", d.Annotate.CycleHue, "Draw every detection box in its own colour")

	fs.String("positive-dir", d.Output.Positive, "Directory for positive samples")
	fs.String("negative-dir", d.Output.Negative, "Directory for negative samples")
	fs.String("format", d.Output.Format, "Sample image format")

	fs.String("title", d.Display.Title, "Viewer window title")
	fs.Bool("headless", d.Display.Headless, "Run without a viewer window")
	fs.Duration("poll", d.Display.PollTimeout, "Key poll timeout per frame")
	fs.Int("frames", d.Display.MaxFrames, "Stop after this many frames (0 for no limit)")
	fs.Bool("fps", d.Display.PrintFPS, "Print the frame rate of every frame")
}

// ApplyFlags copies every flag the user set on fs into cfg; unset flags
// leave the file or default value in place.
func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil {
			err = applyFlag(fs, f.Name, cfg)
		}
	})
	return err
}

func applyFlag(fs *pflag.FlagSet, name string, cfg *Config) (err error) {
	switch name {
	case "config":
	case "window":
		cfg.Window, err = fs.GetString(name)
	case "replay":
		cfg.Replay, err = fs.GetString(name)
	case "border":
		cfg.Insets.Border, err = fs.GetInt(name)
	case "titlebar":
		cfg.Insets.Titlebar, err = fs.GetInt(name)
	case "model":
		cfg.Detector.Model, err = fs.GetString(name)
	case "detector":
		cfg.Detector.Kind, err = fs.GetString(name)
	case "scale-factor":
		cfg.Detector.ScaleFactor, err = fs.GetFloat64(name)
	case "min-neighbors":
		cfg.Detector.MinNeighbors, err = fs.GetInt(name)
	case "threshold":
		cfg.Detector.Threshold, err = fs.GetFloat64(name)
	case "color":
		cfg.Annotate.Color, err = fs.GetString(name)
	case "thickness":
		cfg.Annotate.Thickness, err = fs.GetInt(name)
	case "cycle-hue":
		cfg.Annotate.CycleHue, err = fs.GetBool(name)
	case "positive-dir":
		cfg.Output.Positive, err = fs.GetString(name)
	case "negative-dir":
		cfg.Output.Negative, err = fs.GetString(name)
	case "format":
		cfg.Output.Format, err = fs.GetString(name)
	case "title":
		cfg.Display.Title, err = fs.GetString(name)
	case "headless":
		cfg.Display.Headless, err = fs.GetBool(name)
	case "poll":
		cfg.Display.PollTimeout, err = fs.GetDuration(name)
	case "frames":
		cfg.Display.MaxFrames, err = fs.GetInt(name)
	case "fps":
		cfg.Display.PrintFPS, err = fs.GetBool(name)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("flag --%s: %w", name, err)
	}
	return nil
}
