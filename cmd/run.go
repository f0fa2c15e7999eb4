package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DaniruKun/cascadecam/config"
	"github.com/DaniruKun/cascadecam/display"
	"github.com/DaniruKun/cascadecam/imgproc"
	"github.com/DaniruKun/cascadecam/pipeline"
	"github.com/DaniruKun/cascadecam/vision"
	"github.com/DaniruKun/cascadecam/wincap"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	capture, err := openCapture(cfg)
	if err != nil {
		return err
	}
	geom := capture.Geometry()
	logger.Info("capturing", "window", cfg.Window, "width", geom.Width, "height", geom.Height, "offset", geom.Offset)

	detector, err := openDetector(cfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	annotate, err := annotateConfig(cfg.Annotate)
	if err != nil {
		return err
	}

	var disp pipeline.Display
	if cfg.Display.Headless {
		disp = display.NewHeadless()
	} else {
		disp = display.NewWindow(cfg.Display.Title)
	}

	quit, positive, negative := cfg.KeyRunes()
	ctrl := pipeline.New(
		capture,
		detector,
		imgproc.Annotator(annotate),
		disp,
		imgproc.NewSampleWriter(cfg.Output.Positive, cfg.Output.Negative, cfg.Output.Format),
		pipeline.Options{
			Keys:        pipeline.Keys{Quit: quit, Positive: positive, Negative: negative},
			PollTimeout: cfg.Display.PollTimeout,
			MaxFrames:   cfg.Display.MaxFrames,
			PrintFPS:    cfg.Display.PrintFPS,
			Out:         cmd.OutOrStdout(),
			Logger:      logger,
		},
	)

	if err := ctrl.Run(cmd.Context()); err != nil {
		logger.Error("pipeline stopped", "frames", ctrl.State().Frames, "error", err)
		return err
	}
	logger.Debug("pipeline finished", "frames", ctrl.State().Frames, "saved", ctrl.State().Saved)
	return nil
}

// loadConfig layers the config file and the flags the user set over the
// defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openCapture(cfg config.Config) (*wincap.WindowCapture, error) {
	backend := wincap.DefaultBackend()
	if cfg.Replay != "" {
		shot, err := imgproc.ReadFrame(cfg.Replay)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		replay := wincap.NewImageBackend(shot.Bounds())
		replay.AddWindow(cfg.Window, shot.Bounds(), shot)
		backend = replay
	}
	return wincap.New(backend, cfg.Window, cfg.Insets)
}

func openDetector(cfg config.Config) (vision.Detector, error) {
	kind := cfg.Detector.Kind
	if kind == "" {
		var err error
		if kind, err = imgproc.KindFromPath(cfg.Detector.Model); err != nil {
			return nil, err
		}
	}

	d := cfg.Detector
	cascade := imgproc.CascadeConfig{
		ScaleFactor:  d.ScaleFactor,
		MinNeighbors: d.MinNeighbors,
		MinSize:      d.MinSize,
		MaxSize:      d.MaxSize,
	}
	template := imgproc.TemplateConfig{
		Scales:        d.Scales,
		Threshold:     d.Threshold,
		Overlap:       d.Overlap,
		MaxDetections: d.MaxDetections,
	}
	return imgproc.Load(kind, d.Model, cascade, template)
}

func annotateConfig(a config.AnnotateConfig) (imgproc.AnnotateConfig, error) {
	c, err := config.ParseColor(a.Color)
	if err != nil {
		return imgproc.AnnotateConfig{}, err
	}
	return imgproc.AnnotateConfig{Color: c, Thickness: a.Thickness, CycleHue: a.CycleHue}, nil
}
