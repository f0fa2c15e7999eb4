// Package pipeline drives the capture, detect, annotate and display loop and
// turns operator keypresses into labelled training samples.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
)

// Capturer produces one fresh frame per call.
type Capturer interface {
	Capture() (frame.Frame, error)
}

// Detector finds objects in a frame.
type Detector interface {
	Detect(f frame.Frame) ([]vision.Detection, error)
}

// Annotator draws detections onto a copy of a frame.
type Annotator func(f frame.Frame, dets []vision.Detection) (frame.Frame, error)

// Display shows frames and reports keypresses made while it has focus.
type Display interface {
	Show(f frame.Frame) error
	// PollKey waits at most timeout for a key and reports whether one came.
	PollKey(timeout time.Duration) (rune, bool)
	Close() error
}

// SampleSaver persists a raw frame under a label and returns where.
type SampleSaver interface {
	Save(f frame.Frame, label vision.Label) (string, error)
}

// Keys are the operator bindings.
type Keys struct {
	Quit     rune
	Positive rune
	Negative rune
}

var DefaultKeys = Keys{Quit: 'q', Positive: 'd', Negative: 'f'}

type Options struct {
	Keys        Keys
	PollTimeout time.Duration // upper bound on each key poll
	MaxFrames   int           // stop after this many iterations, 0 for no limit
	PrintFPS    bool

	Out    io.Writer    // operator console, stdout when nil
	Logger *slog.Logger // diagnostics, discarded when nil
	Now    func() time.Time
}

// Controller owns the loop state. It is not safe for concurrent use.
type Controller struct {
	capturer Capturer
	detector Detector
	annotate Annotator
	display  Display
	saver    SampleSaver

	opts  Options
	out   io.Writer
	log   *slog.Logger
	now   func() time.Time
	state State
}

func New(c Capturer, d Detector, a Annotator, disp Display, s SampleSaver, opts Options) *Controller {
	ctrl := &Controller{
		capturer: c,
		detector: d,
		annotate: a,
		display:  disp,
		saver:    s,
		opts:     opts,
		out:      opts.Out,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if ctrl.out == nil {
		ctrl.out = io.Discard
	}
	if ctrl.log == nil {
		ctrl.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ctrl.now == nil {
		ctrl.now = time.Now
	}
	if ctrl.opts.PollTimeout <= 0 {
		ctrl.opts.PollTimeout = time.Millisecond
	}
	return ctrl
}

// State returns a snapshot of the loop state.
func (c *Controller) State() State {
	return c.state
}

// Run loops until the quit key, MaxFrames, context cancellation or the first
// failing stage. The display is closed on every exit. Cancellation is only
// observed between iterations.
func (c *Controller) Run(ctx context.Context) (err error) {
	c.state = State{Phase: Running, LastFrame: c.now()}

	defer func() {
		if cerr := c.display.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close display: %w", cerr)
		}
	}()

	for c.state.Phase == Running {
		if ctx.Err() != nil {
			c.terminate()
			return nil
		}

		if err := c.step(); err != nil {
			c.state.Phase = Terminated
			return err
		}

		if c.state.Phase == Running && c.opts.MaxFrames > 0 && c.state.Frames >= c.opts.MaxFrames {
			c.terminate()
		}
	}
	return nil
}

func (c *Controller) step() error {
	shot, err := c.capturer.Capture()
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	dets, err := c.detector.Detect(shot)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	annotated, err := c.annotate(shot, dets)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	if err := c.display.Show(annotated); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	key, pressed := c.display.PollKey(c.opts.PollTimeout)

	c.tick()

	if pressed {
		c.handleKey(key, shot)
	}
	return nil
}

func (c *Controller) tick() {
	now := c.now()
	fps := FPS(now.Sub(c.state.LastFrame))
	c.state.LastFrame = now
	c.state.Frames++

	if c.opts.PrintFPS {
		fmt.Fprintf(c.out, "%d FPS\n", fps)
	}
}

func (c *Controller) handleKey(key rune, raw frame.Frame) {
	switch key {
	case c.opts.Keys.Quit:
		c.terminate()
	case c.opts.Keys.Positive:
		c.save(raw, vision.Positive)
	case c.opts.Keys.Negative:
		c.save(raw, vision.Negative)
	}
}

func (c *Controller) save(raw frame.Frame, label vision.Label) {
	path, err := c.saver.Save(raw, label)
	if err != nil {
		c.log.Error("save screenshot", "label", label, "error", err)
		fmt.Fprintf(c.out, "Failed to save screenshot to %s folder: %v\n", label, err)
		return
	}
	c.state.Saved++
	c.log.Debug("saved screenshot", "label", label, "path", path)
	fmt.Fprintf(c.out, "Screenshot saved to %s folder.\n", label)
}

func (c *Controller) terminate() {
	c.state.Phase = Terminated
	fmt.Fprintln(c.out, "Exiting...")
}
