package imgproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
)

func TestAnnotateLeavesInputUntouched(t *testing.T) {
	fill := color.RGBA{50, 50, 50, 255}
	f := uniformFrame(100, 80, fill)
	before := f.Clone()
	dets := []vision.Detection{{Rect: image.Rect(20, 20, 60, 60)}}

	out, err := Annotate(f, dets, DefaultAnnotateConfig())
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if !f.Equal(before) {
		t.Error("Annotate modified the input frame")
	}
	if out.Width != f.Width || out.Height != f.Height {
		t.Fatalf("output is %dx%d, want %dx%d", out.Width, out.Height, f.Width, f.Height)
	}
	if got := out.RGBAAt(20, 20); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("box corner: got %+v, want green", got)
	}
	if got := out.RGBAAt(40, 40); got != fill {
		t.Errorf("box interior: got %+v, want %+v", got, fill)
	}
	if got := out.RGBAAt(90, 5); got != fill {
		t.Errorf("outside the box: got %+v, want %+v", got, fill)
	}
}

func TestAnnotateNoDetections(t *testing.T) {
	f := patternFrame(40, 30)

	out, err := Annotate(f, nil, DefaultAnnotateConfig())
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if !out.Equal(f) {
		t.Error("no detections should give an identical copy")
	}
	out.Pix[0] = ^out.Pix[0]
	if out.Pix[0] == f.Pix[0] {
		t.Error("output shares its buffer with the input")
	}
}

func TestAnnotateCycleHue(t *testing.T) {
	f := uniformFrame(120, 40, color.RGBA{A: 255})
	dets := []vision.Detection{
		{Rect: image.Rect(5, 5, 35, 35)},
		{Rect: image.Rect(45, 5, 75, 35)},
		{Rect: image.Rect(85, 5, 115, 35)},
	}
	config := DefaultAnnotateConfig()
	config.CycleHue = true

	out, err := Annotate(f, dets, config)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	want := Palette(paletteStart, 3)
	for i, d := range dets {
		if got := out.RGBAAt(d.Rect.Min.X, d.Rect.Min.Y); got != want[i] {
			t.Errorf("box %d: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestAnnotateRejectsMalformed(t *testing.T) {
	if _, err := Annotate(frame.Frame{}, nil, DefaultAnnotateConfig()); err == nil {
		t.Error("expected an error for an empty frame")
	}
}
