package imgproc

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
)

func TestTemplateDetectorFindsPattern(t *testing.T) {
	pattern := patternFrame(24, 24)
	scene := uniformFrame(200, 150, color.RGBA{A: 255})
	at := image.Pt(120, 60)
	paste(scene, pattern, at)

	d, err := NewTemplateDetector(pattern, DefaultTemplateConfig())
	if err != nil {
		t.Fatalf("NewTemplateDetector failed: %v", err)
	}
	defer d.Close()

	dets, err := d.Detect(scene)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) == 0 {
		t.Fatal("expected at least one detection")
	}

	centre := at.Add(image.Pt(12, 12))
	if !centre.In(dets[0].Rect) {
		t.Errorf("best detection %v does not contain the pattern centre %v", dets[0].Rect, centre)
	}
	if !dets[0].Scored || dets[0].Score < 0.99 {
		t.Errorf("exact match should score ~1, got %+v", dets[0])
	}
	for i, det := range dets {
		if !det.Rect.In(scene.Bounds()) {
			t.Errorf("detection %d %v lies outside the frame", i, det.Rect)
		}
		if i > 0 && det.Score > dets[i-1].Score {
			t.Errorf("detections not ordered by score: %v after %v", det.Score, dets[i-1].Score)
		}
	}
}

func TestTemplateDetectorUniformFrames(t *testing.T) {
	d, err := NewTemplateDetector(patternFrame(24, 24), DefaultTemplateConfig())
	if err != nil {
		t.Fatalf("NewTemplateDetector failed: %v", err)
	}
	defer d.Close()

	for _, c := range []color.RGBA{{A: 255}, {128, 128, 128, 255}, {255, 255, 255, 255}} {
		dets, err := d.Detect(uniformFrame(160, 120, c))
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if len(dets) != 0 {
			t.Errorf("uniform %+v frame gave %d detections", c, len(dets))
		}
	}
}

func TestTemplateDetectorSmallFrame(t *testing.T) {
	d, err := NewTemplateDetector(patternFrame(24, 24), DefaultTemplateConfig())
	if err != nil {
		t.Fatalf("NewTemplateDetector failed: %v", err)
	}
	defer d.Close()

	// every scale of the template is larger than the frame
	dets, err := d.Detect(patternFrame(10, 10))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("got %d detections, want none", len(dets))
	}
}

func TestTemplateDetectorMalformedFrame(t *testing.T) {
	d, err := NewTemplateDetector(patternFrame(24, 24), DefaultTemplateConfig())
	if err != nil {
		t.Fatalf("NewTemplateDetector failed: %v", err)
	}
	defer d.Close()

	var tests = []struct {
		name string
		f    frame.Frame
	}{
		{"empty", frame.Frame{}},
		{"four channels", frame.Frame{Width: 10, Height: 10, Pix: make([]byte, 400)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Detect(tt.f)
			if !errors.Is(err, vision.ErrDetectionFailed) {
				t.Errorf("got %v, want ErrDetectionFailed", err)
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gem.png")
	if err := WriteFrame(path, patternFrame(24, 24)); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	d, err := Load(KindTemplate, path, DefaultCascadeConfig(), DefaultTemplateConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d.Close()

	flat := filepath.Join(dir, "flat.png")
	if err := WriteFrame(flat, uniformFrame(24, 24, color.RGBA{9, 9, 9, 255})); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	var tests = []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.png")},
		{"uniform", flat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTemplate(tt.path, DefaultTemplateConfig())
			if !errors.Is(err, vision.ErrModelLoadFailed) {
				t.Errorf("got %v, want ErrModelLoadFailed", err)
			}
		})
	}
}

func TestSuppress(t *testing.T) {
	dets := []vision.Detection{
		{Rect: image.Rect(0, 0, 10, 10), Score: 0.85},
		{Rect: image.Rect(1, 1, 11, 11), Score: 0.95},
		{Rect: image.Rect(50, 50, 60, 60), Score: 0.9},
		{Rect: image.Rect(52, 50, 62, 60), Score: 0.8},
	}

	got := suppress(dets, 0.3, 0)
	if len(got) != 2 {
		t.Fatalf("got %d detections, want 2: %+v", len(got), got)
	}
	if got[0].Score != 0.95 || got[1].Score != 0.9 {
		t.Errorf("kept the wrong detections: %+v", got)
	}

	if limited := suppress(dets, 0.3, 1); len(limited) != 1 {
		t.Errorf("limit 1 kept %d detections", len(limited))
	}
}
