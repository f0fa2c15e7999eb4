// Package vision defines what a detector produces and the errors it may
// raise, independently of the OpenCV implementation in imgproc.
package vision

import (
	"errors"
	"image"

	"github.com/DaniruKun/cascadecam/frame"
)

var (
	ErrModelLoadFailed = errors.New("model load failed")
	ErrDetectionFailed = errors.New("detection failed")
)

// Detection is one region where the target object is believed to appear,
// in frame-local pixel coordinates.
type Detection struct {
	Rect   image.Rectangle
	Score  float64
	Scored bool // false when the detector has no confidence value
}

// Detector finds the target object in a frame. Implementations must only
// return rectangles inside the frame bounds.
type Detector interface {
	Detect(f frame.Frame) ([]Detection, error)
	Close() error
}

// Clip restricts detections to bounds, dropping any that fall outside.
func Clip(dets []Detection, bounds image.Rectangle) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		d.Rect = d.Rect.Canon().Intersect(bounds)
		if !d.Rect.Empty() {
			out = append(out, d)
		}
	}
	return out
}

// Label marks a saved sample as containing the target or not.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
)
