package imgproc

import (
	"image/color"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
	"gocv.io/x/gocv"
)

// Hue of the first box when hues are cycled; matches the default green.
var paletteStart = HSV{H: 120, S: 1, V: 1}

// Annotate returns a copy of f with every detection outlined. f itself is
// left untouched.
func Annotate(f frame.Frame, dets []vision.Detection, config AnnotateConfig) (frame.Frame, error) {
	img, err := FrameToMat(f)
	if err != nil {
		return frame.Frame{}, err
	}
	defer img.Close()

	colors := boxColors(len(dets), config)
	for i, d := range dets {
		gocv.Rectangle(&img, d.Rect, colors[i], config.Thickness)
	}

	return MatToFrame(img)
}

func boxColors(n int, config AnnotateConfig) []color.RGBA {
	if config.CycleHue {
		return Palette(paletteStart, n)
	}
	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = config.Color
	}
	return out
}

// Annotator binds an AnnotateConfig for use as the pipeline's draw step.
func Annotator(config AnnotateConfig) func(frame.Frame, []vision.Detection) (frame.Frame, error) {
	return func(f frame.Frame, dets []vision.Detection) (frame.Frame, error) {
		return Annotate(f, dets, config)
	}
}
