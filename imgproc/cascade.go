package imgproc

import (
	"fmt"
	"image"
	"os"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
	"gocv.io/x/gocv"
)

// CascadeDetector runs a trained Haar/LBP cascade over every frame.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	config     CascadeConfig
}

// LoadCascade reads a cascade XML produced by opencv_traincascade.
func LoadCascade(path string, config CascadeConfig) (*CascadeDetector, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrModelLoadFailed, err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("%w: error reading cascade file: %s", vision.ErrModelLoadFailed, path)
	}

	return &CascadeDetector{classifier: classifier, config: config}, nil
}

// Detect returns every region the cascade accepts. The order is whatever
// OpenCV produces.
func (d *CascadeDetector) Detect(f frame.Frame) ([]vision.Detection, error) {
	if err := checkFrame(f); err != nil {
		return nil, err
	}

	img, err := FrameToMat(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrDetectionFailed, err)
	}
	defer img.Close()

	gray := grey(img)
	defer gray.Close()

	rects := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		0,
		image.Pt(d.config.MinSize, d.config.MinSize),
		image.Pt(d.config.MaxSize, d.config.MaxSize),
	)

	dets := make([]vision.Detection, len(rects))
	for i, r := range rects {
		dets[i] = vision.Detection{Rect: r}
	}
	return vision.Clip(dets, f.Bounds()), nil
}

func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
