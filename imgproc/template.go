package imgproc

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
	"gocv.io/x/gocv"
)

// Templates smaller than this on either side after scaling are skipped.
const minTemplateSide = 4

// TemplateDetector slides a single example image over the frame at several
// scales and reports windows whose normalized correlation clears the
// threshold. It needs no training, only one cropped positive sample.
type TemplateDetector struct {
	template gocv.Mat // single channel
	config   TemplateConfig
}

// LoadTemplate reads the example image at path.
func LoadTemplate(path string, config TemplateConfig) (*TemplateDetector, error) {
	f, err := ReadFrame(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrModelLoadFailed, err)
	}
	return NewTemplateDetector(f, config)
}

// NewTemplateDetector uses tmpl as the example of the target object.
func NewTemplateDetector(tmpl frame.Frame, config TemplateConfig) (*TemplateDetector, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrModelLoadFailed, err)
	}
	if tmpl.Width < minTemplateSide || tmpl.Height < minTemplateSide {
		return nil, fmt.Errorf("%w: template %dx%d is too small", vision.ErrModelLoadFailed, tmpl.Width, tmpl.Height)
	}
	if isUniform(tmpl) {
		// correlation against a flat template is undefined
		return nil, fmt.Errorf("%w: template has a single colour", vision.ErrModelLoadFailed)
	}
	if len(config.Scales) == 0 {
		config.Scales = []float64{1}
	}

	mat, err := FrameToMat(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrModelLoadFailed, err)
	}
	defer mat.Close()

	return &TemplateDetector{template: grey(mat), config: config}, nil
}

// Detect returns the matches ordered by descending score.
func (d *TemplateDetector) Detect(f frame.Frame) ([]vision.Detection, error) {
	if err := checkFrame(f); err != nil {
		return nil, err
	}

	img, err := FrameToMat(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrDetectionFailed, err)
	}
	defer img.Close()

	src := grey(img)
	defer src.Close()

	var candidates []vision.Detection
	for _, scale := range d.config.Scales {
		found, err := d.matchAtScale(src, scale)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)
	}

	dets := suppress(candidates, d.config.Overlap, d.config.MaxDetections)
	return vision.Clip(dets, f.Bounds()), nil
}

func (d *TemplateDetector) matchAtScale(src gocv.Mat, scale float64) ([]vision.Detection, error) {
	tw := int(math.Round(float64(d.template.Cols()) * scale))
	th := int(math.Round(float64(d.template.Rows()) * scale))
	if tw < minTemplateSide || th < minTemplateSide || tw > src.Cols() || th > src.Rows() {
		return nil, nil
	}

	templ := gocv.NewMat()
	defer templ.Close()
	gocv.Resize(d.template, &templ, image.Pt(tw, th), 0, 0, gocv.InterpolationLinear)

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, templ, &result, gocv.TmCcoeffNormed, mask)

	scores, err := result.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vision.ErrDetectionFailed, err)
	}
	return peaks(scores, result.Cols(), result.Rows(), tw, th, d.config.Threshold), nil
}

// peaks returns a detection for every local maximum of the score map that
// reaches threshold.
func peaks(scores []float32, cols, rows, tw, th int, threshold float64) []vision.Detection {
	var out []vision.Detection
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s := scores[y*cols+x]
			if math.IsNaN(float64(s)) || float64(s) < threshold {
				continue
			}
			if !isLocalMax(scores, cols, rows, x, y) {
				continue
			}
			out = append(out, vision.Detection{
				Rect:   image.Rect(x, y, x+tw, y+th),
				Score:  float64(s),
				Scored: true,
			})
		}
	}
	return out
}

func isLocalMax(scores []float32, cols, rows, x, y int) bool {
	s := scores[y*cols+x]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= cols || ny >= rows {
				continue
			}
			if scores[ny*cols+nx] > s {
				return false
			}
		}
	}
	return true
}

// suppress keeps the best scoring detections, dropping any whose overlap
// with an already kept one exceeds maxIoU.
func suppress(dets []vision.Detection, maxIoU float64, limit int) []vision.Detection {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Score > dets[j].Score
	})

	var kept []vision.Detection
	for _, d := range dets {
		if limit > 0 && len(kept) >= limit {
			break
		}
		overlaps := false
		for _, k := range kept {
			if iou(d.Rect, k.Rect) > maxIoU {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, d)
		}
	}
	return kept
}

func iou(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	ia := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - ia
	return ia / union
}

func isUniform(f frame.Frame) bool {
	for i := frame.Channels; i < len(f.Pix); i += frame.Channels {
		if f.Pix[i] != f.Pix[0] || f.Pix[i+1] != f.Pix[1] || f.Pix[i+2] != f.Pix[2] {
			return false
		}
	}
	return true
}

func (d *TemplateDetector) Close() error {
	return d.template.Close()
}
