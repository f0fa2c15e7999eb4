package imgproc

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/utils"
	"github.com/DaniruKun/cascadecam/vision"
)

// SampleWriter stores raw frames as training samples, one directory per
// label.
type SampleWriter struct {
	dirs   map[vision.Label]string
	format string
	seq    atomic.Uint64
	now    func() time.Time
}

// NewSampleWriter writes positives to positiveDir and negatives to
// negativeDir, encoding files as format (e.g. "jpg", "png").
func NewSampleWriter(positiveDir, negativeDir, format string) *SampleWriter {
	return &SampleWriter{
		dirs: map[vision.Label]string{
			vision.Positive: positiveDir,
			vision.Negative: negativeDir,
		},
		format: format,
		now:    time.Now,
	}
}

// Save writes f under the directory for label and returns the file path.
func (w *SampleWriter) Save(f frame.Frame, label vision.Label) (string, error) {
	dir, ok := w.dirs[label]
	if !ok {
		return "", fmt.Errorf("unknown sample label: %s", label)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	path := utils.SamplePath(dir, w.now(), w.seq.Add(1), w.format)
	if err := WriteFrame(path, f); err != nil {
		return "", err
	}
	return path, nil
}
