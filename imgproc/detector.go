package imgproc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/vision"
)

// Detector kinds accepted by Load.
const (
	KindCascade  = "cascade"
	KindTemplate = "template"
)

// Load opens the model at path with the detector named by kind.
func Load(kind, path string, cascade CascadeConfig, template TemplateConfig) (vision.Detector, error) {
	switch kind {
	case KindCascade:
		return LoadCascade(path, cascade)
	case KindTemplate:
		return LoadTemplate(path, template)
	default:
		return nil, fmt.Errorf("%w: unknown detector kind %q", vision.ErrModelLoadFailed, kind)
	}
}

func checkFrame(f frame.Frame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", vision.ErrDetectionFailed, err)
	}
	return nil
}

// KindFromPath guesses the detector kind from the model file extension.
func KindFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return KindCascade, nil
	case ".png", ".jpg", ".jpeg", ".bmp":
		return KindTemplate, nil
	}
	return "", errors.New("unknown model type: " + path)
}
