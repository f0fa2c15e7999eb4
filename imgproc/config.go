package imgproc

import "image/color"

type CascadeConfig struct {
	ScaleFactor  float64 // Image pyramid step between detection scales, > 1
	MinNeighbors int     // Overlapping hits required to keep a candidate
	MinSize      int     // Smallest object side in pixels, 0 for no limit
	MaxSize      int     // Largest object side in pixels, 0 for no limit
}

type TemplateConfig struct {
	Scales        []float64 // Template resize factors tried on every frame
	Threshold     float64   // Minimum normalized correlation for a match, in (0, 1]
	Overlap       float64   // IoU above which a weaker match is suppressed
	MaxDetections int       // Cap on returned matches, 0 for no cap
}

type AnnotateConfig struct {
	Color     color.RGBA // Box colour when CycleHue is off
	Thickness int        // Line thickness in pixels
	CycleHue  bool       // Give every box its own hue
}

func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{ScaleFactor: 1.1, MinNeighbors: 3}
}

func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		Scales:    []float64{0.8, 0.9, 1, 1.1, 1.25},
		Threshold: 0.8,
		Overlap:   0.3,
	}
}

func DefaultAnnotateConfig() AnnotateConfig {
	return AnnotateConfig{Color: color.RGBA{0, 255, 0, 255}, Thickness: 2}
}
