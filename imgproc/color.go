package imgproc

import (
	"image/color"
	"math"
)

type HSV struct {
	H float64 // 0 <= H < 360
	S float64 // 0 <= S <= 1
	V float64 // 0 <= V <= 1
}

// Rotates the hue by `degrees`, clockwise for positive values, wrapping at 360
func (col *HSV) RotateHue(degrees float64) {
	col.H = math.Mod(col.H+degrees, 360)
	if col.H < 0 {
		col.H += 360
	}
}

// Converts an HSV color to RGBA, where `A` is implicitly set to 255 (solid)
func (col HSV) RGBA() color.RGBA {
	h := math.Mod(col.H, 360)
	if h < 0 {
		h += 360
	}
	c := col.V * col.S
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := col.V - c

	var rp, gp, bp float64 // R' G' B'
	switch {
	case h < 60:
		rp, gp, bp = c, x, 0
	case h < 120:
		rp, gp, bp = x, c, 0
	case h < 180:
		rp, gp, bp = 0, c, x
	case h < 240:
		rp, gp, bp = 0, x, c
	case h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}

	channel := func(v float64) uint8 {
		return uint8(math.Round((v + m) * 255))
	}
	return color.RGBA{channel(rp), channel(gp), channel(bp), 255}
}

// Palette returns n fully saturated colours with hues spread evenly around
// the wheel, starting from `start`
func Palette(start HSV, n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	step := 360 / float64(n)
	hue := start
	for i := range out {
		out[i] = hue.RGBA()
		hue.RotateHue(step)
	}
	return out
}
