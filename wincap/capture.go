// Package wincap captures the client area of a single top-level window,
// or the whole desktop, as 3-channel frames ready for detection.
//
// The capture rectangle is computed once, when the WindowCapture is built.
// If the target window is moved or resized afterwards, captures keep using
// the old rectangle and MapToScreen returns stale coordinates.
package wincap

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/DaniruKun/cascadecam/frame"
)

var (
	ErrTargetNotFound  = errors.New("target window not found")
	ErrInvalidGeometry = errors.New("invalid capture geometry")
	ErrCaptureFailed   = errors.New("capture failed")
	ErrUnsupported     = errors.New("not supported by this capture backend")
)

// Target identifies the surface being captured.
type Target struct {
	ID      uintptr
	Title   string
	Desktop bool
}

// Window is one entry of a window listing.
type Window struct {
	ID    uintptr
	Title string
}

// Backend is the OS side of window capture.
type Backend interface {
	// Desktop returns the target covering the whole primary screen.
	Desktop() (Target, error)
	// FindWindow returns the first top-level window titled exactly title.
	FindWindow(title string) (Target, error)
	// WindowRect returns the target's outer rectangle in screen coordinates.
	WindowRect(t Target) (image.Rectangle, error)
	// Grab copies r, given relative to the window's top-left corner, as
	// 32-bit BGRA with a stride of r.Dx()*4.
	Grab(t Target, r image.Rectangle) ([]byte, error)
	// Windows lists the visible top-level windows.
	Windows() ([]Window, error)
}

// Insets are the window chrome margins stripped from every capture.
// Border is removed from the left, right and bottom edges, Titlebar from
// the top edge.
type Insets struct {
	Border   int `yaml:"border"`
	Titlebar int `yaml:"titlebar"`
}

// DefaultInsets match a standard Windows 10 window frame.
func DefaultInsets() Insets {
	return Insets{Border: 8, Titlebar: 30}
}

// Geometry is the capture rectangle derived from a window rectangle.
type Geometry struct {
	Width  int
	Height int
	Crop   image.Point // top-left of the capture rectangle inside the window
	Offset image.Point // top-left of the capture rectangle on screen
}

// Rect returns the capture rectangle relative to the window.
func (g Geometry) Rect() image.Rectangle {
	return image.Rect(g.Crop.X, g.Crop.Y, g.Crop.X+g.Width, g.Crop.Y+g.Height)
}

// ComputeGeometry strips the insets from window and records where the
// remaining rectangle lies on screen.
func ComputeGeometry(window image.Rectangle, in Insets) (Geometry, error) {
	if in.Border < 0 || in.Titlebar < 0 {
		return Geometry{}, fmt.Errorf("%w: negative insets %+v", ErrInvalidGeometry, in)
	}

	w := window.Dx() - in.Border*2
	h := window.Dy() - in.Titlebar - in.Border
	if w <= 0 || h <= 0 {
		return Geometry{}, fmt.Errorf("%w: %dx%d window leaves %dx%d after insets", ErrInvalidGeometry, window.Dx(), window.Dy(), w, h)
	}

	crop := image.Pt(in.Border, in.Titlebar)
	return Geometry{
		Width:  w,
		Height: h,
		Crop:   crop,
		Offset: window.Min.Add(crop),
	}, nil
}

// WindowCapture grabs frames from one target.
type WindowCapture struct {
	backend Backend
	target  Target
	geom    Geometry
}

// New binds to the window titled title, or to the desktop when title is
// empty.
func New(backend Backend, title string, in Insets) (*WindowCapture, error) {
	var (
		target Target
		err    error
	)
	if title == "" {
		target, err = backend.Desktop()
	} else {
		target, err = backend.FindWindow(title)
	}
	if err != nil {
		return nil, err
	}

	rect, err := backend.WindowRect(target)
	if err != nil {
		return nil, fmt.Errorf("%w: window rect: %w", ErrInvalidGeometry, err)
	}

	geom, err := ComputeGeometry(rect, in)
	if err != nil {
		return nil, err
	}

	return &WindowCapture{backend: backend, target: target, geom: geom}, nil
}

func (c *WindowCapture) Target() Target {
	return c.target
}

func (c *WindowCapture) Geometry() Geometry {
	return c.geom
}

// Capture copies the current contents of the capture rectangle into a new
// frame of exactly Geometry().Width x Geometry().Height pixels.
func (c *WindowCapture) Capture() (frame.Frame, error) {
	pix, err := c.backend.Grab(c.target, c.geom.Rect())
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	f, err := frame.FromBGRA(c.geom.Width, c.geom.Height, c.geom.Width*4, pix)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	return f, nil
}

// MapToScreen translates a point on a captured frame to screen coordinates.
func (c *WindowCapture) MapToScreen(p image.Point) image.Point {
	return p.Add(c.geom.Offset)
}

// ListWindows returns the visible top-level windows that have a title.
func ListWindows(backend Backend) ([]Window, error) {
	all, err := backend.Windows()
	if err != nil {
		return nil, err
	}

	titled := make([]Window, 0, len(all))
	for _, w := range all {
		if w.Title != "" {
			titled = append(titled, w)
		}
	}
	return titled, nil
}

// bgraFrom copies r out of img as BGRA. Points outside img are black.
func bgraFrom(img image.Image, r image.Rectangle) []byte {
	if rgba, ok := img.(*image.RGBA); ok {
		return bgraFromRGBA(rgba, r)
	}

	out := make([]byte, r.Dx()*r.Dy()*4)
	b := img.Bounds()
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Pt(x, y)
			if p.In(b) {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out[i], out[i+1], out[i+2] = c.B, c.G, c.R
			}
			out[i+3] = 255
			i += 4
		}
	}
	return out
}

// bgraFromRGBA swaps R and B straight out of Pix. Only translucent pixels
// go through colour conversion.
func bgraFromRGBA(img *image.RGBA, r image.Rectangle) []byte {
	out := make([]byte, r.Dx()*r.Dy()*4)
	for i := 3; i < len(out); i += 4 {
		out[i] = 255
	}

	in := r.Intersect(img.Rect)
	if in.Empty() {
		return out
	}
	rowLen := in.Dx() * 4
	for y := in.Min.Y; y < in.Max.Y; y++ {
		so := img.PixOffset(in.Min.X, y)
		src := img.Pix[so : so+rowLen]
		do := ((y-r.Min.Y)*r.Dx() + (in.Min.X - r.Min.X)) * 4
		dst := out[do : do+rowLen]
		for i := 0; i < rowLen; i += 4 {
			if src[i+3] != 0xff {
				c := color.NRGBAModel.Convert(color.RGBA{R: src[i], G: src[i+1], B: src[i+2], A: src[i+3]}).(color.NRGBA)
				dst[i], dst[i+1], dst[i+2] = c.B, c.G, c.R
				continue
			}
			dst[i] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i]
		}
	}
	return out
}
