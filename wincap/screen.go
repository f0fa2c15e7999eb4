package wincap

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenBackend captures the primary display. It cannot address individual
// windows, so it is only useful for desktop capture.
type ScreenBackend struct {
	display int
}

func NewScreenBackend() *ScreenBackend {
	return &ScreenBackend{}
}

func (b *ScreenBackend) Desktop() (Target, error) {
	if screenshot.NumActiveDisplays() <= b.display {
		return Target{}, fmt.Errorf("%w: no active display", ErrTargetNotFound)
	}
	return Target{ID: uintptr(b.display), Desktop: true}, nil
}

func (b *ScreenBackend) FindWindow(title string) (Target, error) {
	return Target{}, fmt.Errorf("%w: %q (screen backend can only capture the desktop)", ErrTargetNotFound, title)
}

func (b *ScreenBackend) WindowRect(t Target) (image.Rectangle, error) {
	if !t.Desktop {
		return image.Rectangle{}, ErrUnsupported
	}
	return screenshot.GetDisplayBounds(int(t.ID)), nil
}

func (b *ScreenBackend) Grab(t Target, r image.Rectangle) ([]byte, error) {
	if !t.Desktop {
		return nil, ErrUnsupported
	}

	bounds := screenshot.GetDisplayBounds(int(t.ID))
	img, err := screenshot.CaptureRect(r.Add(bounds.Min))
	if err != nil {
		return nil, err
	}
	return bgraFrom(img, img.Bounds()), nil
}

func (b *ScreenBackend) Windows() ([]Window, error) {
	return nil, ErrUnsupported
}
