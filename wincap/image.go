package wincap

import (
	"fmt"
	"image"
	"sync"
)

// ImageBackend serves still images as if they were on-screen windows. It
// stands in for the OS when replaying a saved screenshot or in tests.
type ImageBackend struct {
	mu      sync.Mutex
	desktop image.Rectangle
	windows []*imageWindow
	nextID  uintptr
}

type imageWindow struct {
	id     uintptr
	title  string
	rect   image.Rectangle
	img    image.Image
	closed bool
}

// NewImageBackend creates a backend whose desktop covers screen.
func NewImageBackend(screen image.Rectangle) *ImageBackend {
	return &ImageBackend{desktop: screen, nextID: 1}
}

// AddWindow places img on screen at rect. The image's top-left pixel lands
// at the window's top-left corner; any part of the window the image does
// not cover is black. Later windows are stacked above earlier ones.
func (b *ImageBackend) AddWindow(title string, rect image.Rectangle, img image.Image) Target {
	b.mu.Lock()
	defer b.mu.Unlock()

	w := &imageWindow{id: b.nextID, title: title, rect: rect, img: img}
	b.nextID++
	b.windows = append(b.windows, w)
	return Target{ID: w.id, Title: title}
}

// CloseWindow removes a window; later captures from it fail.
func (b *ImageBackend) CloseWindow(t Target) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range b.windows {
		if w.id == t.ID {
			w.closed = true
		}
	}
}

func (b *ImageBackend) Desktop() (Target, error) {
	return Target{Desktop: true}, nil
}

func (b *ImageBackend) FindWindow(title string) (Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range b.windows {
		if !w.closed && w.title == title {
			return Target{ID: w.id, Title: w.title}, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %q", ErrTargetNotFound, title)
}

func (b *ImageBackend) WindowRect(t Target) (image.Rectangle, error) {
	if t.Desktop {
		return b.desktop, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	w, err := b.lookup(t)
	if err != nil {
		return image.Rectangle{}, err
	}
	return w.rect, nil
}

func (b *ImageBackend) Grab(t Target, r image.Rectangle) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.Desktop {
		return b.composite(r.Add(b.desktop.Min)), nil
	}

	w, err := b.lookup(t)
	if err != nil {
		return nil, err
	}
	return bgraFrom(w.img, r.Add(w.img.Bounds().Min)), nil
}

func (b *ImageBackend) Windows() ([]Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Window
	for _, w := range b.windows {
		if !w.closed {
			out = append(out, Window{ID: w.id, Title: w.title})
		}
	}
	return out, nil
}

func (b *ImageBackend) lookup(t Target) (*imageWindow, error) {
	for _, w := range b.windows {
		if w.id == t.ID {
			if w.closed {
				return nil, fmt.Errorf("window %#x was closed", t.ID)
			}
			return w, nil
		}
	}
	return nil, fmt.Errorf("no window with id %#x", t.ID)
}

// composite renders the screen region r (in screen coordinates) with every
// open window painted in stacking order.
func (b *ImageBackend) composite(r image.Rectangle) []byte {
	out := make([]byte, r.Dx()*r.Dy()*4)
	for i := 3; i < len(out); i += 4 {
		out[i] = 255
	}

	for _, w := range b.windows {
		if w.closed {
			continue
		}
		visible := w.rect.Intersect(r)
		if visible.Empty() {
			continue
		}
		local := visible.Sub(w.rect.Min).Add(w.img.Bounds().Min)
		pix := bgraFrom(w.img, local)
		rowLen := visible.Dx() * 4
		for y := 0; y < visible.Dy(); y++ {
			dst := ((visible.Min.Y-r.Min.Y+y)*r.Dx() + (visible.Min.X - r.Min.X)) * 4
			copy(out[dst:dst+rowLen], pix[y*rowLen:(y+1)*rowLen])
		}
	}
	return out
}
