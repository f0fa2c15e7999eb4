// Package frame holds the pixel buffer handed from capture to detection.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of bytes per pixel in a Frame. Pixels are stored
// in BGR order, the layout OpenCV expects for 8-bit colour images.
const Channels = 3

var ErrMalformed = errors.New("malformed frame")

// Frame is a dense row-major BGR image with no padding between rows.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a black frame of the given size.
func New(width, height int) Frame {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return Frame{Width: width, Height: height, Pix: make([]byte, width*height*Channels)}
}

// FromBGRA copies a 32-bit BGRA/BGRx buffer into a new 3-channel frame,
// dropping the fourth byte of every pixel. stride is the byte length of one
// source row and may include padding.
func FromBGRA(width, height, stride int, src []byte) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("%w: %dx%d", ErrMalformed, width, height)
	}
	if stride < width*4 {
		return Frame{}, fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrMalformed, stride, width)
	}
	if len(src) < stride*(height-1)+width*4 {
		return Frame{}, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrMalformed, len(src), stride*(height-1)+width*4)
	}

	f := New(width, height)
	for y := 0; y < height; y++ {
		row := src[y*stride : y*stride+width*4]
		out := f.Pix[y*width*Channels : (y+1)*width*Channels]
		for x, o := 0, 0; x < len(row); x, o = x+4, o+Channels {
			out[o] = row[x]
			out[o+1] = row[x+1]
			out[o+2] = row[x+2]
		}
	}
	return f, nil
}

// FromImage converts any image into a frame, ignoring alpha.
func FromImage(img image.Image) Frame {
	if rgba, ok := img.(*image.RGBA); ok {
		return fromRGBA(rgba)
	}

	b := img.Bounds()
	f := New(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			f.Pix[i] = c.B
			f.Pix[i+1] = c.G
			f.Pix[i+2] = c.R
			i += Channels
		}
	}
	return f
}

func fromRGBA(img *image.RGBA) Frame {
	b := img.Rect
	f := New(b.Dx(), b.Dy())
	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		so := img.PixOffset(b.Min.X, y)
		src := img.Pix[so : so+rowLen]
		out := f.Pix[(y-b.Min.Y)*b.Dx()*Channels:]
		for x, o := 0, 0; x < rowLen; x, o = x+4, o+Channels {
			if src[x+3] != 0xff {
				// un-premultiply like the generic path
				c := color.NRGBAModel.Convert(color.RGBA{R: src[x], G: src[x+1], B: src[x+2], A: src[x+3]}).(color.NRGBA)
				out[o], out[o+1], out[o+2] = c.B, c.G, c.R
				continue
			}
			out[o] = src[x+2]
			out[o+1] = src[x+1]
			out[o+2] = src[x]
		}
	}
	return f
}

// Validate reports whether the frame's buffer matches its dimensions.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: empty dimensions %dx%d", ErrMalformed, f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height*Channels {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrMalformed, len(f.Pix), f.Width, f.Height, Channels)
	}
	return nil
}

// Bounds returns the frame rectangle anchored at the origin.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// ColorModel, Bounds and At make a Frame usable as an image.Image.
func (f Frame) ColorModel() color.Model {
	return color.RGBAModel
}

func (f Frame) At(x, y int) color.Color {
	return f.RGBAAt(x, y)
}

// RGBAAt returns the colour at (x, y). Out of range points are black.
func (f Frame) RGBAAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{A: 255}
	}
	i := (y*f.Width + x) * Channels
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 255}
}

// Set writes the colour at (x, y). Out of range points are ignored.
func (f Frame) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * Channels
	f.Pix[i] = c.B
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.R
}

// Fill paints r (clipped to the frame) with c.
func (f Frame) Fill(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(f.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, c)
		}
	}
}

// Equal reports whether both frames have the same size and pixels.
func (f Frame) Equal(o Frame) bool {
	if f.Width != o.Width || f.Height != o.Height || len(f.Pix) != len(o.Pix) {
		return false
	}
	for i := range f.Pix {
		if f.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}
