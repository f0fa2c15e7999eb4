// Package display implements the sinks the pipeline shows frames on.
package display

import (
	"time"

	"github.com/DaniruKun/cascadecam/frame"
	"github.com/DaniruKun/cascadecam/imgproc"
	"gocv.io/x/gocv"
)

// Window shows frames in an OpenCV HighGUI window. Keys are only reported
// while the window has focus. Use it from the goroutine that created it.
type Window struct {
	win *gocv.Window
}

func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(f frame.Frame) error {
	img, err := imgproc.FrameToMat(f)
	if err != nil {
		return err
	}
	defer img.Close()

	w.win.IMShow(img)
	return nil
}

// PollKey waits for a key for at least one millisecond. HighGUI also
// repaints the window during the wait.
func (w *Window) PollKey(timeout time.Duration) (rune, bool) {
	key := w.win.WaitKey(waitMillis(timeout))
	if key < 0 {
		return 0, false
	}
	return rune(key & 0xFF), true
}

func (w *Window) Close() error {
	return w.win.Close()
}

func waitMillis(timeout time.Duration) int {
	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		// WaitKey(0) blocks forever
		ms = 1
	}
	return ms
}
