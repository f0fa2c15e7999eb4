package display

import (
	"time"

	"github.com/DaniruKun/cascadecam/frame"
)

// Headless discards frames and never reports a key, for unattended runs
// that end through a frame limit or a signal.
type Headless struct {
	Shown int
	sleep func(time.Duration)
}

func NewHeadless() *Headless {
	return &Headless{sleep: time.Sleep}
}

func (h *Headless) Show(f frame.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	h.Shown++
	return nil
}

// PollKey waits out the timeout so the loop keeps the same pacing as with
// a real window.
func (h *Headless) PollKey(timeout time.Duration) (rune, bool) {
	if timeout > 0 && h.sleep != nil {
		h.sleep(timeout)
	}
	return 0, false
}

func (h *Headless) Close() error {
	return nil
}
