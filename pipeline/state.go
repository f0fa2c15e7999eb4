package pipeline

import "time"

type Phase int

const (
	Running Phase = iota
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// State is mutated only by the Controller's loop.
type State struct {
	Phase     Phase
	LastFrame time.Time // when the previous iteration finished
	Frames    int       // completed iterations
	Saved     int       // samples written
}

// FPS converts the time between two frames into an instantaneous rate,
// truncated to an integer. Non-positive durations give 0.
func FPS(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(1 / elapsed.Seconds())
}
