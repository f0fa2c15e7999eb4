//go:build !windows
// +build !windows

package wincap

// DefaultBackend returns a desktop-only backend; window capture by title
// needs Windows.
func DefaultBackend() Backend {
	return NewScreenBackend()
}
