//go:build windows
// +build windows

package wincap

// DefaultBackend returns the GDI backend.
func DefaultBackend() Backend {
	return NewWin32Backend()
}
